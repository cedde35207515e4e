package selectors

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	gocache "github.com/patrickmn/go-cache"

	"github.com/kuitang/pom-e2e/internal/errs"
)

const snapshotKey = "records"

// Cache serves lookups from a parsed snapshot of a Registry's table. The
// snapshot expires after ttl (never when ttl <= 0) and is dropped by
// Invalidate or, once Watch is running, by any change to the file.
// Load errors are returned to the caller and never cached.
type Cache struct {
	reg   *Registry
	cache *gocache.Cache

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	done    chan struct{}
	closed  bool
}

// NewCache wraps reg.
func NewCache(reg *Registry, ttl time.Duration) *Cache {
	expiration := ttl
	cleanup := ttl
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 0
	}
	return &Cache{
		reg:   reg,
		cache: gocache.New(expiration, cleanup),
		done:  make(chan struct{}),
	}
}

// Lookup has Registry.Lookup semantics over the cached snapshot.
func (c *Cache) Lookup(key string) (string, error) {
	records, err := c.snapshot()
	if err != nil {
		return "", err
	}
	if sel, ok := find(records, key); ok {
		return sel, nil
	}
	return "", &NotFoundError{Key: key, Path: c.reg.Path()}
}

// ListAll returns a copy of the cached rows in file order.
func (c *Cache) ListAll() ([]Record, error) {
	records, err := c.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]Record, len(records))
	copy(out, records)
	return out, nil
}

// Invalidate drops the snapshot; the next call rereads the file.
func (c *Cache) Invalidate() {
	c.cache.Delete(snapshotKey)
}

func (c *Cache) snapshot() ([]Record, error) {
	if v, found := c.cache.Get(snapshotKey); found {
		if records, ok := v.([]Record); ok {
			return records, nil
		}
		c.reg.logger.Error("wrong type in selector cache", "key", snapshotKey)
	}

	records, err := c.reg.ListAll()
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(snapshotKey, records)
	return records, nil
}

// Watch invalidates the snapshot whenever the backing file is written,
// created, renamed, or removed. It watches the parent directory so editors
// that replace the file atomically are still seen. Watching stops when ctx
// is done or Close is called.
func (c *Cache) Watch(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return errs.New(errs.FailedPrecondition, "selector cache is closed")
	}
	if c.watcher != nil {
		return errs.New(errs.FailedPrecondition, "selector cache is already watching")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(c.reg.Path())
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return errs.Wrap(errs.Unavailable, fmt.Sprintf("watching directory %s", dir), err)
	}
	c.watcher = w

	go c.loop(ctx, w, filepath.Base(c.reg.Path()))
	return nil
}

func (c *Cache) loop(ctx context.Context, w *fsnotify.Watcher, name string) {
	const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

	for {
		select {
		case <-ctx.Done():
			_ = c.Close()
			return
		case <-c.done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name || event.Op&relevant == 0 {
				continue
			}
			c.Invalidate()
			c.reg.logger.Debug("selector table changed", "path", c.reg.Path(), "op", event.Op.String())
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			c.reg.logger.Warn("selector watcher error", "path", c.reg.Path(), "error", err)
		}
	}
}

// Close stops watching. It is safe to call more than once.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	if c.watcher != nil {
		return c.watcher.Close()
	}
	return nil
}
