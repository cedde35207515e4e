// Package selectors resolves symbolic element names to locator strings kept
// in an external, human-editable CSV table.
//
// A Registry rereads its table on every call, so edits are visible to the
// next lookup. Wrap it in a Cache when repeated disk reads matter.
package selectors

import (
	"errors"
	"log/slog"
	"os"

	"github.com/kuitang/pom-e2e/internal/obs"
)

// Record is one data row of the selector table.
type Record struct {
	Key      string `json:"key" yaml:"key"`
	Selector string `json:"selector" yaml:"selector"`
	Type     string `json:"type,omitempty" yaml:"type,omitempty"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`
	Line     int    `json:"line" yaml:"line"`
}

// Registry maps keys to selectors using one backing file.
type Registry struct {
	path   string
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger overrides the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// New returns a registry reading the table at path. The file is not touched
// until the first call.
func New(path string, opts ...Option) *Registry {
	r := &Registry{
		path:   path,
		logger: obs.Pkg("selectors"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Path returns the backing table location.
func (r *Registry) Path() string {
	return r.path
}

// Lookup returns the selector of the first row whose key equals key exactly.
func (r *Registry) Lookup(key string) (string, error) {
	records, err := r.load()
	if err != nil {
		return "", err
	}
	if sel, ok := find(records, key); ok {
		return sel, nil
	}
	return "", &NotFoundError{Key: key, Path: r.path}
}

// MustLookup is like Lookup but panics on error.
func (r *Registry) MustLookup(key string) string {
	sel, err := r.Lookup(key)
	if err != nil {
		panic(err)
	}
	return sel
}

// ListAll returns every row in file order.
func (r *Registry) ListAll() ([]Record, error) {
	return r.load()
}

func (r *Registry) load() ([]Record, error) {
	f, err := os.Open(r.path)
	if err != nil {
		r.logger.Error("selector table unreadable", "path", r.path, "error", err)
		return nil, &ResourceError{Path: r.path, Err: err}
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		var resErr *ResourceError
		if errors.As(err, &resErr) {
			resErr.Path = r.path
		}
		r.logger.Error("selector table malformed", "path", r.path, "error", err)
		return nil, err
	}
	r.logger.Debug("selector table loaded", "path", r.path, "records", len(records))
	return records, nil
}

// find scans in file order; the first matching row wins.
func find(records []Record, key string) (string, bool) {
	for _, rec := range records {
		if rec.Key == key {
			return rec.Selector, true
		}
	}
	return "", false
}
