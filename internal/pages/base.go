// Package pages holds the page objects: one type per screen, bundling the
// locators it needs and the interaction flows run against it.
//
// Locator strings are never written here. Each page resolves symbolic keys
// through a Selectors source when it is constructed, so a key missing from
// the table fails construction instead of a later click.
package pages

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/kuitang/pom-e2e/internal/logutil"
	"github.com/kuitang/pom-e2e/internal/obs"
	"github.com/kuitang/pom-e2e/internal/urlutil"
)

const (
	defaultWaitTimeout = 10 * time.Second
	tracerName         = "github.com/kuitang/pom-e2e/internal/pages"
)

// Selectors resolves a key to a locator string. *selectors.Registry and
// *selectors.Cache both satisfy it.
type Selectors interface {
	Lookup(key string) (string, error)
}

// Options configures page objects.
type Options struct {
	// BaseURL is the application origin; login lives at its root.
	BaseURL string
	// WaitTimeout bounds each wait for an element to become visible.
	WaitTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = defaultWaitTimeout
	}
	return o
}

// Base carries what every page object shares.
type Base struct {
	Page playwright.Page

	ctx    context.Context
	name   string
	opts   Options
	logger *slog.Logger
}

func newBase(ctx context.Context, page playwright.Page, name string, opts Options) Base {
	return Base{
		Page:   page,
		ctx:    ctx,
		name:   name,
		opts:   opts.withDefaults(),
		logger: obs.From(ctx).With("pkg", "pages", "page", name),
	}
}

// URL joins path onto the configured base URL.
func (b *Base) URL(path string) string {
	return urlutil.Resolve(b.opts.BaseURL, path)
}

// Goto navigates and waits for DOMContentLoaded.
func (b *Base) Goto(url string) error {
	_, err := b.Page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// WaitForLoadState waits for the load event of the current document.
func (b *Base) WaitForLoadState() error {
	return b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateLoad,
	})
}

// WaitForNetworkIdle waits until the page has no network activity.
func (b *Base) WaitForNetworkIdle() error {
	return b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// Title returns the document title.
func (b *Base) Title() (string, error) {
	return b.Page.Title()
}

// step runs fn inside a span, logging and wrapping any failure with the
// step name.
func (b *Base) step(name string, fn func() error) error {
	_, span := obs.Tracer(tracerName).Start(b.ctx, b.name+"."+name)
	span.SetAttributes(attribute.String("page", b.name))
	defer span.End()

	if err := fn(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		b.logger.Error("page step failed", "step", name, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	b.logger.Debug("page step done", "step", name)
	return nil
}

func (b *Base) waitVisible(loc playwright.Locator) error {
	return loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(b.opts.WaitTimeout.Milliseconds())),
	})
}

// WaitVisibleAndClick waits for loc to be visible, then clicks it. force skips
// actionability checks for elements covered by overlays.
func (b *Base) WaitVisibleAndClick(loc playwright.Locator, force bool) error {
	if err := b.waitVisible(loc); err != nil {
		return err
	}
	if force {
		return loc.Click(playwright.LocatorClickOptions{Force: playwright.Bool(true)})
	}
	return loc.Click()
}

// Fill types value into loc; field names the input in logs, where values of
// sensitive fields are redacted.
func (b *Base) Fill(loc playwright.Locator, field, value string) error {
	b.logger.Debug("fill", "field", field, "value", logutil.TruncateForLog(logutil.RedactValue(field, value), 64))
	return loc.Fill(value)
}

// locatorSet resolves keys into locators, keeping the first failure so a
// constructor can resolve every field and check once.
type locatorSet struct {
	page playwright.Page
	sel  Selectors
	err  error
}

func (l *locatorSet) locate(key string) playwright.Locator {
	if l.err != nil {
		return nil
	}
	s, err := l.sel.Lookup(key)
	if err != nil {
		l.err = err
		return nil
	}
	return l.page.Locator(s)
}
