// Package browser launches Playwright browsers and hands out contexts and
// pages configured for one browser project.
package browser

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/pom-e2e/internal/config"
	"github.com/kuitang/pom-e2e/internal/errs"
	"github.com/kuitang/pom-e2e/internal/obs"
)

// Session owns one Playwright driver and the browsers launched from it.
// Browsers are launched lazily, one per engine and channel.
type Session struct {
	RunID string

	cfg     config.Browser
	baseURL string
	pw      *playwright.Playwright
	logger  *slog.Logger

	mu       sync.Mutex
	browsers map[string]playwright.Browser
}

// Start runs the Playwright driver. baseURL becomes the base for relative
// navigation in every context.
func Start(cfg config.Browser, baseURL string) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, "playwright not available", err)
	}
	runID := uuid.NewString()
	return &Session{
		RunID:    runID,
		cfg:      cfg,
		baseURL:  baseURL,
		pw:       pw,
		logger:   obs.Pkg("browser").With("run_id", runID),
		browsers: map[string]playwright.Browser{},
	}, nil
}

func (s *Session) browserFor(p Project) (playwright.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := string(p.Engine) + "/" + p.Channel
	if b, ok := s.browsers[key]; ok {
		return b, nil
	}

	var bt playwright.BrowserType
	switch p.Engine {
	case Chromium:
		bt = s.pw.Chromium
	case Firefox:
		bt = s.pw.Firefox
	case WebKit:
		bt = s.pw.WebKit
	default:
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("unknown browser engine %q", p.Engine))
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(s.cfg.Headless),
	}
	if p.Channel != "" {
		opts.Channel = playwright.String(p.Channel)
	}
	b, err := bt.Launch(opts)
	if err != nil {
		return nil, errs.Wrap(errs.Unavailable, fmt.Sprintf("could not launch %s", p.Name), err)
	}
	s.logger.Info("browser launched", "project", p.Name, "engine", p.Engine, "channel", p.Channel, "version", b.Version())
	s.browsers[key] = b
	return b, nil
}

// NewContext creates an isolated browser context for p.
func (s *Session) NewContext(p Project) (playwright.BrowserContext, error) {
	b, err := s.browserFor(p)
	if err != nil {
		return nil, err
	}

	device := s.pw.Devices[p.Device]
	if p.Device != "" && device == nil {
		s.logger.Warn("unknown device descriptor, using configured viewport", "project", p.Name, "device", p.Device)
	}

	ctx, err := b.NewContext(ContextOptions(s.cfg, s.baseURL, device, s.videoDir(p)))
	if err != nil {
		return nil, fmt.Errorf("could not create browser context for %s: %w", p.Name, err)
	}
	ctx.SetDefaultTimeout(float64(s.cfg.ActionTimeout.Milliseconds()))
	ctx.SetDefaultNavigationTimeout(float64(s.cfg.NavigationTimeout.Milliseconds()))
	return ctx, nil
}

// NewPage creates a page in a fresh context for p. Closing the returned
// context also closes the page.
func (s *Session) NewPage(p Project) (playwright.BrowserContext, playwright.Page, error) {
	ctx, err := s.NewContext(p)
	if err != nil {
		return nil, nil, err
	}
	page, err := ctx.NewPage()
	if err != nil {
		_ = ctx.Close()
		return nil, nil, fmt.Errorf("could not create page for %s: %w", p.Name, err)
	}
	return ctx, page, nil
}

func (s *Session) videoDir(p Project) string {
	if s.cfg.VideoDir == "" {
		return ""
	}
	return filepath.Join(s.cfg.VideoDir, s.RunID, p.Slug())
}

// Close closes every launched browser and stops the driver.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for key, b := range s.browsers {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.browsers, key)
	}
	if s.pw != nil {
		if err := s.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
		s.pw = nil
	}
	return firstErr
}

// ContextOptions builds context options from a device descriptor (may be nil)
// and the configured browser settings. Device viewport and user agent win
// over the configured viewport, as project settings do over shared ones.
func ContextOptions(cfg config.Browser, baseURL string, device *playwright.DeviceDescriptor, videoDir string) playwright.BrowserNewContextOptions {
	opts := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(cfg.IgnoreHTTPSErrors),
		Viewport: &playwright.Size{
			Width:  cfg.Viewport.Width,
			Height: cfg.Viewport.Height,
		},
	}
	if baseURL != "" {
		opts.BaseURL = playwright.String(baseURL)
	}

	if device != nil {
		if device.Viewport != nil {
			opts.Viewport = &playwright.Size{Width: device.Viewport.Width, Height: device.Viewport.Height}
		}
		if device.Screen != nil {
			opts.Screen = &playwright.Size{Width: device.Screen.Width, Height: device.Screen.Height}
		}
		if device.UserAgent != "" {
			opts.UserAgent = playwright.String(device.UserAgent)
		}
		if device.DeviceScaleFactor > 0 {
			opts.DeviceScaleFactor = playwright.Float(device.DeviceScaleFactor)
		}
		opts.IsMobile = playwright.Bool(device.IsMobile)
		opts.HasTouch = playwright.Bool(device.HasTouch)
	}

	if videoDir != "" {
		opts.RecordVideo = &playwright.RecordVideo{
			Dir:  videoDir,
			Size: &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height},
		}
	}
	return opts
}
