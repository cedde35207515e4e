package e2e

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/pom-e2e/internal/browser"
	"github.com/kuitang/pom-e2e/internal/config"
	"github.com/kuitang/pom-e2e/internal/demoapp"
	"github.com/kuitang/pom-e2e/internal/obs"
	"github.com/kuitang/pom-e2e/internal/pages"
	"github.com/kuitang/pom-e2e/internal/selectors"
	"github.com/kuitang/pom-e2e/internal/urlutil"
)

// Browser specs never wait longer than this for a single element or
// navigation.
const specTimeout = 5 * time.Second

var (
	sharedEnvMu  sync.Mutex
	sharedEnv    *e2eEnv
	sharedEnvErr error
)

// e2eEnv is the fixture shared by every browser spec: the demo application,
// one Playwright session, the resolved configuration and a selector cache
// so each project's page objects do not re-read the table.
type e2eEnv struct {
	cfg      *config.Config
	data     *config.TestData
	sel      *selectors.Cache
	server   *httptest.Server
	session  *browser.Session
	projects []browser.Project
	tracing  func(context.Context) error
}

func (e *e2eEnv) close() {
	if e.sel != nil {
		_ = e.sel.Close()
	}
	if e.session != nil {
		_ = e.session.Close()
	}
	if e.server != nil {
		e.server.Close()
	}
	if e.tracing != nil {
		_ = e.tracing(context.Background())
	}
}

// setupE2E returns the shared fixture, skipping in -short mode or when the
// Playwright driver cannot start.
func setupE2E(t *testing.T) *e2eEnv {
	t.Helper()
	if testing.Short() {
		t.Skip("browser specs skipped in -short mode")
	}

	sharedEnvMu.Lock()
	defer sharedEnvMu.Unlock()

	if sharedEnv == nil && sharedEnvErr == nil {
		sharedEnv, sharedEnvErr = newE2EEnv()
	}
	if sharedEnvErr != nil {
		t.Skip("Playwright not available:", sharedEnvErr)
	}
	return sharedEnv
}

func newE2EEnv() (*e2eEnv, error) {
	cfg, err := config.Load(repositoryRoot())
	if err != nil {
		return nil, err
	}
	data, err := config.LoadTestData(cfg.FixturesPath)
	if err != nil {
		return nil, err
	}
	projects, err := browser.ProjectsByName(cfg.Browser.Projects)
	if err != nil {
		return nil, err
	}

	shutdownTracing, err := obs.StartTracing(cfg.Tracing)
	if err != nil {
		return nil, err
	}

	app, err := demoapp.New(demoapp.Options{
		Users: map[string]string{data.Credentials.ValidUser.Username: data.Credentials.ValidUser.Password},
	})
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, err
	}
	server := httptest.NewServer(app.Handler())
	cfg.BaseURL = server.URL
	cfg.HomeURL = urlutil.Resolve(server.URL, "/deals")

	browserCfg := cfg.Browser
	browserCfg.ActionTimeout = specTimeout
	browserCfg.NavigationTimeout = specTimeout
	session, err := browser.Start(browserCfg, server.URL)
	if err != nil {
		server.Close()
		_ = shutdownTracing(context.Background())
		return nil, err
	}

	return &e2eEnv{
		cfg:      cfg,
		data:     data,
		sel:      selectors.NewCache(selectors.New(cfg.SelectorsPath), 0),
		server:   server,
		session:  session,
		projects: projects,
		tracing:  shutdownTracing,
	}, nil
}

// forEachProject runs fn once per configured browser project, each in a
// fresh context with its own page objects.
func (e *e2eEnv) forEachProject(t *testing.T, fn func(t *testing.T, app *pages.App, page playwright.Page)) {
	t.Helper()
	for _, p := range e.projects {
		t.Run(p.Name, func(t *testing.T) {
			bctx, page, err := e.session.NewPage(p)
			if err != nil {
				t.Skip("Could not launch browser:", err)
			}
			t.Cleanup(func() { _ = bctx.Close() })

			ctx := obs.WithCorrelation(context.Background(), obs.Correlation{
				RunID:   e.session.RunID,
				Test:    t.Name(),
				Project: p.Name,
			})
			app, err := pages.NewApp(ctx, page, e.sel, pages.Options{
				BaseURL:     e.cfg.BaseURL,
				WaitTimeout: specTimeout,
			})
			require.NoError(t, err)

			fn(t, app, page)
		})
	}
}

// gotoHome opens HOME_URL, the starting point of the deals and admin specs.
func (e *e2eEnv) gotoHome(t *testing.T, app *pages.App) {
	t.Helper()
	require.NoError(t, app.Deals.Goto(e.cfg.HomeURL))
	require.NoError(t, app.Deals.WaitForNetworkIdle())
}

// textOf waits for selector to be visible and returns its text, logging the
// page state when it never appears.
func textOf(t *testing.T, page playwright.Page, selector string) string {
	t.Helper()

	loc := page.Locator(selector).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(specTimeout.Milliseconds())),
	})
	if err != nil {
		title, _ := page.Title()
		t.Logf("Current URL: %s", page.URL())
		t.Logf("Current title: %s", title)
		t.Fatalf("element %s never became visible: %v", selector, err)
	}
	text, err := loc.TextContent()
	require.NoError(t, err)
	return text
}
