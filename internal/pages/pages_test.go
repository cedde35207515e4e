package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kuitang/pom-e2e/internal/config"
	"github.com/kuitang/pom-e2e/internal/obs"
	"github.com/kuitang/pom-e2e/internal/selectors"
)

// recorder collects the browser calls issued by page objects.
type recorder struct {
	mu     sync.Mutex
	calls  []string
	failOn string
}

func (r *recorder) record(call string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
	if r.failOn != "" && call == r.failOn {
		return errors.New("element not attached")
	}
	return nil
}

func (r *recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// fakePage implements the handful of playwright.Page methods page objects
// use; anything else panics on the nil embedded interface.
type fakePage struct {
	playwright.Page
	rec    *recorder
	prefix string
}

func (p *fakePage) Locator(selector string, _ ...playwright.PageLocatorOptions) playwright.Locator {
	return &fakeLocator{sel: p.prefix + selector, rec: p.rec}
}

func (p *fakePage) Goto(url string, _ ...playwright.PageGotoOptions) (playwright.Response, error) {
	return nil, p.rec.record(p.prefix + "goto " + url)
}

func (p *fakePage) WaitForLoadState(opts ...playwright.PageWaitForLoadStateOptions) error {
	state := "load"
	if len(opts) > 0 && opts[0].State != nil {
		state = string(*opts[0].State)
	}
	return p.rec.record(p.prefix + "loadState " + state)
}

func (p *fakePage) Title() (string, error) {
	return "Demo", nil
}

func (p *fakePage) ExpectPopup(cb func() error, _ ...playwright.PageExpectPopupOptions) (playwright.Page, error) {
	if err := cb(); err != nil {
		return nil, err
	}
	if err := p.rec.record("popup"); err != nil {
		return nil, err
	}
	return &fakePage{rec: p.rec, prefix: "tab: "}, nil
}

func (p *fakePage) GetByRole(role playwright.AriaRole, opts ...playwright.PageGetByRoleOptions) playwright.Locator {
	name := ""
	if len(opts) > 0 && opts[0].Name != nil {
		name = fmt.Sprint(opts[0].Name)
	}
	return &fakeLocator{sel: fmt.Sprintf("%srole=%s[name=%s]", p.prefix, role, name), rec: p.rec}
}

func (p *fakePage) Close(_ ...playwright.PageCloseOptions) error {
	return p.rec.record(p.prefix + "close")
}

func (p *fakePage) BringToFront() error {
	return p.rec.record(p.prefix + "bringToFront")
}

// pwLocator aliases playwright.Locator so the embedded field does not shadow
// the interface's own Locator method.
type pwLocator = playwright.Locator

type fakeLocator struct {
	pwLocator
	sel string
	rec *recorder
}

func (l *fakeLocator) WaitFor(_ ...playwright.LocatorWaitForOptions) error {
	return l.rec.record("waitFor " + l.sel)
}

func (l *fakeLocator) Click(opts ...playwright.LocatorClickOptions) error {
	if len(opts) > 0 && opts[0].Force != nil && *opts[0].Force {
		return l.rec.record("forceClick " + l.sel)
	}
	return l.rec.record("click " + l.sel)
}

func (l *fakeLocator) Fill(value string, _ ...playwright.LocatorFillOptions) error {
	return l.rec.record("fill " + l.sel + " " + value)
}

func (l *fakeLocator) Check(_ ...playwright.LocatorCheckOptions) error {
	return l.rec.record("check " + l.sel)
}

func (l *fakeLocator) ScrollIntoViewIfNeeded(_ ...playwright.LocatorScrollIntoViewIfNeededOptions) error {
	return l.rec.record("scroll " + l.sel)
}

func (l *fakeLocator) SelectOption(values playwright.SelectOptionValues, _ ...playwright.LocatorSelectOptionOptions) ([]string, error) {
	var v []string
	if values.Values != nil {
		v = *values.Values
	}
	return v, l.rec.record("select " + l.sel + " " + strings.Join(v, ","))
}

type stubSelectors map[string]string

func (s stubSelectors) Lookup(key string) (string, error) {
	sel, ok := s[key]
	if !ok {
		return "", &selectors.NotFoundError{Key: key, Path: "selectors.csv"}
	}
	return sel, nil
}

func repoSelectors() *selectors.Registry {
	return selectors.New(filepath.Join("..", "..", "resources", "selectors.csv"))
}

func newTestApp(t *testing.T) (*App, *recorder) {
	t.Helper()
	rec := &recorder{}
	app, err := NewApp(context.Background(), &fakePage{rec: rec}, repoSelectors(), Options{
		BaseURL:     "http://demo.test/",
		WaitTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	return app, rec
}

func TestNewAppResolvesEveryLocator(t *testing.T) {
	app, _ := newTestApp(t)

	assert.Equal(t, "#username", app.Login.UsernameInput.(*fakeLocator).sel)
	assert.Equal(t, "#password", app.Login.PasswordInput.(*fakeLocator).sel)
	assert.Equal(t, ".btn-login", app.Login.LoginButton.(*fakeLocator).sel)
	assert.Equal(t, "text=RoamSmart", app.Deals.SelectRoamSmart.(*fakeLocator).sel)
	assert.Equal(t, "xpath=//button[text()='Confirm']", app.Deals.Confirm.(*fakeLocator).sel)
	assert.NotNil(t, app.Admin.AssignButton)
	assert.NotNil(t, app.Budget)
}

func TestConstructorFailsOnMissingKey(t *testing.T) {
	sel := stubSelectors{
		selectors.UsernameInput: "#username",
		selectors.PasswordInput: "#password",
	}

	_, err := NewLoginPage(context.Background(), &fakePage{rec: &recorder{}}, sel, Options{})
	require.Error(t, err)

	var nf *selectors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, selectors.LoginButton, nf.Key)
	assert.Contains(t, err.Error(), "selector with key 'loginButton' not found in selectors.csv")

	_, err = NewApp(context.Background(), &fakePage{rec: &recorder{}}, sel, Options{})
	require.ErrorAs(t, err, &nf)
}

func TestLoginFlow(t *testing.T) {
	app, rec := newTestApp(t)

	require.NoError(t, app.Login.Navigate())
	require.NoError(t, app.Login.Login(config.User{Username: "qa-admin", Password: "s3cret"}))

	assert.Equal(t, []string{
		"goto http://demo.test/",
		"fill #username qa-admin",
		"fill #password s3cret",
		"click .btn-login",
		"loadState load",
	}, rec.Calls())
}

func TestFillRedactsSensitiveValuesInLogs(t *testing.T) {
	var buf bytes.Buffer
	restore := obs.SetOutputForTests(&buf)
	defer restore()

	app, _ := newTestApp(t)
	require.NoError(t, app.Login.Login(config.User{Username: "qa-admin", Password: "s3cret"}))

	out := buf.String()
	assert.Contains(t, out, "qa-admin")
	assert.Contains(t, out, "[REDACTED]")
	assert.NotContains(t, out, "s3cret")
}

func TestAdminFlow(t *testing.T) {
	app, rec := newTestApp(t)

	require.NoError(t, app.Admin.NavigateToAdminDashboard())
	require.NoError(t, app.Admin.SearchAndSelectUser("shikder"))
	require.NoError(t, app.Admin.SelectUserPermission("41"))

	calls := rec.Calls()
	require.Len(t, calls, 11)
	assert.Equal(t, "click #admin-button", calls[0])
	assert.Contains(t, calls, "fill input[name='q'] shikder")
	assert.Contains(t, calls, "select select#permission-list 41")
	assert.Equal(t, "loadState load", calls[len(calls)-1])
}

func TestCreateNewDealForcesOverlayClicks(t *testing.T) {
	app, rec := newTestApp(t)

	require.NoError(t, app.Deals.CreateNewDeal())

	calls := rec.Calls()
	assert.Contains(t, calls, "forceClick text=RoamSmart")
	assert.Contains(t, calls, "forceClick xpath=//button[text()='Confirm']")
	assert.Contains(t, calls, "click button.save")
	assert.NotContains(t, calls, "click text=RoamSmart")

	// Every click is preceded by a visibility wait on the same locator.
	for i, call := range calls {
		if strings.HasPrefix(call, "click ") || strings.HasPrefix(call, "forceClick ") {
			sel := call[strings.Index(call, " ")+1:]
			require.Positive(t, i)
			assert.Equal(t, "waitFor "+sel, calls[i-1])
		}
	}
	assert.Equal(t, "loadState load", calls[len(calls)-1])
}

func TestOpenDealInNewTab(t *testing.T) {
	app, rec := newTestApp(t)

	require.NoError(t, app.Deals.OpenDealInNewTab())

	assert.Equal(t, []string{
		"click a#deal-682",
		"popup",
		"tab: loadState domcontentloaded",
		"click tab: role=button[name=Save]",
		"tab: close",
		"bringToFront",
	}, rec.Calls())
}

func TestBudgetNavigation(t *testing.T) {
	app, rec := newTestApp(t)

	require.NoError(t, app.Budget.NavigateToBudgetDashboard())
	assert.Equal(t, []string{"goto http://demo.test/budgets", "loadState load"}, rec.Calls())
}

func TestStepFailureIsWrappedAndStops(t *testing.T) {
	app, rec := newTestApp(t)
	rec.failOn = "waitFor .create-deal"

	err := app.Deals.CreateNewDeal()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create new deal")
	assert.Contains(t, err.Error(), "element not attached")
	assert.Equal(t, "waitFor .create-deal", rec.Calls()[len(rec.Calls())-1])
}

func TestURLJoin(t *testing.T) {
	b := newBase(context.Background(), &fakePage{rec: &recorder{}}, "x", Options{BaseURL: "http://h:1"})
	assert.Equal(t, "http://h:1/budgets", b.URL("/budgets"))
	assert.Equal(t, defaultWaitTimeout, b.opts.WaitTimeout)

	title, err := b.Title()
	require.NoError(t, err)
	assert.Equal(t, "Demo", title)
}

func TestStepsEmitSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	app, rec := newTestApp(t)
	rec.failOn = "click .btn-login"

	require.Error(t, app.Login.Login(config.User{Username: "qa-admin", Password: "x"}))
	require.NoError(t, app.Budget.NavigateToBudgetDashboard())

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "login.login", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "budget.navigate to budget dashboard", spans[1].Name())
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}
