package pages

import (
	"context"

	"github.com/playwright-community/playwright-go"
)

// App bundles every page object for one browser page.
type App struct {
	Login  *LoginPage
	Admin  *AdminPage
	Deals  *DealsPage
	Budget *BudgetPage
}

// NewApp builds all page objects. It fails on the first selector key the
// table cannot resolve.
func NewApp(ctx context.Context, page playwright.Page, sel Selectors, opts Options) (*App, error) {
	login, err := NewLoginPage(ctx, page, sel, opts)
	if err != nil {
		return nil, err
	}
	admin, err := NewAdminPage(ctx, page, sel, opts)
	if err != nil {
		return nil, err
	}
	deals, err := NewDealsPage(ctx, page, sel, opts)
	if err != nil {
		return nil, err
	}
	return &App{
		Login:  login,
		Admin:  admin,
		Deals:  deals,
		Budget: NewBudgetPage(ctx, page, opts),
	}, nil
}
