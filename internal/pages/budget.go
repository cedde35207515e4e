package pages

import (
	"context"

	"github.com/playwright-community/playwright-go"
)

const budgetDashboardPath = "/budgets"

// BudgetPage is the budget dashboard. It has no element locators yet.
type BudgetPage struct {
	Base
}

// NewBudgetPage returns the budget page object.
func NewBudgetPage(ctx context.Context, page playwright.Page, opts Options) *BudgetPage {
	return &BudgetPage{Base: newBase(ctx, page, "budget", opts)}
}

// NavigateToBudgetDashboard opens the dashboard and waits for it to load.
func (p *BudgetPage) NavigateToBudgetDashboard() error {
	return p.step("navigate to budget dashboard", func() error {
		if err := p.Goto(p.URL(budgetDashboardPath)); err != nil {
			return err
		}
		return p.WaitForLoadState()
	})
}
