package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/pom-e2e/internal/selectors"
)

// AdminPage covers the admin panel: user search and permission assignment.
type AdminPage struct {
	Base

	AdminButton        playwright.Locator
	UserLink           playwright.Locator
	SearchBox          playwright.Locator
	UserNameInput      playwright.Locator
	SearchButton       playwright.Locator
	UserResult         playwright.Locator
	PermissionsSection playwright.Locator
	PermissionSelect   playwright.Locator
	AssignButton       playwright.Locator
}

// NewAdminPage resolves the admin locators.
func NewAdminPage(ctx context.Context, page playwright.Page, sel Selectors, opts Options) (*AdminPage, error) {
	l := &locatorSet{page: page, sel: sel}
	p := &AdminPage{
		Base:               newBase(ctx, page, "admin", opts),
		AdminButton:        l.locate(selectors.AdminButton),
		UserLink:           l.locate(selectors.UserLink),
		SearchBox:          l.locate(selectors.SearchBoxSelect),
		UserNameInput:      l.locate(selectors.UserNameFill),
		SearchButton:       l.locate(selectors.ClickSearchButton),
		UserResult:         l.locate(selectors.ClickTheUserName),
		PermissionsSection: l.locate(selectors.ScrollToView),
		PermissionSelect:   l.locate(selectors.SelectTextFromList),
		AssignButton:       l.locate(selectors.ArrowButton),
	}
	if l.err != nil {
		return nil, fmt.Errorf("admin page: %w", l.err)
	}
	return p, nil
}

// NavigateToAdminDashboard opens the admin user list.
func (p *AdminPage) NavigateToAdminDashboard() error {
	return p.step("navigate to admin dashboard", func() error {
		if err := p.AdminButton.Click(); err != nil {
			return err
		}
		return p.UserLink.Click()
	})
}

// SearchAndSelectUser searches for username and opens the first result.
func (p *AdminPage) SearchAndSelectUser(username string) error {
	return p.step("search and select user", func() error {
		if err := p.SearchBox.Click(); err != nil {
			return err
		}
		if err := p.Fill(p.UserNameInput, "search", username); err != nil {
			return err
		}
		if err := p.SearchButton.Click(); err != nil {
			return err
		}
		return p.WaitVisibleAndClick(p.UserResult, false)
	})
}

// SelectUserPermission picks option from the permission list and assigns it.
func (p *AdminPage) SelectUserPermission(option string) error {
	return p.step("select user permission", func() error {
		if err := p.PermissionsSection.ScrollIntoViewIfNeeded(); err != nil {
			return err
		}
		if _, err := p.PermissionSelect.SelectOption(playwright.SelectOptionValues{
			Values: playwright.StringSlice(option),
		}); err != nil {
			return err
		}
		if err := p.AssignButton.Click(); err != nil {
			return err
		}
		return p.WaitForLoadState()
	})
}
