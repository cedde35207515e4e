package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/pom-e2e/internal/config"
	"github.com/kuitang/pom-e2e/internal/selectors"
)

// LoginPage is the sign-in form at the application root.
type LoginPage struct {
	Base

	UsernameInput playwright.Locator
	PasswordInput playwright.Locator
	LoginButton   playwright.Locator
}

// NewLoginPage resolves the login locators.
func NewLoginPage(ctx context.Context, page playwright.Page, sel Selectors, opts Options) (*LoginPage, error) {
	l := &locatorSet{page: page, sel: sel}
	p := &LoginPage{
		Base:          newBase(ctx, page, "login", opts),
		UsernameInput: l.locate(selectors.UsernameInput),
		PasswordInput: l.locate(selectors.PasswordInput),
		LoginButton:   l.locate(selectors.LoginButton),
	}
	if l.err != nil {
		return nil, fmt.Errorf("login page: %w", l.err)
	}
	return p, nil
}

// Navigate opens the login page.
func (p *LoginPage) Navigate() error {
	return p.step("navigate", func() error {
		return p.Goto(p.URL("/"))
	})
}

// Login submits user's credentials and waits for the next page to load.
func (p *LoginPage) Login(user config.User) error {
	return p.step("login", func() error {
		if err := p.Fill(p.UsernameInput, "username", user.Username); err != nil {
			return err
		}
		if err := p.Fill(p.PasswordInput, "password", user.Password); err != nil {
			return err
		}
		if err := p.LoginButton.Click(); err != nil {
			return err
		}
		return p.WaitForLoadState()
	})
}
