package pages

import (
	"context"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/pom-e2e/internal/selectors"
)

// DealsPage covers the deals menu, the repository list and the create-deal
// wizard.
type DealsPage struct {
	Base

	DealsMenuItem          playwright.Locator
	RepositorySubmenu      playwright.Locator
	DealsRepositorySubmenu playwright.Locator
	DraftRadio             playwright.Locator
	DealLink682            playwright.Locator
	CreateDeal             playwright.Locator
	RoamingPartner         playwright.Locator
	SelectOperators        playwright.Locator
	ClickToSelect          playwright.Locator
	SelectRoamSmart        playwright.Locator
	DigicelLimited         playwright.Locator
	Confirm                playwright.Locator
	Save                   playwright.Locator
}

// NewDealsPage resolves the deals locators.
func NewDealsPage(ctx context.Context, page playwright.Page, sel Selectors, opts Options) (*DealsPage, error) {
	l := &locatorSet{page: page, sel: sel}
	p := &DealsPage{
		Base:                   newBase(ctx, page, "deals", opts),
		DealsMenuItem:          l.locate(selectors.DealsMenuItem),
		RepositorySubmenu:      l.locate(selectors.RepositorySubmenu),
		DealsRepositorySubmenu: l.locate(selectors.DealsRepositorySubmenu),
		DraftRadio:             l.locate(selectors.DraftRadio),
		DealLink682:            l.locate(selectors.DealLink682),
		CreateDeal:             l.locate(selectors.CreateDeal),
		RoamingPartner:         l.locate(selectors.RoamingPartner),
		SelectOperators:        l.locate(selectors.SelectOperators),
		ClickToSelect:          l.locate(selectors.ClickToSelect),
		SelectRoamSmart:        l.locate(selectors.SelectRoamSmart),
		DigicelLimited:         l.locate(selectors.DigicelLimited),
		Confirm:                l.locate(selectors.Confirm),
		Save:                   l.locate(selectors.Save),
	}
	if l.err != nil {
		return nil, fmt.Errorf("deals page: %w", l.err)
	}
	return p, nil
}

// NavigateToDealsRepository opens Deals > Repository.
func (p *DealsPage) NavigateToDealsRepository() error {
	return p.step("navigate to deals repository", func() error {
		if err := p.WaitVisibleAndClick(p.DealsMenuItem, false); err != nil {
			return err
		}
		return p.WaitVisibleAndClick(p.RepositorySubmenu, false)
	})
}

// ShowDrafts narrows the repository list to draft deals.
func (p *DealsPage) ShowDrafts() error {
	return p.step("show drafts", func() error {
		if err := p.waitVisible(p.DraftRadio); err != nil {
			return err
		}
		return p.DraftRadio.Check()
	})
}

// CreateNewDeal walks the create-deal wizard: roaming partner, operator
// picker, RoamSmart, confirm, save.
func (p *DealsPage) CreateNewDeal() error {
	return p.step("create new deal", func() error {
		sequence := []struct {
			loc   playwright.Locator
			force bool
		}{
			{p.DealsMenuItem, false},
			{p.DealsRepositorySubmenu, false},
			{p.CreateDeal, false},
			{p.RoamingPartner, false},
			{p.SelectOperators, false},
			{p.ClickToSelect, false},
			{p.SelectRoamSmart, true},
			{p.Confirm, true},
			{p.Save, false},
		}
		for _, s := range sequence {
			if err := p.WaitVisibleAndClick(s.loc, s.force); err != nil {
				return err
			}
		}
		return p.WaitForLoadState()
	})
}

// OpenDealInNewTab opens deal 682 in a popup, saves it there, closes the
// popup and brings this page back to the front.
func (p *DealsPage) OpenDealInNewTab() error {
	return p.step("save deal in new tab", func() error {
		tab, err := p.Page.ExpectPopup(func() error {
			return p.DealLink682.Click()
		})
		if err != nil {
			return err
		}
		if err := tab.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
			State: playwright.LoadStateDomcontentloaded,
		}); err != nil {
			return err
		}
		save := tab.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Save"})
		if err := save.Click(); err != nil {
			return err
		}
		if err := tab.Close(); err != nil {
			return err
		}
		return p.Page.BringToFront()
	})
}
