package selectors

// Keys used by the page objects. Each must have a row in
// resources/selectors.csv.
const (
	// Login
	LoginButton   = "loginButton"
	UsernameInput = "usernameInput"
	PasswordInput = "passwordInput"
	SubmitButton  = "submitButton"

	// Deals
	DealsMenuItem          = "dealsMenuItem"
	RepositorySubmenu      = "repositorySubmenu"
	DealsRepositorySubmenu = "dealsrepositorySubmenu"
	DraftRadio             = "draftRadio"
	DealLink682            = "dealLink_682"
	CreateDeal             = "createDeal"
	RoamingPartner         = "RoamingPartner"
	SelectOperators        = "selectOperators"
	ClickToSelect          = "Click_To_Select"
	SelectRoamSmart        = "Select_RoamSmart"
	DigicelLimited         = "Digicel_Limited"
	Confirm                = "Confirm"
	Save                   = "Save"

	// Admin
	AdminButton        = "adminButton"
	UserLink           = "userLink"
	SearchBoxSelect    = "searchBoxselect"
	UserNameFill       = "userNameFill"
	ClickSearchButton  = "clickSearchButton"
	ClickTheUserName   = "clickTheUserName"
	ScrollToView       = "scrolltoview"
	SelectTextFromList = "selectTextfromList"
	ArrowButton        = "Arrowbutton"
)

// Keys returns every key the page objects resolve.
func Keys() []string {
	return []string{
		LoginButton, UsernameInput, PasswordInput, SubmitButton,
		DealsMenuItem, RepositorySubmenu, DealsRepositorySubmenu, DraftRadio,
		DealLink682, CreateDeal, RoamingPartner, SelectOperators, ClickToSelect,
		SelectRoamSmart, DigicelLimited, Confirm, Save,
		AdminButton, UserLink, SearchBoxSelect, UserNameFill, ClickSearchButton,
		ClickTheUserName, ScrollToView, SelectTextFromList, ArrowButton,
	}
}
