package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/pom-e2e/internal/pages"
)

func TestAdminUserSearchAndPermission(t *testing.T) {
	env := setupE2E(t)

	env.forEachProject(t, func(t *testing.T, app *pages.App, page playwright.Page) {
		env.gotoHome(t, app)

		require.NoError(t, app.Admin.NavigateToAdminDashboard())
		require.NoError(t, app.Admin.SearchAndSelectUser(env.data.Admin.SearchUser))
		assert.Equal(t, env.data.Admin.SearchUser, textOf(t, page, "#profile-username"))

		require.NoError(t, app.Admin.SelectUserPermission(env.data.Admin.PermissionOption))
		assert.Contains(t, textOf(t, page, "#flash"), "Permission assigned")
		assigned := page.Locator("#assigned li[data-value='" + env.data.Admin.PermissionOption + "']")
		count, err := assigned.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
