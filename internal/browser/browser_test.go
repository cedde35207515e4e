package browser

import (
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kuitang/pom-e2e/internal/config"
	"github.com/kuitang/pom-e2e/internal/errs"
)

func testBrowserConfig() config.Browser {
	return config.Browser{
		Projects:          []string{"chromium"},
		Headless:          true,
		ActionTimeout:     5 * time.Second,
		NavigationTimeout: 5 * time.Second,
		Viewport:          config.Viewport{Width: 1920, Height: 1080},
		IgnoreHTTPSErrors: true,
	}
}

func TestProjectsByName(t *testing.T) {
	t.Parallel()

	projects, err := ProjectsByName([]string{"chromium", "mobile safari", "Chromium"})
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "chromium", projects[0].Name)
	assert.Equal(t, "Mobile Safari", projects[1].Name)
	assert.Equal(t, WebKit, projects[1].Engine)
	assert.Equal(t, "iPhone 12", projects[1].Device)
}

func TestProjectsByName_All(t *testing.T) {
	t.Parallel()

	projects, err := ProjectsByName([]string{"all"})
	require.NoError(t, err)
	assert.Len(t, projects, len(DefaultProjects))

	projects[0].Name = "mutated"
	assert.Equal(t, "chromium", DefaultProjects[0].Name)
}

func TestProjectsByName_Unknown(t *testing.T) {
	t.Parallel()

	_, err := ProjectsByName([]string{"chromium", "netscape"})
	require.Error(t, err)
	assert.Equal(t, errs.InvalidArgument, errs.CodeOf(err))
	assert.Contains(t, err.Error(), "netscape")

	_, err = ProjectsByName(nil)
	assert.Equal(t, errs.InvalidArgument, errs.CodeOf(err))
}

func TestProject_Slug(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "microsoft-edge", Project{Name: "Microsoft Edge"}.Slug())
}

func TestDefaultProjects_ChannelsOnChromiumOnly(t *testing.T) {
	t.Parallel()

	for _, p := range DefaultProjects {
		if p.Channel != "" {
			assert.Equal(t, Chromium, p.Engine, "project %s", p.Name)
		}
	}
}

func TestContextOptions_NoDevice(t *testing.T) {
	t.Parallel()

	opts := ContextOptions(testBrowserConfig(), "http://127.0.0.1:8080", nil, "")

	require.NotNil(t, opts.Viewport)
	assert.Equal(t, 1920, opts.Viewport.Width)
	assert.Equal(t, 1080, opts.Viewport.Height)
	assert.True(t, *opts.IgnoreHttpsErrors)
	assert.Equal(t, "http://127.0.0.1:8080", *opts.BaseURL)
	assert.Nil(t, opts.RecordVideo)
	assert.Nil(t, opts.IsMobile)
}

func TestContextOptions_DeviceOverridesViewport(t *testing.T) {
	t.Parallel()

	device := &playwright.DeviceDescriptor{
		UserAgent:         "Mozilla/5.0 (Linux; Android 11; Pixel 5)",
		Viewport:          &playwright.Size{Width: 393, Height: 851},
		DeviceScaleFactor: 2.75,
		IsMobile:          true,
		HasTouch:          true,
	}
	opts := ContextOptions(testBrowserConfig(), "", device, "/tmp/videos/run/mobile-chrome")

	assert.Equal(t, 393, opts.Viewport.Width)
	assert.Equal(t, 851, opts.Viewport.Height)
	assert.Equal(t, device.UserAgent, *opts.UserAgent)
	assert.Equal(t, 2.75, *opts.DeviceScaleFactor)
	assert.True(t, *opts.IsMobile)
	assert.True(t, *opts.HasTouch)
	assert.Nil(t, opts.BaseURL)

	require.NotNil(t, opts.RecordVideo)
	assert.Equal(t, "/tmp/videos/run/mobile-chrome", opts.RecordVideo.Dir)
	assert.Equal(t, 393, opts.RecordVideo.Size.Width)
}

func TestSession_StartAndOpenPage(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	s, err := Start(testBrowserConfig(), "")
	if err != nil {
		t.Skip("Playwright not available:", err)
	}
	defer s.Close()

	assert.NotEmpty(t, s.RunID)

	ctx, page, err := s.NewPage(DefaultProjects[0])
	if err != nil {
		t.Skip("Could not launch browser:", err)
	}
	defer ctx.Close()

	require.NoError(t, page.SetContent("<title>probe</title><button class='btn-login'>Go</button>"))
	title, err := page.Title()
	require.NoError(t, err)
	assert.Equal(t, "probe", title)
}
