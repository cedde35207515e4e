package browser

import (
	"fmt"
	"strings"

	"github.com/kuitang/pom-e2e/internal/errs"
)

// Engine names a Playwright browser type.
type Engine string

const (
	Chromium Engine = "chromium"
	Firefox  Engine = "firefox"
	WebKit   Engine = "webkit"
)

// Project is one browser configuration a spec runs under. Device names a
// Playwright device descriptor; when empty the configured viewport is used.
type Project struct {
	Name    string
	Engine  Engine
	Device  string
	Channel string
}

// DefaultProjects is the full browser matrix.
var DefaultProjects = []Project{
	{Name: "chromium", Engine: Chromium, Device: "Desktop Chrome"},
	{Name: "firefox", Engine: Firefox, Device: "Desktop Firefox"},
	{Name: "webkit", Engine: WebKit, Device: "Desktop Safari"},
	{Name: "Mobile Chrome", Engine: Chromium, Device: "Pixel 5"},
	{Name: "Mobile Safari", Engine: WebKit, Device: "iPhone 12"},
	{Name: "Microsoft Edge", Engine: Chromium, Device: "Desktop Edge", Channel: "msedge"},
	{Name: "Google Chrome", Engine: Chromium, Device: "Desktop Chrome", Channel: "chrome"},
}

// ProjectsByName resolves project names case-insensitively against
// DefaultProjects. "all" selects the whole matrix.
func ProjectsByName(names []string) ([]Project, error) {
	var out []Project
	var unknown []string
	seen := map[string]bool{}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if strings.EqualFold(name, "all") {
			return append([]Project(nil), DefaultProjects...), nil
		}
		p, ok := lookupProject(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}

	if len(unknown) > 0 {
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("unknown browser projects: %s", strings.Join(unknown, ", ")))
	}
	if len(out) == 0 {
		return nil, errs.New(errs.InvalidArgument, "no browser projects selected")
	}
	return out, nil
}

func lookupProject(name string) (Project, bool) {
	for _, p := range DefaultProjects {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Project{}, false
}

// Slug returns a filesystem-friendly form of the project name.
func (p Project) Slug() string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(p.Name), " ", "-"))
}
