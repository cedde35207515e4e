package demoapp

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates
var templateFS embed.FS

// renderer holds one parsed template set per page, each combined with
// base.html.
type renderer struct {
	templates map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, err
	}
	base, err := fs.ReadFile(root, "base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to read base template: %w", err)
	}

	r := &renderer{templates: make(map[string]*template.Template)}
	err = fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == "base.html" || !strings.HasSuffix(path, ".html") {
			return nil
		}
		page, err := fs.ReadFile(root, path)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", path, err)
		}
		tmpl, err := template.New("base").Funcs(funcMap()).Parse(string(base))
		if err != nil {
			return fmt.Errorf("failed to parse base template for %s: %w", path, err)
		}
		if tmpl, err = tmpl.Parse(string(page)); err != nil {
			return fmt.Errorf("failed to parse template %s: %w", path, err)
		}
		r.templates[path] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(r.templates) == 0 {
		return nil, fmt.Errorf("no templates found")
	}
	return r, nil
}

// render writes the named page with status code.
func (r *renderer) render(w http.ResponseWriter, code int, name string, data any) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := tmpl.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"formatTime": formatTime,
		"markdown":   renderMarkdown,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 15:04")
}

// renderMarkdown converts deal notes to sanitized HTML.
func renderMarkdown(s string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(s))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	out := markdown.Render(doc, renderer)

	return template.HTML(bluemonday.UGCPolicy().SanitizeBytes(out))
}
