package site

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{
	"home.html",
	"about.html",
	"contact.html",
	"members.html",
	"member.html",
	"gallery.html",
	"album.html",
	"not_found.html",
}

// TemplateEngine holds every page parsed together with the shared layout.
type TemplateEngine struct {
	templates map[string]*template.Template
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"slug": Slugify,
		"year": func() int { return time.Now().Year() },
	}
}

// NewTemplateEngine parses the embedded templates.
func NewTemplateEngine() (*TemplateEngine, error) {
	engine := &TemplateEngine{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(templateFuncs()).ParseFS(
			templateFS,
			"templates/layout.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		engine.templates[page] = t
	}
	return engine, nil
}

// RenderTo executes page inside the layout.
func (e *TemplateEngine) RenderTo(w io.Writer, page string, data any) error {
	t, ok := e.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	return t.ExecuteTemplate(w, "layout.html", data)
}
