package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/Masterminds/sprig/v3"

	"github.com/jcdickinson/uiuadoc/internal/summary"
)

//go:embed assets/index.html.tmpl assets/style.css assets/script.js
var assets embed.FS

// staticFiles are copied verbatim into the output directory.
var staticFiles = []string{"style.css", "script.js"}

// CodeHighlighter renders source code as highlighted HTML.
type CodeHighlighter interface {
	HTML(code string) string
}

// Generator renders documentation summaries into a static site.
type Generator struct {
	tmpl *template.Template
	code CodeHighlighter
}

func New(code CodeHighlighter) (*Generator, error) {
	tmpl, err := template.New("index.html.tmpl").
		Funcs(sprig.FuncMap()).
		ParseFS(assets, "assets/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}
	return &Generator{tmpl: tmpl, code: code}, nil
}

// Render writes the index page for s to w.
func (g *Generator) Render(w io.Writer, s *summary.DocumentationSummary) error {
	if err := g.tmpl.Execute(w, g.page(s)); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

// Generate writes the site for s into dir, creating it if needed. Existing
// files with the same names are replaced.
func (g *Generator) Generate(dir string, s *summary.DocumentationSummary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, name := range staticFiles {
		data, err := assets.ReadFile("assets/" + name)
		if err != nil {
			return fmt.Errorf("reading asset %s: %w", name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
	}

	var buf bytes.Buffer
	if err := g.Render(&buf, s); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing index.html: %w", err)
	}
	return nil
}
