package site

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jcdickinson/uiuadoc/internal/docs"
	"github.com/jcdickinson/uiuadoc/internal/summary"
)

type fakeHighlighter struct{}

func (fakeHighlighter) HTML(code string) string {
	return `<div class="code-line">` + code + `</div>`
}

func strPtr(s string) *string { return &s }

func sampleSummary() *summary.DocumentationSummary {
	add := &docs.Binding{
		Name:    "Add",
		Code:    "Add ← +",
		Public:  true,
		Comment: strPtr("Adds two *numbers*"),
		Kind: &docs.Function{Definition: docs.Reconcile(
			docs.Signature{Inputs: 2, Outputs: 1},
			&docs.NamedSignature{Inputs: []string{"a"}},
			nil,
		)},
	}
	return &summary.DocumentationSummary{
		Title: "mylib",
		Sections: []summary.Section{
			{
				Title: "Documentation",
				Kind:  summary.SectionDocumentation,
				Content: []summary.RenderingItem{{
					Links:   []summary.Link{{Title: "Overview", URL: "#overview"}},
					Content: &summary.RenderedDocumentation{HTML: `<h2 id="overview">Overview</h2>`},
				}},
			},
			{
				Title: "Modules",
				Kind:  summary.SectionModules,
				Content: []summary.RenderingItem{{Content: &summary.ContentItems{
					Title: summary.Title{Title: "Geo", LinkID: "Geo"},
					Items: []docs.Item{&docs.Module{Name: "Geo", Items: []docs.Item{
						&docs.Variant{Name: "Circle", Definition: &docs.Definition{
							Fields: []docs.Field{{Name: "R", Validator: strPtr("≥0")}},
						}},
					}}},
				}}},
			},
			{
				Title: "Bindings",
				Kind:  summary.SectionBindings,
				Content: []summary.RenderingItem{{Content: &summary.ContentItems{
					Title: summary.Title{Title: "Dyadic functions", LinkID: "__dyadic_functions"},
					Items: []docs.Item{add},
				}}},
			},
		},
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	g, err := New(fakeHighlighter{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var buf bytes.Buffer
	if err := g.Render(&buf, sampleSummary()); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<title>mylib</title>",
		`<a href="#overview">Overview</a>`,
		`<a href="#Geo">Geo</a>`,
		`<a href="#__dyadic_functions">Dyadic functions</a>`,
		`<h2 id="overview">Overview</h2>`,
		`<h2 id="__dyadic_functions">Dyadic functions</h2>`,
		`id="Add"`,
		`id="Geo.Circle"`,
		`<span class="signature dyadic-function">|2</span>`,
		`<span class="argument-name">a</span>`,
		`<li class="argument inferred">`,
		"<em>numbers</em>",
		`<div class="code-block"><div class="code-line">Add ← +</div></div>`,
		`<div class="field-validator code-block"><div class="code-line">≥0</div></div>`,
		"item-variant",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	g, err := New(nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "doc-site")
	if err := g.Generate(dir, sampleSummary()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, name := range []string{"index.html", "style.css", "script.js"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}

	// Regenerating into an existing directory replaces the files.
	if err := g.Generate(dir, &summary.DocumentationSummary{Title: "other"}); err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "<title>other</title>") {
		t.Error("index.html was not replaced")
	}
}
