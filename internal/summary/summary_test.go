package summary

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jcdickinson/uiuadoc/internal/docs"
	"github.com/jcdickinson/uiuadoc/internal/markdown"
)

func function(name string, inputs int, public bool) *docs.Binding {
	def := docs.Reconcile(docs.Signature{Inputs: inputs, Outputs: 1}, nil, nil)
	return &docs.Binding{Name: name, Public: public, Kind: &docs.Function{Definition: def}}
}

func sectionTitles(s *DocumentationSummary) []string {
	var titles []string
	for _, sec := range s.Sections {
		titles = append(titles, sec.Title)
	}
	return titles
}

func groupTitles(sec Section) []string {
	var titles []string
	for _, item := range sec.Content {
		if c, ok := item.Content.(*ContentItems); ok {
			titles = append(titles, c.Title.Title+" "+c.Title.LinkID)
		}
	}
	return titles
}

func TestSummarize_Empty(t *testing.T) {
	t.Parallel()

	got, err := Summarize(&docs.FileContent{Main: true}, "lib", Options{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if got.Title != "lib" || len(got.Sections) != 0 {
		t.Errorf("got %+v, want titled summary without sections", got)
	}
}

func TestSummarize_SectionOrder(t *testing.T) {
	t.Parallel()

	items := []docs.Item{
		function("Late", 1, true),
		&docs.Module{Name: "Geo", Items: []docs.Item{function("Area", 2, true)}},
		&docs.Words{Code: "# !doc Intro"},
	}
	got, err := Summarize(&docs.FileContent{Items: items}, "lib", Options{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	want := []string{"Documentation", "Modules", "Bindings"}
	if diff := cmp.Diff(want, sectionTitles(got)); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	kinds := []SectionKind{SectionDocumentation, SectionModules, SectionBindings}
	for i, sec := range got.Sections {
		if sec.Kind != kinds[i] {
			t.Errorf("section %d kind = %v, want %v", i, sec.Kind, kinds[i])
		}
	}
}

func TestSummarize_BindingGroups(t *testing.T) {
	t.Parallel()

	items := []docs.Item{
		function("Seven", 7, true),
		function("Hex", 6, true),
		function("Two", 2, true),
		function("Hidden", 2, false),
		function("Zero", 0, true),
		&docs.Binding{Name: "Idx!", Public: true, Kind: &docs.IndexMacro{Arguments: 2}},
		&docs.Binding{Name: "Code‼", Public: true, Kind: &docs.CodeMacro{}},
		&docs.Binding{Name: "PrivMac‼", Kind: &docs.CodeMacro{}},
		&docs.Variant{Name: "V"},
		&docs.Data{},
		&docs.Binding{Name: "Pi", Public: true, Kind: &docs.Constant{}},
		&docs.Binding{Name: "Secret", Kind: &docs.Constant{}},
		&docs.Import{Path: "x.ua"},
		&docs.Words{Code: "1 2 3"},
	}
	got, err := Summarize(&docs.FileContent{Items: items}, "lib", Options{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(got.Sections) != 1 {
		t.Fatalf("got sections %v, want only Bindings", sectionTitles(got))
	}

	want := []string{
		"Constants __constants",
		"Data types __data",
		"Code macros __code_macros",
		"Index macros __index_macros",
		"Noadic functions __noadic_functions",
		"Dyadic functions __dyadic_functions",
		"Hexadic functions __hexadic_functions",
		"Polyadic functions __polyadic_functions",
	}
	if diff := cmp.Diff(want, groupTitles(got.Sections[0])); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}

	dyadic := got.Sections[0].Content[5].Content.(*ContentItems)
	if len(dyadic.Items) != 1 || dyadic.Items[0].(*docs.Binding).Name != "Two" {
		t.Errorf("dyadic group = %+v, want only the public function", dyadic.Items)
	}
	data := got.Sections[0].Content[1].Content.(*ContentItems)
	if len(data.Items) != 2 {
		t.Errorf("data group has %d items, want variant and data in source order", len(data.Items))
	}
}

func TestSummarize_Modules(t *testing.T) {
	t.Parallel()

	items := []docs.Item{
		&docs.Module{Name: "Private", Items: []docs.Item{function("a", 1, false)}},
		&docs.Module{Name: "Public", Comment: strPtr("Public things"), Items: []docs.Item{
			function("shown", 1, true),
			function("hidden", 1, false),
			&docs.Data{},
			&docs.Words{Code: "x"},
			&docs.Module{Name: "Inner", Items: []docs.Item{function("b", 1, false)}},
		}},
	}
	got, err := Summarize(&docs.FileContent{Items: items}, "lib", Options{})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if len(got.Sections) != 1 || got.Sections[0].Kind != SectionModules {
		t.Fatalf("got sections %v, want only Modules", sectionTitles(got))
	}

	content := got.Sections[0].Content
	if len(content) != 1 {
		t.Fatalf("got %d modules, want 1", len(content))
	}
	group := content[0].Content.(*ContentItems)
	if group.Title != (Title{Title: "Public", LinkID: "Public"}) {
		t.Errorf("title = %+v, want module name", group.Title)
	}
	module := group.Items[0].(*docs.Module)
	want := &docs.Module{
		Name:    "Public",
		Comment: strPtr("Public things"),
		Items:   []docs.Item{function("shown", 1, true), &docs.Data{}},
	}
	if diff := cmp.Diff(want, module); diff != "" {
		t.Errorf("module mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize_Documentation(t *testing.T) {
	t.Parallel()

	items := []docs.Item{
		&docs.Words{Code: "# !doc # Overview\n# Use [Add](Add) here.\n#\n# ###### Small"},
		function("Add", 2, true),
		&docs.Words{Code: "# regular comment"},
	}
	got, err := Summarize(&docs.FileContent{Items: items}, "lib", Options{
		Code: func(code string) string { return "<code-html>" },
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	doc := got.Sections[0]
	if doc.Kind != SectionDocumentation || len(doc.Content) != 1 {
		t.Fatalf("got %+v, want one documentation item", doc)
	}

	item := doc.Content[0]
	if diff := cmp.Diff([]Link{{Title: "Overview", URL: "#overview"}}, item.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	html := item.Content.(*RenderedDocumentation).HTML
	for _, want := range []string{`<h2 id="overview">Overview</h2>`, `href="#Add"`, "<h6>Small</h6>"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<body>") || strings.Contains(html, "<html>") {
		t.Errorf("html still wrapped: %s", html)
	}
}

func TestDocComments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		code   string
		marker string
		want   []string
	}{
		{"strips marker and hashes", "# !doc Hello\n# world\n##  deep", DefaultDocMarker, []string{"Hello\nworld\ndeep"}},
		{"repeated marker", "# !doc# !doc Twice", DefaultDocMarker, []string{"Twice"}},
		{"custom marker", "#doc: Text", "#doc:", []string{"Text"}},
		{"not a doc chunk", "# plain comment", DefaultDocMarker, nil},
		{"trailing blank lines trimmed", "# !doc A\n#\n#", DefaultDocMarker, []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := DocComments([]docs.Item{&docs.Words{Code: tt.code}}, tt.marker)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DocComments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func strPtr(s string) *string { return &s }

func TestAnchors(t *testing.T) {
	t.Parallel()

	shape := "Shape"
	items := []docs.Item{
		function("Add", 2, true),
		function("helper", 1, false),
		&docs.Data{Name: &shape},
		&docs.Module{Name: "Geo", Items: []docs.Item{
			function("Area", 1, true),
			&docs.Variant{Name: "Circle"},
		}},
	}

	want := markdown.Targets{
		"Add":        "#Add",
		"Shape":      "#Shape",
		"Geo":        "#Geo",
		"Geo.Area":   "#Geo.Area",
		"Geo.Circle": "#Geo.Circle",
	}
	if diff := cmp.Diff(want, Anchors(items)); diff != "" {
		t.Errorf("anchors mismatch (-want +got):\n%s", diff)
	}
}
