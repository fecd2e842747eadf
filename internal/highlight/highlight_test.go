package highlight

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/jcdickinson/uiuadoc/internal/frontend"
)

func intPtr(n int) *int { return &n }

func spans(events ...frontend.SpanEvent) frontend.Classifier {
	return frontend.ClassifierFunc(func(string) []frontend.SpanEvent { return events })
}

func plain(s string) Fragment { return Fragment{Kind: FragmentPlain, Text: s} }

func span(s string, kind frontend.SpanKind) Fragment {
	return Fragment{Kind: FragmentSpan, Text: s, SpanKind: kind}
}

var lineBreak = Fragment{Kind: FragmentBreak}

func TestTokenize(t *testing.T) {
	t.Parallel()

	ident := frontend.SpanKind{Type: frontend.SpanIdent}
	prim := frontend.SpanKind{Type: frontend.SpanPrimitive}
	comment := frontend.SpanKind{Type: frontend.SpanComment}
	ws := frontend.SpanKind{Type: frontend.SpanWhitespace}

	tests := []struct {
		name       string
		code       string
		classifier frontend.Classifier
		want       []Line
	}{
		{
			name:       "blank line without spans",
			code:       "a\n\nb",
			classifier: spans(),
			want:       []Line{{plain("a")}, {lineBreak}, {plain("b")}},
		},
		{
			name:       "crlf line endings",
			code:       "a\r\n\r\nb",
			classifier: spans(),
			want:       []Line{{plain("a")}, {lineBreak}, {plain("b")}},
		},
		{
			name: "gaps between spans",
			code: "X ← +",
			classifier: spans(
				frontend.SpanEvent{Start: 0, End: 1, Kind: ident},
				frontend.SpanEvent{Start: 4, End: 5, Kind: prim},
			),
			want: []Line{{span("X", ident), plain(" ← "), span("+", prim)}},
		},
		{
			name:       "multi-line span",
			code:       "# a\n# b",
			classifier: spans(frontend.SpanEvent{Start: 0, End: 7, Kind: comment}),
			want:       []Line{{span("# a", comment)}, {span("# b", comment)}},
		},
		{
			name:       "newline-only span",
			code:       "a\n\nb",
			classifier: spans(frontend.SpanEvent{Start: 1, End: 3, Kind: ws}),
			want:       []Line{{plain("a")}, {lineBreak}, {plain("b")}},
		},
		{
			name:       "grapheme clusters",
			code:       "éx",
			classifier: spans(frontend.SpanEvent{Start: 1, End: 2, Kind: ident}),
			want:       []Line{{plain("é"), span("x", ident)}},
		},
		{
			name:       "span past the end is clipped",
			code:       "ab",
			classifier: spans(frontend.SpanEvent{Start: 1, End: 10, Kind: ident}),
			want:       []Line{{plain("a"), span("b", ident)}},
		},
		{
			name:       "empty code",
			code:       "",
			classifier: spans(),
			want:       []Line{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Tokenize(tt.code, tt.classifier)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTokenize_Context(t *testing.T) {
	t.Parallel()

	var seen string
	ident := frontend.SpanKind{Type: frontend.SpanIdent}
	classifier := frontend.ClassifierFunc(func(text string) []frontend.SpanEvent {
		seen = text
		// "Lib ← 1\n\n" is 9 graphemes; "Lib" in the code starts right after.
		return []frontend.SpanEvent{{Start: 9, End: 12, Kind: ident}}
	})

	got := Tokenize("Lib 2", classifier, WithContext("Lib ← 1"))
	if seen != "Lib ← 1\n\nLib 2" {
		t.Errorf("classified %q, want context prefix", seen)
	}
	want := []Line{{span("Lib", ident), plain(" 2")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Tokenize mismatch (-want +got):\n%s", diff)
	}
}

func TestClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		kind frontend.SpanKind
		want string
	}{
		{"number", frontend.SpanKind{Type: frontend.SpanNumber}, "number-literal"},
		{"string", frontend.SpanKind{Type: frontend.SpanString}, "string-literal-span"},
		{"import source", frontend.SpanKind{Type: frontend.SpanImportSrc}, "string-literal-span"},
		{"comment", frontend.SpanKind{Type: frontend.SpanOutputComment}, "comment-span"},
		{"strand", frontend.SpanKind{Type: frontend.SpanStrand}, "strand-span"},
		{"bare subscript", frontend.SpanKind{Type: frontend.SpanSubscript}, "number-literal"},
		{"macro delimiter", frontend.SpanKind{Type: frontend.SpanMacroDelim, MacroArgs: 2}, "binding dyadic-modifier"},
		{"arg setter", frontend.SpanKind{Type: frontend.SpanArgSetter}, "binding monadic-function"},
		{"whitespace", frontend.SpanKind{Type: frontend.SpanWhitespace}, ""},
		{"unresolved ident", frontend.SpanKind{Type: frontend.SpanIdent}, ""},
		{
			"identity",
			frontend.SpanKind{Type: frontend.SpanPrimitive, Primitive: &frontend.Primitive{Name: "identity"}},
			"stack-function",
		},
		{
			"stack primitive",
			frontend.SpanKind{Type: frontend.SpanPrimitive, Primitive: &frontend.Primitive{Name: "dup", Class: frontend.PrimClassStack}},
			"stack-function",
		},
		{
			"stack modifier",
			frontend.SpanKind{Type: frontend.SpanPrimitive, Primitive: &frontend.Primitive{Name: "dip", Class: frontend.PrimClassStack, ModifierArgs: intPtr(1)}},
			"binding monadic-modifier",
		},
		{
			"constant primitive",
			frontend.SpanKind{Type: frontend.SpanPrimitive, Primitive: &frontend.Primitive{Name: "pi", Class: frontend.PrimClassConstant}},
			"number-literal",
		},
		{
			"triadic modifier",
			frontend.SpanKind{Type: frontend.SpanPrimitive, Primitive: &frontend.Primitive{Name: "x", ModifierArgs: intPtr(3)}},
			"binding triadic-modifier",
		},
		{
			"dyadic primitive",
			frontend.SpanKind{Type: frontend.SpanPrimitive, Primitive: &frontend.Primitive{Name: "add", Signature: &frontend.Signature{Args: 2, Outputs: 1}}},
			"binding dyadic-function",
		},
		{
			"pentadic primitive",
			frontend.SpanKind{Type: frontend.SpanPrimitive, Primitive: &frontend.Primitive{Name: "p", Signature: &frontend.Signature{Args: 5, Outputs: 1}}},
			"binding",
		},
		{"obverse", frontend.SpanKind{Type: frontend.SpanObverse}, "binding monadic-modifier"},
		{
			"constant binding",
			frontend.SpanKind{Type: frontend.SpanIdent, Docs: &frontend.BindingDocs{Kind: frontend.DocsConstant}},
			"binding constant",
		},
		{
			"function binding",
			frontend.SpanKind{Type: frontend.SpanIdent, Docs: &frontend.BindingDocs{Kind: frontend.DocsFunction, Signature: &frontend.Signature{Args: 0}}},
			"binding noadic-function",
		},
		{
			"modifier binding",
			frontend.SpanKind{Type: frontend.SpanIdent, Docs: &frontend.BindingDocs{Kind: frontend.DocsModifier, ModifierArgs: 0}},
			"binding monadic-modifier",
		},
		{
			"module binding",
			frontend.SpanKind{Type: frontend.SpanIdent, Docs: &frontend.BindingDocs{Kind: frontend.DocsModule}},
			"binding module",
		},
		{
			"error binding",
			frontend.SpanKind{Type: frontend.SpanIdent, Docs: &frontend.BindingDocs{Kind: frontend.DocsError}},
			"output-error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Class(tt.kind); got != tt.want {
				t.Errorf("Class() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{plain("a<"), span("+", frontend.SpanKind{Type: frontend.SpanNumber})},
		{lineBreak},
		{},
		{span("x", frontend.SpanKind{Type: frontend.SpanWhitespace})},
	}
	got := RenderHTML(lines)
	want := `<div class="code-line"><span class="code-span">a&lt;</span><span class="code-span number-literal">+</span></div>` +
		`<div class="code-line"><br /></div>` +
		`<div class="code-line"><br /></div>` +
		`<div class="code-line"><span class="code-span">x</span></div>`
	if got != want {
		t.Errorf("RenderHTML =\n%s\nwant\n%s", got, want)
	}
}

func TestHighlighter_HTML(t *testing.T) {
	t.Parallel()

	h := New(spans(frontend.SpanEvent{Start: 0, End: 1, Kind: frontend.SpanKind{Type: frontend.SpanNumber}}))
	got := h.HTML("1")
	want := `<div class="code-line"><span class="code-span number-literal">1</span></div>`
	if got != want {
		t.Errorf("HTML = %q, want %q", got, want)
	}
}
