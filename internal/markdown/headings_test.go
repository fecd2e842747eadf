package markdown

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPromoteHeadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		in           string
		want         string
		wantHeadings []Heading
	}{
		{
			name:         "h1 becomes linked h2",
			in:           "<h1>Getting Started</h1><p>text</p>",
			want:         `<h2 id="getting-started">Getting Started</h2><p>text</p>`,
			wantHeadings: []Heading{{Title: "Getting Started", ID: "getting-started"}},
		},
		{
			name: "h6 stays h6",
			in:   "<h6>Tiny</h6>",
			want: "<h6>Tiny</h6>",
		},
		{
			name: "levels shift by one",
			in:   "<h2>A</h2><h3>B</h3><h4>C</h4><h5>D</h5>",
			want: "<h3>A</h3><h4>B</h4><h5>C</h5><h6>D</h6>",
		},
		{
			name:         "inline markup is flattened",
			in:           `<h1 id="x">Use <code>Add</code></h1>`,
			want:         `<h2 id="use-add">Use Add</h2>`,
			wantHeadings: []Heading{{Title: "Use Add", ID: "use-add"}},
		},
		{
			name: "no headings",
			in:   "<p>plain</p>",
			want: "<p>plain</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, headings, err := PromoteHeadings(tt.in)
			if err != nil {
				t.Fatalf("PromoteHeadings: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.wantHeadings, headings); diff != "" {
				t.Errorf("headings mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestToHTML(t *testing.T) {
	t.Parallel()

	src := "# Title\n\nSome *text*.\n\n```\nAdd ← +\n```\n\n```go\nfunc main() {}\n```\n"
	got := ToHTML(src, func(code string) string {
		return "<highlighted>" + strings.TrimSpace(code) + "</highlighted>"
	})

	for _, want := range []string{
		"<h1",
		"<em>text</em>",
		`<div class="code-block"><highlighted>Add ← +</highlighted></div>`,
		"func main() {}",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<highlighted>func") {
		t.Error("non-uiua code block was highlighted")
	}
}

func TestToHTML_NoRenderer(t *testing.T) {
	t.Parallel()

	got := ToHTML("```\nx\n```\n", nil)
	if !strings.Contains(got, "<pre><code>x") {
		t.Errorf("expected default code block, got %q", got)
	}
}
