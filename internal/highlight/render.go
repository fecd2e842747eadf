package highlight

import (
	"html"
	"strings"

	"github.com/jcdickinson/uiuadoc/internal/frontend"
)

// RenderHTML renders lines as code-line divs holding code-span spans.
func RenderHTML(lines []Line) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(`<div class="code-line">`)
		if len(line) == 0 {
			b.WriteString("<br />")
		}
		for _, f := range line {
			switch f.Kind {
			case FragmentBreak:
				b.WriteString("<br />")
			case FragmentPlain:
				b.WriteString(`<span class="code-span">`)
				b.WriteString(html.EscapeString(f.Text))
				b.WriteString("</span>")
			case FragmentSpan:
				b.WriteString(`<span class="`)
				b.WriteString(strings.TrimSpace("code-span " + Class(f.SpanKind)))
				b.WriteString(`">`)
				b.WriteString(html.EscapeString(f.Text))
				b.WriteString("</span>")
			}
		}
		b.WriteString("</div>")
	}
	return b.String()
}

// Highlighter renders code with a fixed classifier and context prefix.
type Highlighter struct {
	classifier frontend.Classifier
	opts       []Option
}

func New(classifier frontend.Classifier, opts ...Option) *Highlighter {
	return &Highlighter{classifier: classifier, opts: opts}
}

// Lines tokenizes code.
func (h *Highlighter) Lines(code string) []Line {
	return Tokenize(code, h.classifier, h.opts...)
}

// HTML tokenizes code and renders it.
func (h *Highlighter) HTML(code string) string {
	return RenderHTML(h.Lines(code))
}
