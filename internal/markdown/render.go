package markdown

import (
	"io"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmhtml "github.com/gomarkdown/markdown/html"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// CodeRenderer renders the body of a fenced code block as HTML.
type CodeRenderer func(code string) string

// ToHTML converts markdown to an HTML fragment. Code blocks without a language
// or tagged uiua are rendered with code when it is non-nil.
func ToHTML(src string, code CodeRenderer) string {
	p := gmparser.NewWithExtensions(gmparser.CommonExtensions | gmparser.Autolink)
	opts := gmhtml.RendererOptions{Flags: gmhtml.CommonFlags}
	if code != nil {
		opts.RenderNodeHook = codeBlockHook(code)
	}
	return string(gm.ToHTML([]byte(src), p, gmhtml.NewRenderer(opts)))
}

func codeBlockHook(code CodeRenderer) gmhtml.RenderNodeFunc {
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		block, ok := node.(*ast.CodeBlock)
		if !ok || !entering {
			return ast.GoToNext, false
		}
		if lang := string(block.Info); lang != "" && lang != "uiua" {
			return ast.GoToNext, false
		}
		io.WriteString(w, `<div class="code-block">`)
		io.WriteString(w, code(string(block.Literal)))
		io.WriteString(w, "</div>\n")
		return ast.GoToNext, true
	}
}
