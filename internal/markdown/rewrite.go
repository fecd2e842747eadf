package markdown

import (
	"fmt"
	"sort"
	"strings"

	gm "github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	gmparser "github.com/gomarkdown/markdown/parser"
)

// Targets maps binding paths, such as "Area" or "Geo.Area", to link targets.
type Targets map[string]string

// AnchorTargets links each binding path to its anchor on the generated page.
func AnchorTargets(paths ...string) Targets {
	t := make(Targets, len(paths))
	for _, p := range paths {
		t[p] = "#" + p
	}
	return t
}

// target resolves a link destination that names a binding, written either
// bare ("Geo.Area") or as a page anchor ("#Geo.Area"). URLs never resolve.
func (t Targets) target(dest string) (string, bool) {
	if strings.Contains(dest, "://") {
		return "", false
	}
	target, ok := t[strings.TrimPrefix(dest, "#")]
	if !ok || target == dest {
		return "", false
	}
	return target, true
}

// RewriteLinks points markdown links that name a binding at its target.
// Destinations are found through the markdown AST and replaced textually so
// the rest of the source keeps its formatting.
func RewriteLinks(src string, targets Targets) string {
	if len(targets) == 0 {
		return src
	}

	doc := gm.Parse([]byte(src), gmparser.NewWithExtensions(
		gmparser.CommonExtensions|gmparser.Autolink,
	))

	replace := make(map[string]string)
	var order []string
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		link, ok := node.(*ast.Link)
		if !entering || !ok {
			return ast.GoToNext
		}
		dest := string(link.Destination)
		if target, ok := targets.target(dest); ok {
			if _, seen := replace[dest]; !seen {
				replace[dest] = target
				order = append(order, dest)
			}
		}
		return ast.GoToNext
	})
	if len(order) == 0 {
		return src
	}

	// Inline links: [text](destination)
	result := src
	for _, dest := range order {
		result = strings.ReplaceAll(result, "]("+dest+")", "]("+replace[dest]+")")
	}

	// Reference definitions: [ref]: destination
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		for _, dest := range order {
			suffix := "]: " + dest
			if strings.HasSuffix(trimmed, suffix) {
				lines[i] = strings.Replace(line, suffix, "]: "+replace[dest], 1)
				break
			}
		}
	}
	return strings.Join(lines, "\n")
}

// AddFrontMatter prepends a YAML front-matter block with the given fields in
// key order.
func AddFrontMatter(src string, fields map[string]string) string {
	if len(fields) == 0 {
		return src
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("---\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", k, fields[k])
	}
	b.WriteString("---\n\n")
	b.WriteString(src)
	return b.String()
}
