package summary

import (
	"fmt"
	"strings"

	"github.com/jcdickinson/uiuadoc/internal/docs"
	"github.com/jcdickinson/uiuadoc/internal/markdown"
)

// DefaultDocMarker starts a words chunk that holds library documentation.
const DefaultDocMarker = "# !doc"

type SectionKind int

const (
	SectionDocumentation SectionKind = iota
	SectionModules
	SectionBindings
)

func (k SectionKind) String() string {
	switch k {
	case SectionDocumentation:
		return "documentation"
	case SectionModules:
		return "modules"
	case SectionBindings:
		return "bindings"
	default:
		return fmt.Sprintf("SectionKind(%d)", int(k))
	}
}

// Link is a table of contents entry.
type Link struct {
	Title string
	URL   string
}

// Title is a group heading and the anchor it is rendered under.
type Title struct {
	Title  string
	LinkID string
}

// Content is what a rendering item displays: RenderedDocumentation or
// ContentItems.
type Content interface {
	content()
}

// RenderedDocumentation is prose already converted to HTML.
type RenderedDocumentation struct {
	HTML string
}

// ContentItems is a titled group of documentation items.
type ContentItems struct {
	Title Title
	Items []docs.Item
}

func (*RenderedDocumentation) content() {}
func (*ContentItems) content()          {}

type RenderingItem struct {
	Links   []Link
	Content Content
}

type Section struct {
	Title   string
	Kind    SectionKind
	Content []RenderingItem
}

// DocumentationSummary is the presentation model of a library's main file.
type DocumentationSummary struct {
	Title    string
	Sections []Section
}

type Options struct {
	// DocMarker overrides DefaultDocMarker.
	DocMarker string
	// Code renders code blocks inside documentation. Nil leaves them as
	// preformatted text.
	Code markdown.CodeRenderer
}

// Summarize groups the items of a file into sections: library documentation,
// modules with public items, then bindings grouped by kind and arity. Empty
// sections and groups are left out.
func Summarize(file *docs.FileContent, title string, opts Options) (*DocumentationSummary, error) {
	if opts.DocMarker == "" {
		opts.DocMarker = DefaultDocMarker
	}

	summary := &DocumentationSummary{Title: title}

	documentation, err := summarizeDocumentation(file.Items, opts)
	if err != nil {
		return nil, err
	}
	if documentation != nil {
		summary.Sections = append(summary.Sections, *documentation)
	}
	if modules := summarizeModules(file.Items); modules != nil {
		summary.Sections = append(summary.Sections, *modules)
	}
	if bindings := summarizeBindings(file.Items); bindings != nil {
		summary.Sections = append(summary.Sections, *bindings)
	}
	return summary, nil
}

func summarizeDocumentation(items []docs.Item, opts Options) (*Section, error) {
	comments := DocComments(items, opts.DocMarker)
	if len(comments) == 0 {
		return nil, nil
	}

	anchors := Anchors(items)
	section := &Section{Title: "Documentation", Kind: SectionDocumentation}
	for _, comment := range comments {
		rendered := markdown.ToHTML(markdown.RewriteLinks(comment, anchors), opts.Code)
		out, headings, err := markdown.PromoteHeadings(rendered)
		if err != nil {
			return nil, fmt.Errorf("rendering documentation: %w", err)
		}

		item := RenderingItem{Content: &RenderedDocumentation{HTML: out}}
		for _, h := range headings {
			item.Links = append(item.Links, Link{Title: h.Title, URL: "#" + h.ID})
		}
		section.Content = append(section.Content, item)
	}
	return section, nil
}

// DocComments returns the text of every top-level words chunk that starts
// with marker, with the marker and comment prefixes stripped from each line.
func DocComments(items []docs.Item, marker string) []string {
	var out []string
	for _, item := range items {
		words, ok := item.(*docs.Words)
		if !ok || !strings.HasPrefix(words.Code, marker) {
			continue
		}

		lines := strings.Split(words.Code, "\n")
		for i, line := range lines {
			line = strings.TrimSuffix(line, "\r")
			for strings.HasPrefix(line, marker) {
				line = line[len(marker):]
			}
			lines[i] = strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
		out = append(out, strings.TrimSpace(strings.Join(lines, "\n")))
	}
	return out
}

// Anchors returns the page anchors documentation can link to by binding
// path: public bindings, modules, and named data types and variants, with
// nested items qualified by their module path.
func Anchors(items []docs.Item) markdown.Targets {
	var paths []string
	var walk func(items []docs.Item, scope string)
	walk = func(items []docs.Item, scope string) {
		for _, item := range items {
			switch it := item.(type) {
			case *docs.Binding:
				if it.Public {
					paths = append(paths, scope+it.Name)
				}
			case *docs.Module:
				paths = append(paths, scope+it.Name)
				walk(it.Items, scope+it.Name+".")
			case *docs.Data:
				if it.Name != nil {
					paths = append(paths, scope+*it.Name)
				}
			case *docs.Variant:
				paths = append(paths, scope+it.Name)
			}
		}
	}
	walk(items, "")
	return markdown.AnchorTargets(paths...)
}

func summarizeModules(items []docs.Item) *Section {
	section := &Section{Title: "Modules", Kind: SectionModules}
	for _, item := range items {
		module, ok := item.(*docs.Module)
		if !ok || !module.HasPublicItems() {
			continue
		}

		filtered := &docs.Module{Name: module.Name, Comment: module.Comment}
		for _, child := range module.Items {
			if isPublic(child) {
				filtered.Items = append(filtered.Items, child)
			}
		}
		section.Content = append(section.Content, RenderingItem{
			Content: &ContentItems{
				Title: Title{Title: module.Name, LinkID: module.Name},
				Items: []docs.Item{filtered},
			},
		})
	}
	if len(section.Content) == 0 {
		return nil
	}
	return section
}

// isPublic reports whether an item is shown in a module listing. Data and
// variant types are always shown.
func isPublic(item docs.Item) bool {
	switch it := item.(type) {
	case *docs.Binding:
		return it.Public
	case *docs.Module:
		return it.HasPublicItems()
	case *docs.Data, *docs.Variant:
		return true
	}
	return false
}

func summarizeBindings(items []docs.Item) *Section {
	section := &Section{Title: "Bindings", Kind: SectionBindings}
	for _, g := range bindingGroups {
		var matched []docs.Item
		for _, item := range items {
			if g.match(item) {
				matched = append(matched, item)
			}
		}
		if len(matched) == 0 {
			continue
		}
		section.Content = append(section.Content, RenderingItem{
			Content: &ContentItems{
				Title: Title{Title: g.title, LinkID: g.id},
				Items: matched,
			},
		})
	}
	if len(section.Content) == 0 {
		return nil
	}
	return section
}
