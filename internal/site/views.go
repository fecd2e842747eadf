package site

import (
	"html/template"

	"github.com/jcdickinson/uiuadoc/internal/docs"
	"github.com/jcdickinson/uiuadoc/internal/markdown"
	"github.com/jcdickinson/uiuadoc/internal/summary"
)

type pageView struct {
	Title   string
	Sidebar []sidebarView
	Panels  []panelView
}

type sidebarView struct {
	Title string
	Links []summary.Link
}

type panelView struct {
	Section       string
	Documentation template.HTML
	ID            string
	Title         string
	Items         []itemView
}

type itemView struct {
	Kind       string
	Name       string
	Anchor     string
	Public     bool
	Badge      string
	BadgeClass string
	Comment    template.HTML
	Arguments  []argumentView
	Outputs    []docs.Output
	Fields     []fieldView
	Boxed      bool
	Value      string
	Code       template.HTML
	Children   []itemView
}

type argumentView struct {
	Name     string
	Alias    string
	Optional bool
	Inferred bool
}

type fieldView struct {
	Name      string
	Validator template.HTML
}

func (g *Generator) page(s *summary.DocumentationSummary) pageView {
	page := pageView{Title: s.Title}
	for _, section := range s.Sections {
		side := sidebarView{Title: section.Title}
		for _, item := range section.Content {
			side.Links = append(side.Links, item.Links...)
		}

		for _, item := range section.Content {
			switch c := item.Content.(type) {
			case *summary.RenderedDocumentation:
				page.Panels = append(page.Panels, panelView{
					Section:       section.Kind.String(),
					Documentation: template.HTML(c.HTML),
				})
			case *summary.ContentItems:
				side.Links = append(side.Links, summary.Link{Title: c.Title.Title, URL: "#" + c.Title.LinkID})
				panel := panelView{Section: section.Kind.String(), ID: c.Title.LinkID, Title: c.Title.Title}
				for _, it := range c.Items {
					panel.Items = append(panel.Items, g.item(it, ""))
				}
				page.Panels = append(page.Panels, panel)
			}
		}
		page.Sidebar = append(page.Sidebar, side)
	}
	return page
}

// item builds the view of a documentation item. Bindings are anchored by
// name, qualified with the enclosing module path when nested.
func (g *Generator) item(item docs.Item, scope string) itemView {
	switch it := item.(type) {
	case *docs.Binding:
		v := itemView{
			Name:    it.Name,
			Anchor:  scope + it.Name,
			Public:  it.Public,
			Comment: g.comment(it.Comment),
			Code:    g.highlight(it.Code),
			Kind:    docs.KindName(it.Kind),
		}
		switch k := it.Kind.(type) {
		case *docs.Constant:
			if k.Value != nil {
				v.Value = *k.Value
			}
		case *docs.Function:
			sig := k.Definition.Signature()
			v.Badge, v.BadgeClass = sig.String(), sig.ColorClass()
			for _, arg := range k.Definition.Inputs() {
				av := argumentView{Name: arg.Name, Optional: arg.Optional, Inferred: arg.Inferred}
				if arg.CommentName != nil {
					av.Alias = *arg.CommentName
				}
				v.Arguments = append(v.Arguments, av)
			}
			v.Outputs = k.Definition.Outputs
		case *docs.IndexMacro:
			v.BadgeClass = k.ColorClass()
			v.Badge = "!"
			v.Arguments = namedArguments(k.NamedSignature)
		case *docs.CodeMacro:
			v.Badge = "‼"
			v.Arguments = namedArguments(k.NamedSignature)
		}
		return v

	case *docs.Module:
		v := itemView{Kind: "module", Name: it.Name, Public: true, Comment: g.comment(it.Comment)}
		for _, child := range it.Items {
			v.Children = append(v.Children, g.item(child, scope+it.Name+"."))
		}
		return v

	case *docs.Data:
		v := itemView{Kind: "data", Public: true, Comment: g.comment(it.Comment)}
		if it.Name != nil {
			v.Name = *it.Name
			v.Anchor = scope + *it.Name
		}
		g.fields(&v, it.Definition)
		return v

	case *docs.Variant:
		v := itemView{Kind: "variant", Name: it.Name, Anchor: scope + it.Name, Public: true, Comment: g.comment(it.Comment)}
		g.fields(&v, it.Definition)
		return v

	case *docs.Import:
		return itemView{Kind: "import", Name: it.Path, Public: true}

	case *docs.Words:
		return itemView{Kind: "code", Public: true, Code: g.highlight(it.Code)}
	}
	return itemView{}
}

func (g *Generator) fields(v *itemView, def *docs.Definition) {
	if def == nil {
		return
	}
	v.Boxed = def.Boxed
	for _, f := range def.Fields {
		fv := fieldView{Name: f.Name}
		if f.Validator != nil && *f.Validator != "" {
			fv.Validator = g.highlight(*f.Validator)
		}
		v.Fields = append(v.Fields, fv)
	}
}

func (g *Generator) comment(c *string) template.HTML {
	if c == nil || *c == "" {
		return ""
	}
	var code markdown.CodeRenderer
	if g.code != nil {
		code = g.code.HTML
	}
	return template.HTML(markdown.ToHTML(*c, code))
}

func (g *Generator) highlight(code string) template.HTML {
	if g.code == nil || code == "" {
		return ""
	}
	return template.HTML(g.code.HTML(code))
}

func namedArguments(sig *docs.NamedSignature) []argumentView {
	if sig == nil {
		return nil
	}
	args := make([]argumentView, 0, len(sig.Inputs))
	for _, name := range sig.Inputs {
		args = append(args, argumentView{Name: name})
	}
	return args
}
