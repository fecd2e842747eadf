package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is a top-level heading produced by PromoteHeadings.
type Heading struct {
	Title string
	ID    string
}

var promoted = map[atom.Atom]atom.Atom{
	atom.H1: atom.H2,
	atom.H2: atom.H3,
	atom.H3: atom.H4,
	atom.H4: atom.H5,
	atom.H5: atom.H6,
	atom.H6: atom.H6,
}

// PromoteHeadings moves every heading in an HTML fragment one level down
// (h1 becomes h2, h6 stays h6) and replaces it with a plain-text heading.
// Each resulting h2 gets an id derived from its title and is returned in
// document order.
func PromoteHeadings(fragment string) (string, []Heading, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", nil, fmt.Errorf("parsing html: %w", err)
	}

	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, ok := promoted[n.DataAtom]; ok {
				found = append(found, n)
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	var headings []Heading
	for _, n := range found {
		level := promoted[n.DataAtom]
		title := textContent(n)

		h := &html.Node{Type: html.ElementNode, DataAtom: level, Data: level.String()}
		h.AppendChild(&html.Node{Type: html.TextNode, Data: title})
		if level == atom.H2 {
			id := Slug(title)
			h.Attr = append(h.Attr, html.Attribute{Key: "id", Val: id})
			headings = append(headings, Heading{Title: title, ID: id})
		}

		n.Parent.InsertBefore(h, n.NextSibling)
		n.Parent.RemoveChild(n)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return "", nil, fmt.Errorf("rendering html: %w", err)
	}
	out := strings.ReplaceAll(buf.String(), "<html><head></head><body>", "")
	out = strings.ReplaceAll(out, "</body></html>", "")
	return out, headings, nil
}

// Slug turns a heading title into an anchor id.
func Slug(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
