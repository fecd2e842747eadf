package search

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jcdickinson/uiuadoc/internal/cas"
	"github.com/jcdickinson/uiuadoc/internal/db"
	"github.com/jcdickinson/uiuadoc/internal/docs"
	md "github.com/jcdickinson/uiuadoc/internal/markdown"
)

// URIScheme prefixes item URIs: uadoc://<library>/<path>.
const URIScheme = "uadoc://"

// URI returns the resource URI of the item at path in library.
func URI(library, path string) string {
	return URIScheme + library + "/" + path
}

// ParseURI splits an item URI into library and path. The scheme is optional.
func ParseURI(uri string) (library, path string, err error) {
	parts := strings.SplitN(strings.TrimPrefix(uri, URIScheme), "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid URI %q: need library/path", uri)
	}
	return parts[0], parts[1], nil
}

// entry is an item flattened out of the documentation tree.
type entry struct {
	path      string
	name      string
	kind      string
	signature string
	public    bool
	comment   string
	code      string
	args      []string
}

// Index stores extracted documentation in the item database, with the
// rendered markdown for each item kept in the content store.
type Index struct {
	db    *db.DB
	store *cas.Store
}

func NewIndex(database *db.DB, store *cas.Store) *Index {
	return &Index{db: database, store: store}
}

// IndexLibrary replaces the indexed items of library with the bindings,
// modules and data definitions in files. It returns the number of items
// indexed.
func (x *Index) IndexLibrary(library, dir string, files []*docs.FileContent) (int, error) {
	lib, err := x.db.UpsertLibrary(library, dir)
	if err != nil {
		return 0, fmt.Errorf("upserting library %s: %w", library, err)
	}
	if err := x.db.DeleteItemsByLibrary(lib.ID); err != nil {
		return 0, fmt.Errorf("clearing items of %s: %w", library, err)
	}

	var entries []entry
	for _, file := range files {
		entries = flatten(entries, file.Items, "")
	}

	links := make(md.Targets, len(entries))
	for _, e := range entries {
		links[e.path] = URI(library, e.path)
	}

	for _, e := range entries {
		hash, err := x.store.Put(document(library, e, links))
		if err != nil {
			return 0, fmt.Errorf("storing %s: %w", e.path, err)
		}
		err = x.db.InsertItem(&db.Item{
			LibraryID:   lib.ID,
			Path:        e.path,
			Name:        e.name,
			Kind:        e.kind,
			Signature:   e.signature,
			Public:      e.public,
			Summary:     summaryLine(e.comment),
			ContentHash: hash,
		})
		if err != nil {
			return 0, fmt.Errorf("indexing %s: %w", e.path, err)
		}
	}

	if err := x.db.MarkLibraryBuilt(lib.ID); err != nil {
		return 0, fmt.Errorf("marking %s built: %w", library, err)
	}
	slog.Info("indexed library", "library", library, "items", len(entries))
	return len(entries), nil
}

func flatten(out []entry, items []docs.Item, scope string) []entry {
	for _, item := range items {
		switch it := item.(type) {
		case *docs.Binding:
			e := entry{
				path:   scope + it.Name,
				name:   it.Name,
				kind:   docs.KindName(it.Kind),
				public: it.Public,
				code:   it.Code,
			}
			if it.Comment != nil {
				e.comment = *it.Comment
			}
			switch k := it.Kind.(type) {
			case *docs.Function:
				e.signature = k.Definition.Signature().String()
				for _, arg := range k.Definition.Inputs() {
					e.args = append(e.args, argumentLine(arg))
				}
			case *docs.IndexMacro:
				e.signature = strings.Repeat("!", max(k.Arguments, 1))
			case *docs.CodeMacro:
				e.signature = "‼"
			case *docs.Constant:
				if k.Value != nil {
					e.signature = *k.Value
				}
			}
			out = append(out, e)

		case *docs.Module:
			e := entry{path: scope + it.Name, name: it.Name, kind: "module", public: it.HasPublicItems()}
			if it.Comment != nil {
				e.comment = *it.Comment
			}
			out = append(out, e)
			out = flatten(out, it.Items, scope+it.Name+".")

		case *docs.Data:
			if it.Name == nil {
				continue
			}
			out = append(out, dataEntry(scope, *it.Name, "data", it.Comment, it.Definition))

		case *docs.Variant:
			out = append(out, dataEntry(scope, it.Name, "variant", it.Comment, it.Definition))
		}
	}
	return out
}

func dataEntry(scope, name, kind string, comment *string, def *docs.Definition) entry {
	e := entry{path: scope + name, name: name, kind: kind, public: true}
	if comment != nil {
		e.comment = *comment
	}
	if def != nil {
		for _, f := range def.Fields {
			line := "`" + f.Name + "`"
			if f.Validator != nil && *f.Validator != "" {
				line += ": `" + *f.Validator + "`"
			}
			e.args = append(e.args, line)
		}
	}
	return e
}

func argumentLine(arg docs.Argument) string {
	line := "`" + arg.Name + "`"
	if arg.CommentName != nil && *arg.CommentName != arg.Name {
		line += " (" + *arg.CommentName + ")"
	}
	if arg.Optional {
		line += " optional"
	}
	return line
}

// document renders the markdown stored for an item. Links in the comment
// that name another indexed item are rewritten to that item's URI.
func document(library string, e entry, links md.Targets) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", e.path)

	if e.code != "" {
		fmt.Fprintf(&b, "\n```uiua\n%s\n```\n", e.code)
	}
	if len(e.args) > 0 {
		heading := "Arguments"
		if e.kind == "data" || e.kind == "variant" {
			heading = "Fields"
		}
		fmt.Fprintf(&b, "\n## %s\n\n", heading)
		for _, a := range e.args {
			fmt.Fprintf(&b, "- %s\n", a)
		}
	}
	if e.comment != "" {
		b.WriteString("\n")
		b.WriteString(md.RewriteLinks(e.comment, links))
		b.WriteString("\n")
	}

	fields := map[string]string{
		"library": library,
		"path":    e.path,
		"kind":    e.kind,
		"public":  strconv.FormatBool(e.public),
	}
	if e.signature != "" {
		fields["signature"] = strconv.Quote(e.signature)
	}
	return md.AddFrontMatter(b.String(), fields)
}

// summaryLine returns the first paragraph of a comment on one line.
func summaryLine(comment string) string {
	para, _, _ := strings.Cut(strings.TrimSpace(comment), "\n\n")
	return strings.Join(strings.Fields(para), " ")
}
