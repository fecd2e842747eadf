package docs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcdickinson/uiuadoc/internal/frontend"
)

// ErrMissingMetadata is returned when the compiler registry lacks metadata it
// guarantees to exist, such as for a named data definition. Output built from
// such a program cannot be trusted.
var ErrMissingMetadata = errors.New("missing binding metadata")

// Extractor turns parsed AST items into documentation items.
type Extractor struct {
	program  *frontend.Program
	resolver *Resolver
}

func NewExtractor(program *frontend.Program) *Extractor {
	return &Extractor{
		program:  program,
		resolver: NewResolver(program.Bindings),
	}
}

// ExtractFile extracts the documentation of one parsed file.
func (e *Extractor) ExtractFile(path string, items []frontend.Item) (*FileContent, error) {
	extracted, err := e.Extract(items)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	return &FileContent{
		Main:  e.program.IsMain(path),
		File:  path,
		Items: extracted,
	}, nil
}

// Extract walks items in source order. Consecutive words items on contiguous
// lines are joined before being split into chunks at blank lines.
func (e *Extractor) Extract(items []frontend.Item) ([]Item, error) {
	var (
		results  []Item
		pending  []string
		lastLine int
	)
	flush := func() {
		if len(pending) == 0 {
			return
		}
		results = append(results, splitChunks(strings.Join(pending, "\n"))...)
		pending = nil
	}

	for _, item := range items {
		if words, ok := item.(*frontend.WordsItem); ok {
			code, first, last, ok := e.wordsCode(words.Words)
			if !ok {
				continue
			}
			if len(pending) > 0 && first != lastLine+1 {
				flush()
			}
			pending = append(pending, code)
			lastLine = last
			continue
		}

		flush()
		extracted, err := e.extractItem(item)
		if err != nil {
			return nil, err
		}
		results = append(results, extracted...)
	}
	flush()

	return results, nil
}

func (e *Extractor) extractItem(item frontend.Item) ([]Item, error) {
	switch it := item.(type) {
	case *frontend.BindingItem:
		if b := e.binding(it); b != nil {
			return []Item{b}, nil
		}
	case *frontend.ModuleItem:
		m, err := e.module(it)
		if err != nil || m == nil {
			return nil, err
		}
		return []Item{m}, nil
	case *frontend.DataItem:
		out := make([]Item, 0, len(it.Defs))
		for i := range it.Defs {
			d, err := e.dataDef(&it.Defs[i])
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	case *frontend.ImportItem:
		return []Item{&Import{Path: it.Path.Value}}, nil
	}
	return nil, nil
}

func (e *Extractor) binding(b *frontend.BindingItem) *Binding {
	info, ok := e.resolver.Resolve(b.Name.Span)
	if !ok {
		return nil
	}

	named := namedSignature(info.Comment)
	var kind BindingKind
	switch info.Kind.Type {
	case frontend.KindConst:
		kind = &Constant{Value: info.Kind.Value}
	case frontend.KindFunc:
		kind = &Function{Definition: Reconcile(SignatureFrom(info.Kind.Signature), named, nil)}
	case frontend.KindIndexMacro:
		kind = &IndexMacro{Arguments: info.Kind.Arguments, NamedSignature: named}
	case frontend.KindCodeMacro:
		kind = &CodeMacro{NamedSignature: named}
	default:
		// Modules, imports and scopes surface as their own AST items.
		return nil
	}

	return &Binding{
		Name:    b.Name.Value,
		Code:    e.program.Text(b.Span),
		Public:  info.Public,
		Comment: commentText(info.Comment),
		Kind:    kind,
	}
}

func (e *Extractor) module(m *frontend.ModuleItem) (*Module, error) {
	if m.Kind != frontend.ModuleNamed || m.Name == nil {
		return nil, nil
	}
	info, ok := e.resolver.Resolve(m.Name.Span)
	if !ok {
		return nil, nil
	}

	items, err := e.Extract(m.Items)
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", m.Name.Value, err)
	}
	return &Module{
		Name:    m.Name.Value,
		Comment: commentText(info.Comment),
		Items:   items,
	}, nil
}

func (e *Extractor) dataDef(def *frontend.DataDef) (Item, error) {
	var (
		info    *frontend.BindingInfo
		name    *string
		comment *string
	)
	if def.Name != nil {
		resolved, ok := e.resolver.Resolve(def.Name.Span)
		if !ok {
			return nil, fmt.Errorf("data definition %s: %w", def.Name.Value, ErrMissingMetadata)
		}
		info = &resolved
		n := def.Name.Value
		name = &n
		comment = commentText(info.Comment)
	}

	if def.Constructor {
		return e.constructor(def, info, comment)
	}

	definition := e.definition(def.Fields)
	if def.Variant {
		if name == nil {
			return nil, fmt.Errorf("variant without a name: %w", ErrMissingMetadata)
		}
		return &Variant{Name: *name, Comment: comment, Definition: definition}, nil
	}
	return &Data{Name: name, Comment: comment, Definition: definition}, nil
}

// constructor documents a data definition with a constructor function as a
// function binding. Its arity comes from the Call binding of the type's module.
func (e *Extractor) constructor(def *frontend.DataDef, info *frontend.BindingInfo, comment *string) (*Binding, error) {
	if info == nil {
		return nil, fmt.Errorf("constructor without a name: %w", ErrMissingMetadata)
	}
	name := def.Name.Value
	if info.Kind.Type != frontend.KindModule {
		return nil, fmt.Errorf("constructor %s has no module binding: %w", name, ErrMissingMetadata)
	}
	index, ok := info.Kind.Names["Call"]
	if !ok {
		return nil, fmt.Errorf("constructor %s has no Call binding: %w", name, ErrMissingMetadata)
	}
	call, ok := e.resolver.At(index)
	if !ok || call.Kind.Type != frontend.KindFunc {
		return nil, fmt.Errorf("constructor %s Call binding is not a function: %w", name, ErrMissingMetadata)
	}
	if def.Fields == nil {
		return nil, fmt.Errorf("constructor %s has no fields: %w", name, ErrMissingMetadata)
	}

	args := make([]NamedArgument, 0, len(def.Fields.Fields))
	for _, field := range def.Fields.Fields {
		fieldName := e.program.Text(field.Name.Span)
		if fieldName == "" {
			fieldName = field.Name.Value
		}
		args = append(args, NamedArgument{Name: fieldName, Required: field.Init == nil})
	}

	return &Binding{
		Name:    name,
		Code:    e.program.Text(def.Span),
		Public:  def.Public,
		Comment: comment,
		Kind: &Function{
			Definition: Reconcile(SignatureFrom(call.Kind.Signature), namedSignature(info.Comment), args),
		},
	}, nil
}

func (e *Extractor) definition(fields *frontend.DataFields) *Definition {
	if fields == nil {
		return nil
	}
	def := &Definition{Boxed: fields.Boxed, Fields: make([]Field, 0, len(fields.Fields))}
	for _, f := range fields.Fields {
		field := Field{Name: f.Name.Value}
		if f.Validator != nil {
			code, _, _, _ := e.wordsCode(f.Validator.Words)
			field.Validator = &code
		}
		def.Fields = append(def.Fields, field)
	}
	return def
}

// wordsCode returns the source text covering words together with the first
// and last line it spans. ok is false for an empty word list.
func (e *Extractor) wordsCode(words []frontend.Word) (code string, first, last int, ok bool) {
	if len(words) == 0 {
		return "", 0, 0, false
	}
	from, to := words[0].Span, words[len(words)-1].Span
	code = e.program.Text(from.Merge(to))
	return strings.ReplaceAll(code, "\r\n", "\n"), from.Start.Line, to.End.Line, true
}

// splitChunks splits code at blank lines. Empty pieces are dropped.
func splitChunks(code string) []Item {
	var out []Item
	for _, chunk := range strings.Split(code, "\n\n") {
		if chunk == "" {
			continue
		}
		out = append(out, &Words{Code: chunk})
	}
	return out
}

func commentText(c *frontend.DocComment) *string {
	if c == nil {
		return nil
	}
	text := c.Text
	return &text
}

func namedSignature(c *frontend.DocComment) *NamedSignature {
	if c == nil {
		return nil
	}
	return NamedSignatureFrom(c.Sig)
}
