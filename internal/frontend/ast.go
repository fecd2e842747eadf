package frontend

import (
	"encoding/json"
	"fmt"
)

// Item is a top-level AST item of a parsed file or module body.
type Item interface {
	astItem()
}

// Word is a single spanned token of ordinary code.
type Word struct {
	Span Span `json:"span"`
}

// Ident is a spanned name.
type Ident struct {
	Value string `json:"value"`
	Span  Span   `json:"span"`
}

// WordSeq is a run of words, used for field validators and initializers.
type WordSeq struct {
	Words []Word `json:"words"`
}

// WordsItem is a line-run of ordinary code that is not a declaration.
type WordsItem struct {
	Words []Word `json:"words"`
}

// BindingItem is a `Name ← ...` declaration.
type BindingItem struct {
	Name Ident `json:"name"`
	Span Span  `json:"span"`
}

type ModuleKind string

const (
	ModuleNamed ModuleKind = "named"
	ModuleTest  ModuleKind = "test"
)

// ModuleItem is a scoped module block.
type ModuleItem struct {
	Kind  ModuleKind `json:"kind"`
	Name  *Ident     `json:"name,omitempty"`
	Items Items      `json:"items"`
}

// DataField is one field of a data definition.
type DataField struct {
	Name      Ident    `json:"name"`
	Validator *WordSeq `json:"validator,omitempty"`
	Init      *WordSeq `json:"init,omitempty"`
}

// DataFields is the field list of a data definition.
type DataFields struct {
	Boxed  bool        `json:"boxed"`
	Fields []DataField `json:"fields"`
}

// DataDef is a single data or variant definition.
type DataDef struct {
	Name        *Ident      `json:"name,omitempty"`
	Span        Span        `json:"span"`
	Variant     bool        `json:"variant"`
	Public      bool        `json:"public"`
	Fields      *DataFields `json:"fields,omitempty"`
	Constructor bool        `json:"constructor"`
}

// DataItem groups the definitions a single data declaration expands to.
type DataItem struct {
	Defs []DataDef `json:"defs"`
}

// ImportItem is a `~ "path"` import.
type ImportItem struct {
	Path Ident `json:"path"`
}

func (*WordsItem) astItem()   {}
func (*BindingItem) astItem() {}
func (*ModuleItem) astItem()  {}
func (*DataItem) astItem()    {}
func (*ImportItem) astItem()  {}

// Items is an ordered item list. It decodes from the tagged JSON form
// {"type": "words" | "binding" | "module" | "data" | "import", ...}.
type Items []Item

func (items *Items) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Items, 0, len(raw))
	for i, msg := range raw {
		item, err := decodeItem(msg)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, item)
	}
	*items = out
	return nil
}

func decodeItem(msg json.RawMessage) (Item, error) {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &tag); err != nil {
		return nil, err
	}

	var item Item
	switch tag.Type {
	case "words":
		item = &WordsItem{}
	case "binding":
		item = &BindingItem{}
	case "module":
		item = &ModuleItem{}
	case "data":
		item = &DataItem{}
	case "import":
		item = &ImportItem{}
	default:
		return nil, fmt.Errorf("unknown item type %q", tag.Type)
	}
	if err := json.Unmarshal(msg, item); err != nil {
		return nil, fmt.Errorf("decoding %s item: %w", tag.Type, err)
	}
	return item, nil
}

// ParseError is a diagnostic reported by the parser.
type ParseError struct {
	Message string `json:"message"`
	Span    Span   `json:"span"`
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Span.File, e.Span.Start.Line, e.Span.Start.Col, e.Message)
}

// Parser turns file text into AST items.
type Parser interface {
	Parse(text, file string) ([]Item, []ParseError)
}
