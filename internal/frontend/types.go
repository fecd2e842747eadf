package frontend

import "strings"

// Loc is a position inside a source file.
type Loc struct {
	Line    int `json:"line"`
	Col     int `json:"col"`
	CharPos int `json:"char_pos"`
	BytePos int `json:"byte_pos"`
}

// Span is a range of source text. Spans are compared by value and used as
// map keys when looking up binding metadata.
type Span struct {
	File  string `json:"file"`
	Start Loc    `json:"start"`
	End   Loc    `json:"end"`
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	merged := s
	if other.Start.BytePos < merged.Start.BytePos {
		merged.Start = other.Start
	}
	if other.End.BytePos > merged.End.BytePos {
		merged.End = other.End
	}
	return merged
}

// Signature is the compiler-inferred stack arity of a function.
type Signature struct {
	Args    int `json:"args"`
	Outputs int `json:"outputs"`
}

// DocCommentArg is a single named argument or output of a doc comment signature.
type DocCommentArg struct {
	Name string `json:"name"`
}

// DocCommentSig is the signature line a doc comment may declare, e.g. "# Foo ? A B".
type DocCommentSig struct {
	Args    []DocCommentArg `json:"args,omitempty"`
	Outputs []DocCommentArg `json:"outputs,omitempty"`
}

// DocComment is the parsed doc comment attached to a binding.
type DocComment struct {
	Text string         `json:"text"`
	Sig  *DocCommentSig `json:"sig,omitempty"`
}

type BindingKindType string

const (
	KindConst      BindingKindType = "const"
	KindFunc       BindingKindType = "func"
	KindIndexMacro BindingKindType = "index_macro"
	KindCodeMacro  BindingKindType = "code_macro"
	KindModule     BindingKindType = "module"
	KindImport     BindingKindType = "import"
	KindScope      BindingKindType = "scope"
	KindError      BindingKindType = "error"
)

// BindingKind describes what a binding compiled to. Only the fields relevant
// to Type are populated.
type BindingKind struct {
	Type BindingKindType `json:"type"`

	// Value is the shown value of a constant, if known.
	Value *string `json:"value,omitempty"`
	// Signature is set for functions.
	Signature *Signature `json:"signature,omitempty"`
	// Arguments is the operand count of an index macro.
	Arguments int `json:"arguments,omitempty"`
	// Names maps the public names of a module to binding indices.
	Names map[string]int `json:"names,omitempty"`
}

// BindingInfo is the metadata the compiler registers for every user-written
// binding, keyed by the span of the binding's name.
type BindingInfo struct {
	Name    string      `json:"name"`
	Span    Span        `json:"span"`
	Public  bool        `json:"public"`
	Comment *DocComment `json:"comment,omitempty"`
	Kind    BindingKind `json:"kind"`
}

// SourceFile is one input file of a compiled program.
type SourceFile struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

// Program is a compiled library: its binding registry and source files.
// It is immutable for the duration of a generation run.
type Program struct {
	Main     string        `json:"main"`
	Bindings []BindingInfo `json:"bindings"`
	Files    []SourceFile  `json:"files"`
}

// Source returns the text of the file at path.
func (p *Program) Source(path string) (string, bool) {
	for _, f := range p.Files {
		if f.Path == path {
			return f.Text, true
		}
	}
	return "", false
}

// Text returns the source text covered by span, or "" if the span does not
// fall inside a known file.
func (p *Program) Text(span Span) string {
	src, ok := p.Source(span.File)
	if !ok {
		return ""
	}
	start, end := span.Start.BytePos, span.End.BytePos
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return src[start:end]
}

// IsMain reports whether path names the entry file of the program.
func (p *Program) IsMain(path string) bool {
	return strings.TrimPrefix(path, "./") == strings.TrimPrefix(p.Main, "./")
}
