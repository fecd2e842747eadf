package frontend

type SpanKindType string

const (
	SpanPrimitive     SpanKindType = "primitive"
	SpanObverse       SpanKindType = "obverse"
	SpanNumber        SpanKindType = "number"
	SpanString        SpanKindType = "string"
	SpanImportSrc     SpanKindType = "import_src"
	SpanComment       SpanKindType = "comment"
	SpanOutputComment SpanKindType = "output_comment"
	SpanStrand        SpanKindType = "strand"
	SpanSubscript     SpanKindType = "subscript"
	SpanMacroDelim    SpanKindType = "macro_delim"
	SpanArgSetter     SpanKindType = "arg_setter"
	SpanIdent         SpanKindType = "ident"
	SpanLabel         SpanKindType = "label"
	SpanWhitespace    SpanKindType = "whitespace"
	SpanDelimiter     SpanKindType = "delimiter"
)

// Primitive classes the highlighter distinguishes.
const (
	PrimClassStack    = "stack"
	PrimClassDebug    = "debug"
	PrimClassConstant = "constant"
)

// Primitive describes a built-in glyph as seen by the classifier.
type Primitive struct {
	Name  string `json:"name"`
	Class string `json:"class"`
	// ModifierArgs is set when the primitive is a modifier.
	ModifierArgs *int `json:"modifier_args,omitempty"`
	// Signature is the (possibly subscripted) signature, if the primitive has one.
	Signature *Signature `json:"signature,omitempty"`
}

type BindingDocsKind string

const (
	DocsConstant BindingDocsKind = "constant"
	DocsFunction BindingDocsKind = "function"
	DocsModifier BindingDocsKind = "modifier"
	DocsModule   BindingDocsKind = "module"
	DocsError    BindingDocsKind = "error"
)

// BindingDocs is the resolved binding an identifier refers to.
type BindingDocs struct {
	Kind         BindingDocsKind `json:"kind"`
	Signature    *Signature      `json:"signature,omitempty"`
	ModifierArgs int             `json:"modifier_args,omitempty"`
}

// SpanKind is the semantic category of a classified span.
type SpanKind struct {
	Type SpanKindType `json:"type"`
	// Primitive is set for primitives, obverse and primitive subscripts.
	Primitive *Primitive `json:"primitive,omitempty"`
	// MacroArgs is the operand count of a macro delimiter.
	MacroArgs int `json:"macro_args,omitempty"`
	// Docs is set for identifiers that resolved to a binding.
	Docs *BindingDocs `json:"docs,omitempty"`
}

// SpanEvent is a classified range of text. Start and End are grapheme
// cluster positions, End exclusive.
type SpanEvent struct {
	Start int      `json:"start"`
	End   int      `json:"end"`
	Kind  SpanKind `json:"kind"`
}

// Classifier produces an ordered, non-overlapping span stream for text.
type Classifier interface {
	Classify(text string) []SpanEvent
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(text string) []SpanEvent

func (f ClassifierFunc) Classify(text string) []SpanEvent {
	return f(text)
}
