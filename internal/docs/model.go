package docs

import "fmt"

// Item is a documentation item extracted from a file or module body.
// The set of variants is closed: Words, Binding, Module, Data, Variant, Import.
type Item interface {
	docItem()
}

// Words is a chunk of ordinary code that is not part of any declaration.
type Words struct {
	Code string `json:"code"`
}

// Binding is a documented declaration.
type Binding struct {
	Name    string      `json:"name"`
	Code    string      `json:"code"`
	Public  bool        `json:"public"`
	Comment *string     `json:"comment,omitempty"`
	Kind    BindingKind `json:"kind"`
}

// Module is a named module with its own items in source order.
type Module struct {
	Name    string  `json:"name"`
	Comment *string `json:"comment,omitempty"`
	Items   []Item  `json:"items"`
}

// Field is a field of a data definition.
type Field struct {
	Name      string  `json:"name"`
	Validator *string `json:"validator,omitempty"`
}

// Definition is the field layout of a data or variant type.
type Definition struct {
	Boxed  bool    `json:"boxed"`
	Fields []Field `json:"fields"`
}

// Data is a data type without a constructor function.
type Data struct {
	Name       *string     `json:"name,omitempty"`
	Comment    *string     `json:"comment,omitempty"`
	Definition *Definition `json:"definition,omitempty"`
}

// Variant is a variant type without a constructor function.
type Variant struct {
	Name       string      `json:"name"`
	Comment    *string     `json:"comment,omitempty"`
	Definition *Definition `json:"definition,omitempty"`
}

// Import is an import of another file or module.
type Import struct {
	Path string `json:"path"`
}

func (*Words) docItem()   {}
func (*Binding) docItem() {}
func (*Module) docItem()  {}
func (*Data) docItem()    {}
func (*Variant) docItem() {}
func (*Import) docItem()  {}

// HasPublicItems reports whether the module exposes anything worth documenting:
// a public binding, any data or variant type, or a nested module that does.
func (m *Module) HasPublicItems() bool {
	for _, item := range m.Items {
		switch it := item.(type) {
		case *Binding:
			if it.Public {
				return true
			}
		case *Module:
			if it.HasPublicItems() {
				return true
			}
		case *Data, *Variant:
			return true
		}
	}
	return false
}

// BindingKind is what a binding compiled to. The set of variants is closed:
// Constant, Function, IndexMacro, CodeMacro.
type BindingKind interface {
	bindingKind()
}

// Constant is a constant binding with its shown value, if known.
type Constant struct {
	Value *string `json:"value,omitempty"`
}

// Function is a function binding with its reconciled signature.
type Function struct {
	Definition FunctionDefinition `json:"definition"`
}

// IndexMacro is a macro whose operands are referenced by index.
type IndexMacro struct {
	Arguments      int             `json:"arguments"`
	NamedSignature *NamedSignature `json:"named_signature,omitempty"`
}

// CodeMacro is a macro that receives its operands as code.
type CodeMacro struct {
	NamedSignature *NamedSignature `json:"named_signature,omitempty"`
}

func (*Constant) bindingKind()   {}
func (*Function) bindingKind()   {}
func (*IndexMacro) bindingKind() {}
func (*CodeMacro) bindingKind()  {}

// KindName returns a human readable name for a binding kind.
func KindName(k BindingKind) string {
	switch k.(type) {
	case *Constant:
		return "constant"
	case *Function:
		return "function"
	case *IndexMacro:
		return "index macro"
	case *CodeMacro:
		return "code macro"
	default:
		return "binding"
	}
}

// ColorClass returns the highlight class for the macro's operand count.
func (m *IndexMacro) ColorClass() string {
	switch m.Arguments {
	case 1:
		return "monadic-modifier"
	case 2:
		return "dyadic-modifier"
	default:
		return "triadic-modifier"
	}
}

// Signature is an arity: how many values a function takes and leaves.
type Signature struct {
	Inputs  int `json:"inputs"`
	Outputs int `json:"outputs"`
}

func (s Signature) String() string {
	if s.Outputs == 1 {
		return fmt.Sprintf("|%d", s.Inputs)
	}
	return fmt.Sprintf("|%d.%d", s.Inputs, s.Outputs)
}

// ColorClass returns the highlight class for the signature's input count.
func (s Signature) ColorClass() string {
	switch s.Inputs {
	case 0:
		return "noadic-function"
	case 1:
		return "monadic-function"
	case 2:
		return "dyadic-function"
	case 3:
		return "triadic-function"
	case 4:
		return "tetradic-function"
	default:
		return ""
	}
}

// NamedSignature holds the argument and output names a doc comment declares.
// Lengths need not match the compiled arity.
type NamedSignature struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
}

// Argument is a single input of a reconciled function signature.
type Argument struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
	// CommentName is the doc comment's name for this argument when it
	// differs from Name.
	CommentName *string `json:"comment_name,omitempty"`
	// Inferred is true when no human-authored name was available.
	Inferred bool `json:"inferred"`
}

// Output is a single output of a reconciled function signature.
type Output struct {
	Name     string `json:"name"`
	Inferred bool   `json:"inferred"`
}

// FunctionDefinition is a function signature with arity and human-authored
// names merged.
type FunctionDefinition struct {
	RequiredInputs []Argument `json:"required_inputs"`
	OptionalInputs []Argument `json:"optional_inputs"`
	Outputs        []Output   `json:"outputs"`
}

func (f FunctionDefinition) Signature() Signature {
	return Signature{Inputs: len(f.RequiredInputs), Outputs: len(f.Outputs)}
}

// Inputs returns required inputs followed by optional inputs.
func (f FunctionDefinition) Inputs() []Argument {
	inputs := make([]Argument, 0, len(f.RequiredInputs)+len(f.OptionalInputs))
	inputs = append(inputs, f.RequiredInputs...)
	return append(inputs, f.OptionalInputs...)
}

// NamedArgument is an explicitly declared constructor argument.
type NamedArgument struct {
	Name     string
	Required bool
}

// FileContent is the extracted documentation of one source file.
type FileContent struct {
	Main  bool   `json:"main"`
	File  string `json:"file"`
	Items []Item `json:"items"`
}
