package docs

import (
	"fmt"

	"github.com/jcdickinson/uiuadoc/internal/frontend"
)

// NamedSignatureFrom converts a doc comment signature line into names.
func NamedSignatureFrom(sig *frontend.DocCommentSig) *NamedSignature {
	if sig == nil {
		return nil
	}
	named := &NamedSignature{
		Inputs:  make([]string, 0, len(sig.Args)),
		Outputs: make([]string, 0, len(sig.Outputs)),
	}
	for _, arg := range sig.Args {
		named.Inputs = append(named.Inputs, arg.Name)
	}
	for _, out := range sig.Outputs {
		named.Outputs = append(named.Outputs, out.Name)
	}
	return named
}

// SignatureFrom converts a compiler signature. A nil signature is treated as
// taking and leaving nothing.
func SignatureFrom(sig *frontend.Signature) Signature {
	if sig == nil {
		return Signature{}
	}
	return Signature{Inputs: sig.Args, Outputs: sig.Outputs}
}

// slot is one aligned position of a name list. ok is false when the source
// had no name at that position.
type slot struct {
	name string
	ok   bool
}

// align pads or truncates names to exactly n slots.
func align(names []string, n int) []slot {
	slots := make([]slot, n)
	for i := 0; i < n && i < len(names); i++ {
		slots[i] = slot{name: names[i], ok: true}
	}
	return slots
}

// defaultNames returns the inferred positional names for n values:
// none, "Input", or "Input1".."InputN".
func defaultNames(prefix string, n int) []string {
	switch n {
	case 0:
		return nil
	case 1:
		return []string{prefix}
	}
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("%s%d", prefix, i+1)
	}
	return names
}

// Reconcile merges a compiled arity with the names a doc comment declares and,
// for data constructors, the declared field names. Per input slot the field
// name wins over the comment name, which wins over the inferred default. A
// comment name that loses to a different field name is kept as CommentName.
// Fields with an initializer become optional inputs after the required ones.
func Reconcile(sig Signature, named *NamedSignature, explicit []NamedArgument) FunctionDefinition {
	var commentInputs, commentOutputs []string
	if named != nil {
		commentInputs, commentOutputs = named.Inputs, named.Outputs
	}

	var requiredFields, optionalFields []string
	for _, arg := range explicit {
		if arg.Required {
			requiredFields = append(requiredFields, arg.Name)
		} else {
			optionalFields = append(optionalFields, arg.Name)
		}
	}

	defaults := defaultNames("Input", sig.Inputs)
	comments := align(commentInputs, sig.Inputs)
	fields := align(requiredFields, sig.Inputs)

	def := FunctionDefinition{
		RequiredInputs: make([]Argument, 0, sig.Inputs),
		OptionalInputs: make([]Argument, 0, len(optionalFields)),
		Outputs:        make([]Output, 0, sig.Outputs),
	}
	for i, name := range defaults {
		def.RequiredInputs = append(def.RequiredInputs, reconcileArgument(name, comments[i], fields[i], false))
	}

	// Comment names past the required slots line up with the optional fields.
	var extraComments []string
	if len(commentInputs) > sig.Inputs {
		extraComments = commentInputs[sig.Inputs:]
	}
	optComments := align(extraComments, len(optionalFields))
	for i, name := range optionalFields {
		def.OptionalInputs = append(def.OptionalInputs, reconcileArgument("", optComments[i], slot{name: name, ok: true}, true))
	}

	outComments := align(commentOutputs, sig.Outputs)
	for i, name := range defaultNames("Output", sig.Outputs) {
		if outComments[i].ok {
			def.Outputs = append(def.Outputs, Output{Name: outComments[i].name})
		} else {
			def.Outputs = append(def.Outputs, Output{Name: name, Inferred: true})
		}
	}
	return def
}

func reconcileArgument(inferred string, comment, field slot, optional bool) Argument {
	if !comment.ok && !field.ok {
		return Argument{Name: inferred, Optional: optional, Inferred: true}
	}

	arg := Argument{Name: comment.name, Optional: optional}
	if field.ok {
		arg.Name = field.name
	}
	if comment.ok && comment.name != arg.Name {
		alias := comment.name
		arg.CommentName = &alias
	}
	return arg
}
