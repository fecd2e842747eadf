package summary

import (
	"strings"

	"github.com/jcdickinson/uiuadoc/internal/docs"
)

// maxNamedArity is the largest input count with its own function group.
const maxNamedArity = 6

type group struct {
	title string
	id    string
	match func(docs.Item) bool
}

var arityNames = [maxNamedArity + 1]string{
	"Noadic", "Monadic", "Dyadic", "Triadic", "Tetradic", "Pentadic", "Hexadic",
}

// bindingGroups lists the binding groups in display order. Anchor ids are
// fixed so links stay valid between builds.
var bindingGroups = buildGroups()

func buildGroups() []group {
	groups := []group{
		{"Constants", "__constants", publicBinding(func(k docs.BindingKind) bool {
			_, ok := k.(*docs.Constant)
			return ok
		})},
		{"Data types", "__data", func(item docs.Item) bool {
			switch item.(type) {
			case *docs.Data, *docs.Variant:
				return true
			}
			return false
		}},
		{"Code macros", "__code_macros", publicBinding(func(k docs.BindingKind) bool {
			_, ok := k.(*docs.CodeMacro)
			return ok
		})},
		{"Index macros", "__index_macros", publicBinding(func(k docs.BindingKind) bool {
			_, ok := k.(*docs.IndexMacro)
			return ok
		})},
	}
	for arity, name := range arityNames {
		groups = append(groups, group{
			title: name + " functions",
			id:    "__" + strings.ToLower(name) + "_functions",
			match: publicBinding(func(k docs.BindingKind) bool {
				f, ok := k.(*docs.Function)
				return ok && f.Definition.Signature().Inputs == arity
			}),
		})
	}
	return append(groups, group{
		title: "Polyadic functions",
		id:    "__polyadic_functions",
		match: publicBinding(func(k docs.BindingKind) bool {
			f, ok := k.(*docs.Function)
			return ok && f.Definition.Signature().Inputs > maxNamedArity
		}),
	})
}

func publicBinding(kind func(docs.BindingKind) bool) func(docs.Item) bool {
	return func(item docs.Item) bool {
		b, ok := item.(*docs.Binding)
		return ok && b.Public && kind(b.Kind)
	}
}
