package highlight

import "github.com/jcdickinson/uiuadoc/internal/frontend"

func modifierClass(args int) string {
	switch args {
	case 0, 1:
		return "binding monadic-modifier"
	case 2:
		return "binding dyadic-modifier"
	default:
		return "binding triadic-modifier"
	}
}

func signatureClass(args int) string {
	switch args {
	case 0:
		return "binding noadic-function"
	case 1:
		return "binding monadic-function"
	case 2:
		return "binding dyadic-function"
	case 3:
		return "binding triadic-function"
	case 4:
		return "binding tetradic-function"
	default:
		return "binding"
	}
}

func primitiveClass(p *frontend.Primitive) string {
	switch {
	case p == nil:
		return ""
	case p.Name == "identity":
		return "stack-function"
	case (p.Class == frontend.PrimClassStack || p.Class == frontend.PrimClassDebug) && p.ModifierArgs == nil:
		return "stack-function"
	case p.Class == frontend.PrimClassConstant:
		return "number-literal"
	case p.ModifierArgs != nil:
		return modifierClass(*p.ModifierArgs)
	case p.Signature != nil:
		return signatureClass(p.Signature.Args)
	}
	return ""
}

func bindingClass(docs *frontend.BindingDocs) string {
	switch docs.Kind {
	case frontend.DocsConstant:
		return "binding constant"
	case frontend.DocsFunction:
		if docs.Signature == nil {
			return "binding"
		}
		return signatureClass(docs.Signature.Args)
	case frontend.DocsModifier:
		return modifierClass(docs.ModifierArgs)
	case frontend.DocsModule:
		return "binding module"
	case frontend.DocsError:
		return "output-error"
	}
	return ""
}

// Class returns the CSS classes used to highlight a span of the given kind.
// Unhighlighted kinds return "".
func Class(kind frontend.SpanKind) string {
	switch kind.Type {
	case frontend.SpanPrimitive:
		return primitiveClass(kind.Primitive)
	case frontend.SpanObverse:
		if kind.Primitive == nil {
			return modifierClass(1)
		}
		return primitiveClass(kind.Primitive)
	case frontend.SpanNumber:
		return "number-literal"
	case frontend.SpanString, frontend.SpanImportSrc:
		return "string-literal-span"
	case frontend.SpanComment, frontend.SpanOutputComment:
		return "comment-span"
	case frontend.SpanStrand:
		return "strand-span"
	case frontend.SpanSubscript:
		if kind.Primitive == nil {
			return "number-literal"
		}
		return primitiveClass(kind.Primitive)
	case frontend.SpanMacroDelim:
		return modifierClass(kind.MacroArgs)
	case frontend.SpanArgSetter:
		return signatureClass(1)
	case frontend.SpanIdent:
		if kind.Docs != nil {
			return bindingClass(kind.Docs)
		}
	}
	return ""
}
