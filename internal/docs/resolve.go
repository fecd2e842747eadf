package docs

import "github.com/jcdickinson/uiuadoc/internal/frontend"

// Resolver looks up binding metadata by the exact span of a binding's name.
// It is a read-only index over the compiler's registry.
type Resolver struct {
	bindings []frontend.BindingInfo
	bySpan   map[frontend.Span]int
}

func NewResolver(bindings []frontend.BindingInfo) *Resolver {
	bySpan := make(map[frontend.Span]int, len(bindings))
	for i, b := range bindings {
		// The registry is searched front to back, so the first entry wins.
		if _, ok := bySpan[b.Span]; !ok {
			bySpan[b.Span] = i
		}
	}
	return &Resolver{bindings: bindings, bySpan: bySpan}
}

// Resolve returns the metadata registered for span. Spans the compiler
// synthesized have no metadata; callers skip those.
func (r *Resolver) Resolve(span frontend.Span) (frontend.BindingInfo, bool) {
	i, ok := r.bySpan[span]
	if !ok {
		return frontend.BindingInfo{}, false
	}
	return r.bindings[i], true
}

// At returns the binding at a registry index.
func (r *Resolver) At(index int) (frontend.BindingInfo, bool) {
	if index < 0 || index >= len(r.bindings) {
		return frontend.BindingInfo{}, false
	}
	return r.bindings[index], true
}
