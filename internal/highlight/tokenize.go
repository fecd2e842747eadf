package highlight

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/jcdickinson/uiuadoc/internal/frontend"
)

type FragmentKind int

const (
	// FragmentPlain is text the classifier did not cover.
	FragmentPlain FragmentKind = iota
	// FragmentBreak marks a line with no content.
	FragmentBreak
	// FragmentSpan is classified text.
	FragmentSpan
)

// Fragment is one rendering unit of a code line.
type Fragment struct {
	Kind     FragmentKind
	Text     string
	SpanKind frontend.SpanKind
}

// Line is an ordered list of fragments making up one source line.
type Line []Fragment

type options struct {
	context string
}

// Option configures Tokenize.
type Option func(*options)

// WithContext classifies code behind a prefix, typically the library's main
// file, so that references in code resolve. The prefix lines are not part of
// the result.
func WithContext(prefix string) Option {
	return func(o *options) {
		o.context = prefix
	}
}

type lineBuilder struct {
	lines []Line
}

func (b *lineBuilder) line() *Line {
	return &b.lines[len(b.lines)-1]
}

func (b *lineBuilder) push(f Fragment) {
	l := b.line()
	*l = append(*l, f)
}

// pushText appends to the trailing plain fragment of the current line.
func (b *lineBuilder) pushText(s string) {
	l := b.line()
	if n := len(*l); n > 0 && (*l)[n-1].Kind == FragmentPlain {
		(*l)[n-1].Text += s
		return
	}
	b.push(Fragment{Kind: FragmentPlain, Text: s})
}

func (b *lineBuilder) newLine() {
	if len(*b.line()) == 0 {
		b.push(Fragment{Kind: FragmentBreak})
	}
	b.lines = append(b.lines, nil)
}

// Tokenize splits code into lines of fragments using the classifier's span
// stream. Span positions are grapheme cluster offsets, so code is segmented
// into grapheme clusters before slicing.
func Tokenize(code string, classifier frontend.Classifier, opts ...Option) []Line {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	text := code
	if o.context != "" {
		text = o.context + "\n\n" + code
	}
	chars := graphemes(text)

	b := &lineBuilder{lines: []Line{nil}}
	pos := 0

	plain := func(target int) {
		target = min(target, len(chars))
		if pos >= target {
			return
		}
		b.push(Fragment{Kind: FragmentPlain})
		var pending strings.Builder
		for pos < target {
			if !isLineBreak(chars[pos]) {
				pending.WriteString(chars[pos])
				pos++
				continue
			}
			if pending.Len() > 0 {
				b.pushText(pending.String())
				pending.Reset()
			}
			b.newLine()
			pos++
			for pos < target && isLineBreak(chars[pos]) {
				b.newLine()
				pos++
			}
			b.push(Fragment{Kind: FragmentPlain})
		}
		if pending.Len() > 0 {
			b.pushText(pending.String())
		}
		b.push(Fragment{Kind: FragmentPlain})
	}

	for _, span := range classifier.Classify(text) {
		start := min(max(span.Start, 0), len(chars))
		end := min(max(span.End, start), len(chars))
		plain(start)

		spanText := strings.Join(chars[start:end], "")
		if n := newlineCount(spanText); n > 0 {
			for range n {
				b.newLine()
			}
		} else {
			for i, line := range lines(spanText) {
				if i > 0 {
					b.newLine()
				}
				b.push(Fragment{Kind: FragmentSpan, Text: line, SpanKind: span.Kind})
			}
		}
		pos = end
	}
	plain(len(chars))

	out := make([]Line, 0, len(b.lines))
	for _, line := range b.lines {
		kept := Line{}
		for _, f := range line {
			if f.Kind == FragmentPlain && f.Text == "" {
				continue
			}
			kept = append(kept, f)
		}
		out = append(out, kept)
	}

	if count := len(lines(code)); len(out) > count {
		out = out[len(out)-count:]
	}
	return out
}

func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// isLineBreak reports whether a grapheme cluster ends a line. "\r\n" is a
// single cluster.
func isLineBreak(c string) bool {
	return c == "\n" || c == "\r\n"
}

// newlineCount returns the number of line breaks in s when s consists only of
// line breaks, and 0 otherwise.
func newlineCount(s string) int {
	if s == "" || strings.Trim(s, "\r\n") != "" {
		return 0
	}
	return strings.Count(s, "\n")
}

// lines splits s into lines. A trailing newline does not start another line
// and a carriage return before a newline is dropped.
func lines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	if parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts
}
