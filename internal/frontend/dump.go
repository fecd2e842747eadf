package frontend

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/rivo/uniseg"
)

// zstdMagic is the frame header of a zstd stream.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// DumpFile is one file of an assembly dump: its text plus what the compiler
// parsed and classified from it.
type DumpFile struct {
	Path   string       `json:"path"`
	Text   string       `json:"text"`
	Items  Items        `json:"items"`
	Errors []ParseError `json:"errors,omitempty"`
	Spans  []SpanEvent  `json:"spans,omitempty"`
}

// Dump is a compiled library as emitted by the compiler's assembly export.
// It implements Parser and Classifier by replaying what the compiler recorded.
type Dump struct {
	Main     string        `json:"main"`
	Bindings []BindingInfo `json:"bindings"`
	Files    []DumpFile    `json:"files"`

	program *Program
}

// LoadDump reads an assembly dump from disk. Plain JSON and zstd-compressed
// JSON are both accepted.
func LoadDump(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening assembly dump: %w", err)
	}
	defer f.Close()

	return DecodeDump(f)
}

// DecodeDump decodes an assembly dump, sniffing for zstd compression.
func DecodeDump(r io.Reader) (*Dump, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(zstdMagic))

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		decoder, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer decoder.Close()
		src = decoder
	}

	var d Dump
	if err := json.NewDecoder(src).Decode(&d); err != nil {
		return nil, fmt.Errorf("decoding assembly dump: %w", err)
	}
	return &d, nil
}

// SaveDump writes d as zstd-compressed JSON.
func SaveDump(d *Dump, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating dump file: %w", err)
	}
	defer f.Close()

	w, err := zstd.NewWriter(f)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	if err := json.NewEncoder(w).Encode(d); err != nil {
		w.Close()
		return fmt.Errorf("writing compressed dump: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing zstd writer: %w", err)
	}
	return nil
}

// Program returns the compiled program view of the dump.
func (d *Dump) Program() *Program {
	if d.program != nil {
		return d.program
	}
	files := make([]SourceFile, len(d.Files))
	for i, f := range d.Files {
		files[i] = SourceFile{Path: f.Path, Text: f.Text}
	}
	d.program = &Program{Main: d.Main, Bindings: d.Bindings, Files: files}
	return d.program
}

func (d *Dump) file(path string) *DumpFile {
	for i := range d.Files {
		if d.Files[i].Path == path {
			return &d.Files[i]
		}
	}
	return nil
}

// Parse returns the items the compiler parsed for file.
func (d *Dump) Parse(text, file string) ([]Item, []ParseError) {
	f := d.file(file)
	if f == nil {
		return nil, []ParseError{{Message: "file is not part of the assembly", Span: Span{File: file}}}
	}
	if f.Text != text {
		return nil, []ParseError{{Message: "file changed since the assembly was exported", Span: Span{File: file}}}
	}
	return f.Items, f.Errors
}

// Classify locates text inside one of the recorded files and returns the
// recorded spans that fall within it, rebased to text. Text assembled from
// several places, such as code behind a context prefix, is located one
// blank-line separated paragraph at a time. Text that does not occur
// verbatim in any file gets no spans.
func (d *Dump) Classify(text string) []SpanEvent {
	if spans, ok := d.locate(text); ok {
		return spans
	}

	var out []SpanEvent
	offset := 0
	for i, part := range strings.Split(text, "\n\n") {
		if i > 0 {
			offset += 2
		}
		// Context text usually ends in a newline, which leaves the next
		// paragraph with a leading one that the source may not have there.
		trimmed := strings.TrimLeft(part, "\n")
		offset += len(part) - len(trimmed)
		part = trimmed
		spans, _ := d.locate(strings.TrimRight(part, "\n"))
		for _, s := range spans {
			s.Start += offset
			s.End += offset
			out = append(out, s)
		}
		offset += uniseg.GraphemeClusterCount(part)
	}
	return out
}

func (d *Dump) locate(text string) ([]SpanEvent, bool) {
	if text == "" {
		return nil, false
	}
	for _, f := range d.Files {
		idx := strings.Index(f.Text, text)
		if idx < 0 {
			continue
		}
		start := uniseg.GraphemeClusterCount(f.Text[:idx])
		end := start + uniseg.GraphemeClusterCount(text)
		return sliceSpans(f.Spans, start, end), true
	}
	return nil, false
}

func sliceSpans(spans []SpanEvent, start, end int) []SpanEvent {
	var out []SpanEvent
	for _, s := range spans {
		if s.End <= start || s.Start >= end {
			continue
		}
		clipped := SpanEvent{
			Start: max(s.Start, start) - start,
			End:   min(s.End, end) - start,
			Kind:  s.Kind,
		}
		out = append(out, clipped)
	}
	return out
}
