package frontend

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const sampleDump = `{
  "main": "lib.ua",
  "bindings": [
    {"name": "Add", "span": {"file": "lib.ua", "start": {"line": 1, "col": 1, "char_pos": 0, "byte_pos": 0}, "end": {"line": 1, "col": 4, "char_pos": 3, "byte_pos": 3}},
     "public": true, "kind": {"type": "func", "signature": {"args": 2, "outputs": 1}}}
  ],
  "files": [
    {
      "path": "lib.ua",
      "text": "Add ← +\n# note",
      "items": [
        {"type": "binding", "name": {"value": "Add", "span": {"file": "lib.ua"}}, "span": {"file": "lib.ua"}},
        {"type": "words", "words": [{"span": {"file": "lib.ua"}}]},
        {"type": "module", "kind": "named", "name": {"value": "M"}, "items": [{"type": "import", "path": {"value": "x.ua"}}]},
        {"type": "data", "defs": [{"name": {"value": "D"}, "variant": false, "public": true, "constructor": true}]}
      ],
      "spans": [
        {"start": 0, "end": 3, "kind": {"type": "ident", "docs": {"kind": "function", "signature": {"args": 2, "outputs": 1}}}},
        {"start": 6, "end": 7, "kind": {"type": "primitive", "primitive": {"name": "add", "class": "arithmetic", "signature": {"args": 2, "outputs": 1}}}},
        {"start": 8, "end": 14, "kind": {"type": "comment"}}
      ]
    }
  ]
}`

func TestDecodeDump(t *testing.T) {
	t.Parallel()

	d, err := DecodeDump(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("DecodeDump: %v", err)
	}

	items, errs := d.Parse("Add ← +\n# note", "lib.ua")
	if len(errs) != 0 {
		t.Fatalf("Parse errors: %v", errs)
	}
	if len(items) != 4 {
		t.Fatalf("got %d items, want 4", len(items))
	}
	if _, ok := items[0].(*BindingItem); !ok {
		t.Errorf("item 0 is %T, want *BindingItem", items[0])
	}
	if _, ok := items[1].(*WordsItem); !ok {
		t.Errorf("item 1 is %T, want *WordsItem", items[1])
	}
	m, ok := items[2].(*ModuleItem)
	if !ok {
		t.Fatalf("item 2 is %T, want *ModuleItem", items[2])
	}
	if _, ok := m.Items[0].(*ImportItem); !ok || m.Kind != ModuleNamed {
		t.Errorf("module = %+v, want named module with an import", m)
	}
	data, ok := items[3].(*DataItem)
	if !ok || !data.Defs[0].Constructor {
		t.Errorf("item 3 = %+v, want data item with constructor", items[3])
	}

	p := d.Program()
	if !p.IsMain("./lib.ua") {
		t.Error("IsMain(./lib.ua) = false, want true")
	}
	if got := p.Text(p.Bindings[0].Span); got != "Add" {
		t.Errorf("Text(binding span) = %q, want %q", got, "Add")
	}
}

func TestDecodeDump_UnknownItem(t *testing.T) {
	t.Parallel()

	_, err := DecodeDump(strings.NewReader(`{"files": [{"path": "a.ua", "items": [{"type": "bogus"}]}]}`))
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Errorf("got error %v, want unknown item type", err)
	}
}

func TestDumpParse_Errors(t *testing.T) {
	t.Parallel()

	d, err := DecodeDump(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("DecodeDump: %v", err)
	}

	tests := []struct {
		name string
		text string
		file string
	}{
		{"unknown file", "", "missing.ua"},
		{"changed text", "Add ← -", "lib.ua"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, errs := d.Parse(tt.text, tt.file); len(errs) == 0 {
				t.Error("Parse succeeded, want an error")
			}
		})
	}
}

func TestDumpClassify(t *testing.T) {
	t.Parallel()

	d, err := DecodeDump(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("DecodeDump: %v", err)
	}

	// "← +" starts at grapheme 4; only the primitive span falls inside it.
	got := d.Classify("← +")
	want := []SpanEvent{{
		Start: 2, End: 3,
		Kind: SpanKind{Type: SpanPrimitive, Primitive: &Primitive{
			Name: "add", Class: "arithmetic", Signature: &Signature{Args: 2, Outputs: 1},
		}},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}

	if got := d.Classify("not in any file"); got != nil {
		t.Errorf("Classify(unknown) = %v, want nil", got)
	}
}

func TestDumpClassify_Paragraphs(t *testing.T) {
	t.Parallel()

	d, err := DecodeDump(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("DecodeDump: %v", err)
	}

	// The whole file is 14 graphemes, followed by the two-newline separator.
	got := d.Classify("Add ← +\n# note\n\n← +")
	if len(got) != 4 {
		t.Fatalf("got %d spans, want 4: %+v", len(got), got)
	}
	last := got[3]
	if last.Start != 18 || last.End != 19 || last.Kind.Type != SpanPrimitive {
		t.Errorf("last span = %+v, want primitive at 18..19", last)
	}
}

func TestDumpClassify_AfterContext(t *testing.T) {
	t.Parallel()

	ident := SpanKind{Type: SpanIdent}
	prim := SpanKind{Type: SpanPrimitive}
	file := "Add ← +\nSub ← -\n"
	d := &Dump{Files: []DumpFile{{
		Path: "lib.ua",
		Text: file,
		Spans: []SpanEvent{
			{Start: 0, End: 3, Kind: ident},
			{Start: 6, End: 7, Kind: prim},
			{Start: 8, End: 11, Kind: ident},
			{Start: 14, End: 15, Kind: prim},
		},
	}}}

	tests := []struct {
		name string
		code string
		want []SpanEvent
	}{
		{
			name: "first binding of the file",
			code: "Add ← +",
			want: []SpanEvent{
				{Start: 18, End: 21, Kind: ident},
				{Start: 24, End: 25, Kind: prim},
			},
		},
		{
			name: "mid-line fragment",
			code: "← -",
			want: []SpanEvent{{Start: 20, End: 21, Kind: prim}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := d.Classify(file + "\n\n" + tt.code)
			if len(got) < 4 {
				t.Fatalf("got %d spans, want the context spans first: %+v", len(got), got)
			}
			if diff := cmp.Diff(tt.want, got[4:]); diff != "" {
				t.Errorf("code spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveLoadDump(t *testing.T) {
	t.Parallel()

	d, err := DecodeDump(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("DecodeDump: %v", err)
	}

	path := filepath.Join(t.TempDir(), "assembly.json.zst")
	if err := SaveDump(d, path); err != nil {
		t.Fatalf("SaveDump: %v", err)
	}
	loaded, err := LoadDump(path)
	if err != nil {
		t.Fatalf("LoadDump: %v", err)
	}
	if loaded.Main != "lib.ua" || len(loaded.Files) != 1 || len(loaded.Files[0].Spans) != 3 {
		t.Errorf("loaded dump = %+v, want the saved dump", loaded)
	}
}

func TestSpanMerge(t *testing.T) {
	t.Parallel()

	a := Span{File: "f", Start: Loc{Line: 1, BytePos: 0}, End: Loc{Line: 1, BytePos: 3}}
	b := Span{File: "f", Start: Loc{Line: 2, BytePos: 5}, End: Loc{Line: 2, BytePos: 9}}

	got := a.Merge(b)
	want := Span{File: "f", Start: a.Start, End: b.End}
	if got != want {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
	if got := b.Merge(a); got != want {
		t.Errorf("reverse Merge = %+v, want %+v", got, want)
	}
}
