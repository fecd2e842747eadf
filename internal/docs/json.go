package docs

import "encoding/json"

// Items and binding kinds encode with a "type" discriminator so the dump
// output can be told apart without Go type information.

func tagged[T any](kind string, v *T) ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value *T     `json:"value"`
	}{kind, v})
}

func (w *Words) MarshalJSON() ([]byte, error) {
	type words Words
	return tagged("words", (*words)(w))
}

func (b *Binding) MarshalJSON() ([]byte, error) {
	type binding Binding
	return tagged("binding", (*binding)(b))
}

func (m *Module) MarshalJSON() ([]byte, error) {
	type module Module
	return tagged("module", (*module)(m))
}

func (d *Data) MarshalJSON() ([]byte, error) {
	type data Data
	return tagged("data", (*data)(d))
}

func (v *Variant) MarshalJSON() ([]byte, error) {
	type variant Variant
	return tagged("variant", (*variant)(v))
}

func (i *Import) MarshalJSON() ([]byte, error) {
	type imp Import
	return tagged("import", (*imp)(i))
}

func (c *Constant) MarshalJSON() ([]byte, error) {
	type constant Constant
	return tagged("constant", (*constant)(c))
}

func (f *Function) MarshalJSON() ([]byte, error) {
	type function Function
	return tagged("function", (*function)(f))
}

func (m *IndexMacro) MarshalJSON() ([]byte, error) {
	type indexMacro IndexMacro
	return tagged("index_macro", (*indexMacro)(m))
}

func (m *CodeMacro) MarshalJSON() ([]byte, error) {
	type codeMacro CodeMacro
	return tagged("code_macro", (*codeMacro)(m))
}
