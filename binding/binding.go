// Package binding resolves template value bindings against named data
// sources.
//
// A Binding either carries a static literal or names a (source, key) pair.
// Sources are either key-value maps or ordered tables; inside a table body
// the active row takes precedence over the source's own rows, so body cells
// read the row currently being instantiated.
package binding

import (
	"encoding/json"
	"fmt"
)

// Binding associates a template target with a value. Exactly one variant is
// set: Static for literals, Source/Key for data lookups.
type Binding struct {
	Static *string `json:"static,omitempty"`
	Source string  `json:"source,omitempty"`
	Key    string  `json:"key,omitempty"`
}

// StaticBinding returns a literal binding.
func StaticBinding(text string) Binding {
	return Binding{Static: &text}
}

// DataBinding returns a source lookup binding.
func DataBinding(source, key string) Binding {
	return Binding{Source: source, Key: key}
}

// IsStatic reports whether the binding is a literal.
func (b Binding) IsStatic() bool {
	return b.Static != nil
}

// Validate checks the data-binding invariant: a lookup needs a non-empty key.
func (b Binding) Validate() error {
	if b.IsStatic() {
		return nil
	}
	if b.Key == "" {
		return fmt.Errorf("binding: data binding on source %q has empty key", b.Source)
	}
	return nil
}

// Table is an ordered tabular source: a header list plus row records keyed
// by header name.
type Table struct {
	Headers []string            `json:"headers"`
	Rows    []map[string]string `json:"rows"`
}

// Sources is the set of named data sources for one render. Exactly one
// key-value source named "meta" is mandatory per render; the renderer
// enforces that.
type Sources struct {
	kv     map[string]map[string]string
	tables map[string]*Table
}

// MetaSource is the name of the mandatory key-value source.
const MetaSource = "meta"

// NewSources returns an empty source set.
func NewSources() *Sources {
	return &Sources{
		kv:     make(map[string]map[string]string),
		tables: make(map[string]*Table),
	}
}

// AddKV registers a key-value source under name.
func (s *Sources) AddKV(name string, fields map[string]string) {
	s.kv[name] = fields
}

// AddTable registers a tabular source under name.
func (s *Sources) AddTable(name string, headers []string, rows []map[string]string) {
	s.tables[name] = &Table{Headers: headers, Rows: rows}
}

// KV returns the named key-value source.
func (s *Sources) KV(name string) (map[string]string, bool) {
	fields, ok := s.kv[name]
	return fields, ok
}

// Table returns the named tabular source.
func (s *Sources) Table(name string) (*Table, bool) {
	tbl, ok := s.tables[name]
	return tbl, ok
}

// Meta returns the mandatory key-value source, if present.
func (s *Sources) Meta() (map[string]string, bool) {
	return s.KV(MetaSource)
}

// TableNames returns the names of all registered tabular sources.
func (s *Sources) TableNames() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	return names
}

// Resolve resolves a binding to a string. When a row context is active
// (row != nil) and the binding targets rowSource, the value comes from the
// active row. Otherwise key-value sources resolve directly and tabular
// sources fall back to their first row, which keeps non-repeating previews
// of tabular fields working. Unknown sources and keys resolve to "".
func (s *Sources) Resolve(b Binding, row map[string]string, rowSource string) string {
	if b.IsStatic() {
		return *b.Static
	}
	if row != nil && b.Source == rowSource {
		return row[b.Key]
	}
	if fields, ok := s.kv[b.Source]; ok {
		return fields[b.Key]
	}
	if tbl, ok := s.tables[b.Source]; ok {
		if len(tbl.Rows) == 0 {
			return ""
		}
		return tbl.Rows[0][b.Key]
	}
	return ""
}

// UnmarshalJSON accepts either a bare string (shorthand for a static
// binding) or the object form.
func (b *Binding) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*b = StaticBinding(text)
		return nil
	}
	type plain Binding
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = Binding(p)
	return nil
}
