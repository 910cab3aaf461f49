// Package style holds the named style tables of a document. The codec
// treats style names as opaque strings; this package resolves them to
// the data-style patterns the value renderer needs. Tables are built
// once and passed by reference, never consulted as global state.
package style

import (
	"github.com/gridfold/ods/numfmt"
)

// Style is one named cell, row, column, or table style.
type Style struct {
	Name      string
	Family    string // table-cell, table-row, table-column, table
	Parent    string
	DataStyle string // name of the data style formatting the value
}

// Table is a read-only lookup of styles and data-style patterns.
type Table struct {
	styles map[string]Style
	data   map[string]numfmt.Pattern
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		styles: make(map[string]Style),
		data:   make(map[string]numfmt.Pattern),
	}
}

// Add records a named style, replacing any previous entry.
func (t *Table) Add(s Style) {
	t.styles[s.Name] = s
}

// AddDataStyle records the pattern for a data-style name.
func (t *Table) AddDataStyle(name string, p numfmt.Pattern) {
	t.data[name] = p
}

// Lookup returns the style with the given name.
func (t *Table) Lookup(name string) (Style, bool) {
	s, ok := t.styles[name]
	return s, ok
}

// Len returns the number of named styles.
func (t *Table) Len() int {
	return len(t.styles)
}

// PatternFor resolves a cell style name to its data-style pattern,
// following the parent chain when the style itself names none.
func (t *Table) PatternFor(styleName string) (numfmt.Pattern, bool) {
	seen := 0
	for styleName != "" && seen < 16 {
		s, ok := t.styles[styleName]
		if !ok {
			return numfmt.Pattern{}, false
		}
		if s.DataStyle != "" {
			p, ok := t.data[s.DataStyle]
			return p, ok
		}
		styleName = s.Parent
		seen++
	}
	return numfmt.Pattern{}, false
}

// RendererOptions returns one renderer pattern registration per cell
// style that resolves to a data style.
func (t *Table) RendererOptions() []numfmt.Option {
	var opts []numfmt.Option
	for name := range t.styles {
		if p, ok := t.PatternFor(name); ok {
			opts = append(opts, numfmt.WithPattern(name, p))
		}
	}
	return opts
}
