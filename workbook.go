// Package ods reads and writes OpenDocument Spreadsheet files: a ZIP
// container holding a mimetype marker, the table content, the style
// declarations, and document metadata. Sheets are decoded into sparse
// grids and re-encoded in run-length-compressed form by the codec
// package.
package ods

import (
	"github.com/gridfold/ods/sheet"
	"github.com/gridfold/ods/style"
)

// Metadata is the document-level description stored in meta.xml.
type Metadata struct {
	Title       string
	Subject     string
	Description string
	Creator     string
	Generator   string
}

// Workbook is one spreadsheet document: an ordered sequence of sheets
// plus the shared style table and metadata.
type Workbook struct {
	Sheets []*sheet.Sheet
	Styles *style.Table
	Meta   Metadata
}

// NewWorkbook returns an empty workbook.
func NewWorkbook() *Workbook {
	return &Workbook{Styles: style.NewTable()}
}

// AddSheet appends a new empty sheet with the given name and returns
// it.
func (w *Workbook) AddSheet(name string) *sheet.Sheet {
	s := sheet.New(name)
	w.Sheets = append(w.Sheets, s)
	return s
}

// Sheet returns the first sheet with the given name.
func (w *Workbook) Sheet(name string) (*sheet.Sheet, bool) {
	for _, s := range w.Sheets {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}

// SheetNames returns the sheet names in document order.
func (w *Workbook) SheetNames() []string {
	names := make([]string, len(w.Sheets))
	for i, s := range w.Sheets {
		names[i] = s.Name
	}
	return names
}
