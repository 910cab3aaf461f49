// Package htmltable converts between HTML tables and sheets. Import
// walks the parsed node tree and turns every table element into a
// sheet; Export renders a sheet back as an HTML table. Merged regions
// map to rowspan/colspan attributes in both directions.
package htmltable

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/gridfold/ods/numfmt"
	"github.com/gridfold/ods/sheet"
)

// ValueRenderer turns a typed value into the cell text written on
// export.
type ValueRenderer interface {
	Render(v sheet.Value, styleName string) string
}

// Import parses HTML and returns one sheet per table element, in
// document order. Sheets are named from the table caption when
// present, "Table N" otherwise. A thead section becomes the sheet's
// header-row range; cell text that parses as a number becomes a float
// value.
func Import(r io.Reader) ([]*sheet.Sheet, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	var sheets []*sheet.Sheet
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "table" {
			sheets = append(sheets, importTable(n, len(sheets)+1))
			// Nested tables become their own sheets.
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return sheets, nil
}

// importTable builds one sheet from a table node.
func importTable(tableNode *html.Node, ordinal int) *sheet.Sheet {
	s := sheet.New(fmt.Sprintf("Table %d", ordinal))

	st := &importState{s: s, covered: make(map[sheet.Position]bool)}
	for c := tableNode.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "caption":
			if text := textContent(c); text != "" {
				s.Name = text
			}
		case "thead":
			from := st.row
			st.importRows(c)
			if st.row > from {
				s.HeaderRows = &sheet.Range{From: from, To: st.row - 1}
			}
		case "tbody", "tfoot":
			st.importRows(c)
		case "tr":
			st.importRow(c)
		}
	}
	return s
}

// importState places cells left to right, skipping positions covered
// by earlier rowspans.
type importState struct {
	s       *sheet.Sheet
	row     int
	covered map[sheet.Position]bool
}

func (st *importState) importRows(section *html.Node) {
	for c := section.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == "tr" {
			st.importRow(c)
		}
	}
}

func (st *importState) importRow(tr *html.Node) {
	col := 0
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		for st.covered[sheet.Position{Row: st.row, Col: col}] {
			col++
		}

		cell := sheet.Cell{Value: importValue(textContent(c)), RowSpan: 1, ColSpan: 1}
		for _, attr := range c.Attr {
			switch attr.Key {
			case "rowspan":
				if n, err := strconv.Atoi(attr.Val); err == nil && n > 1 {
					cell.RowSpan = n
				}
			case "colspan":
				if n, err := strconv.Atoi(attr.Val); err == nil && n > 1 {
					cell.ColSpan = n
				}
			}
		}

		if !cell.Value.IsEmpty() || cell.IsMerged() {
			st.s.SetCell(st.row, col, cell)
		}
		for r := 0; r < cell.RowSpan; r++ {
			for cc := 0; cc < cell.ColSpan; cc++ {
				if r == 0 && cc == 0 {
					continue
				}
				st.covered[sheet.Position{Row: st.row + r, Col: col + cc}] = true
			}
		}
		col += cell.ColSpan
	}
	st.row++
}

// importValue types a cell's text: numbers become floats, trailing %
// becomes a percentage, anything else stays text.
func importValue(text string) sheet.Value {
	if text == "" {
		return sheet.Empty()
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return sheet.Float(f)
	}
	if strings.HasSuffix(text, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(text, "%")), 64); err == nil {
			return sheet.Percentage(f / 100)
		}
	}
	return sheet.Text(text)
}

// textContent extracts the flattened text of a node, br becoming a
// newline.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			sb.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}

// ExportOption configures Export.
type ExportOption func(*exporter)

// WithRenderer sets the value renderer used for cell text.
func WithRenderer(r ValueRenderer) ExportOption {
	return func(e *exporter) {
		if r != nil {
			e.renderer = r
		}
	}
}

type exporter struct {
	renderer ValueRenderer
}

// Export writes the sheet as one HTML table element. Header rows come
// out inside thead with th cells; merged regions become rowspan and
// colspan attributes, and covered positions are omitted.
func Export(w io.Writer, s *sheet.Sheet, opts ...ExportOption) error {
	e := &exporter{renderer: numfmt.NewRenderer()}
	for _, opt := range opts {
		opt(e)
	}

	var sb strings.Builder
	sb.WriteString("<table>")
	if s.Name != "" {
		sb.WriteString("<caption>")
		sb.WriteString(html.EscapeString(s.Name))
		sb.WriteString("</caption>")
	}

	rows, cols := s.UsedExtent()
	covered := make(map[sheet.Position]bool)

	hr := s.HeaderRows
	inHead := false
	for row := 0; row < rows; row++ {
		if hr != nil && row == hr.From {
			sb.WriteString("<thead>")
			inHead = true
		}
		sb.WriteString("<tr>")
		for col := 0; col < cols; col++ {
			if covered[sheet.Position{Row: row, Col: col}] {
				continue
			}
			tag := "td"
			if inHead {
				tag = "th"
			}
			c, ok := s.Cell(row, col)
			if !ok {
				sb.WriteString("<" + tag + "></" + tag + ">")
				continue
			}
			sb.WriteString("<" + tag)
			if c.RowSpan > 1 {
				fmt.Fprintf(&sb, ` rowspan="%d"`, c.RowSpan)
			}
			if c.ColSpan > 1 {
				fmt.Fprintf(&sb, ` colspan="%d"`, c.ColSpan)
			}
			sb.WriteByte('>')
			sb.WriteString(html.EscapeString(e.renderer.Render(c.Value, c.Style)))
			sb.WriteString("</" + tag + ">")

			for r := 0; r < c.RowSpan; r++ {
				for cc := 0; cc < c.ColSpan; cc++ {
					if r == 0 && cc == 0 {
						continue
					}
					covered[sheet.Position{Row: row + r, Col: col + cc}] = true
				}
			}
		}
		sb.WriteString("</tr>")
		if hr != nil && inHead && row == hr.To {
			sb.WriteString("</thead>")
			inHead = false
		}
	}
	if inHead {
		sb.WriteString("</thead>")
	}
	sb.WriteString("</table>")

	_, err := io.WriteString(w, sb.String())
	return err
}
