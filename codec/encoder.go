package codec

import (
	"io"
	"strconv"

	"github.com/gridfold/ods/sheet"
)

// ValueRenderer turns a typed cell value into the display text emitted
// inside a content cell. The codec never interprets the returned text.
type ValueRenderer interface {
	Render(v sheet.Value, styleName string) string
}

// EncoderOption configures an Encoder.
type EncoderOption func(*Encoder)

// WithRenderer injects the display-text renderer. Without it a plain
// locale-free rendering is used.
func WithRenderer(r ValueRenderer) EncoderOption {
	return func(e *Encoder) {
		if r != nil {
			e.renderer = r
		}
	}
}

// Encoder writes sheets as run-length-compressed ODF table XML: one
// forward pass over the grid in row-major order, collapsing runs of
// identical rows, columns, and empty cells into repeat counts while
// honoring header-range boundaries and merged-cell coverage.
type Encoder struct {
	w        *tokenWriter
	renderer ValueRenderer
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer, opts ...EncoderOption) *Encoder {
	e := &Encoder{
		w:        newTokenWriter(w),
		renderer: plainRenderer{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// scanState is the mutable bookkeeping threaded through one encode
// pass: the position of the previously emitted cell, whether any cell
// has been emitted yet, the active merged regions, and whether a
// header-rows marker is currently open.
type scanState struct {
	lastRow, lastCol int
	firstCell        bool
	inHeader         bool
	spans            spanTracker
}

// gridItem buffers one grid entry so the scan can peek at the next
// occupied position without backtracking.
type gridItem struct {
	pos  sheet.Position
	cell *sheet.Cell
}

// WriteSheet emits one complete table element for s and flushes the
// underlying stream.
func (e *Encoder) WriteSheet(s *sheet.Sheet) error {
	attrs := []attr{{qAttrName, s.Name}}
	if s.Style != "" {
		attrs = append(attrs, attr{qAttrStyleName, s.Style})
	}
	if s.PrintRanges != "" {
		attrs = append(attrs, attr{qAttrPrintRanges, s.PrintRanges})
	}
	e.w.start(qTable, attrs...)

	rows, cols := s.UsedExtent()
	e.writeColumns(s, cols)
	e.writeRows(s, rows, cols)

	e.w.end(qTable)
	return e.w.flush()
}

// writeColumns emits the column header pass: one token per run of
// identically-styled columns, with the header-columns marker opened
// and closed at the recorded extent bounds. Runs never cross a marker
// boundary.
func (e *Encoder) writeColumns(s *sheet.Sheet, cols int) {
	hc := s.HeaderColumns
	runStart := 0
	var runMeta sheet.ColMeta

	flush := func(end int) {
		if end <= runStart {
			return
		}
		attrs := colAttrs(runMeta)
		if n := end - runStart; n > 1 {
			attrs = append(attrs, attr{qAttrColsRepeated, strconv.Itoa(n)})
		}
		e.w.empty(qTableColumn, attrs...)
		runStart = end
	}

	open := false
	for col := 0; col < cols; col++ {
		if hc != nil && col == hc.From {
			flush(col)
			e.w.start(qHeaderCols)
			open = true
		}
		meta := s.ColMetaAt(col)
		if col == runStart {
			runMeta = meta
		} else if meta != runMeta {
			flush(col)
			runMeta = meta
		}
		if hc != nil && col == hc.To {
			flush(col + 1)
			e.w.end(qHeaderCols)
			open = false
		}
	}
	flush(cols)
	if open {
		e.w.end(qHeaderCols)
	}
}

// writeRows emits the row/cell pass: every occupied position in
// row-major order plus one virtual end-of-stream position at the used
// extent, with skipped rows collapsed into repeated empty-row blocks.
func (e *Encoder) writeRows(s *sheet.Sheet, rows, cols int) {
	if rows == 0 {
		return
	}

	st := &scanState{firstCell: true}

	var pending *gridItem
	s.Grid().Walk(func(pos sheet.Position, c *sheet.Cell) bool {
		if pending != nil {
			e.step(s, st, pending, pos, false, cols)
		}
		pending = &gridItem{pos: pos, cell: c}
		return true
	})

	if pending != nil {
		e.step(s, st, pending, sheet.Position{Row: rows, Col: cols}, true, cols)
		// Rows past the last occupied position exist only through
		// metadata or header ranges; pad them out.
		if pending.pos.Row+1 < rows {
			e.writeEmptyRows(s, st, pending.pos.Row+1, rows, cols)
		}
	} else {
		// No occupied cells at all, yet a non-zero extent: the sheet
		// carries row/column metadata or header ranges.
		e.writeEmptyRows(s, st, 0, rows, cols)
	}

	if st.inHeader {
		e.w.end(qHeaderRows)
		st.inHeader = false
	}
}

// step emits everything owed for one occupied position: closing the
// previous row, collapsing skipped empty rows, opening the new row,
// the cell token itself, and trailing filler up to the next occupied
// position.
func (e *Encoder) step(s *sheet.Sheet, st *scanState, cur *gridItem, next sheet.Position, final bool, cols int) {
	backRowGap := cur.pos.Row - st.lastRow

	if backRowGap > 0 && !st.firstCell {
		e.closeRow(s, st, st.lastRow)
	}
	if backRowGap > 0 {
		start := st.lastRow + 1
		if st.firstCell {
			start = 0
		}
		e.writeEmptyRows(s, st, start, cur.pos.Row, cols)
	}
	st.spans.prune(cur.pos.Row)

	if backRowGap > 0 || st.firstCell {
		e.openRow(s, st, cur.pos.Row)
		if cur.pos.Col > 0 {
			e.writeGapCells(st, cur.pos.Row, 0, cur.pos.Col)
		}
	}

	covered, _ := st.spans.check(cur.pos.Row, cur.pos.Col)

	e.writeCell(cur.cell, covered)

	// Register the cell's own merge region before emitting filler so
	// the region's same-row columns come out covered.
	if !covered && cur.cell.IsMerged() {
		st.spans.register(cur.pos.Row, cur.pos.Col, cur.cell.RowSpan, cur.cell.ColSpan)
	}

	forwardColGap := next.Col - cur.pos.Col
	if next.Row-cur.pos.Row >= 1 {
		forwardColGap = cols - cur.pos.Col
	}
	if fill := forwardColGap - 1; fill > 0 {
		e.writeGapCells(st, cur.pos.Row, cur.pos.Col+1, cur.pos.Col+1+fill)
	}

	if final {
		e.closeRow(s, st, cur.pos.Row)
	}

	st.lastRow, st.lastCol, st.firstCell = cur.pos.Row, cur.pos.Col, false
}

// openRow starts a row token, opening the header-rows marker first
// when the row is the start of the declared header range.
func (e *Encoder) openRow(s *sheet.Sheet, st *scanState, row int) {
	if hr := s.HeaderRows; hr != nil && !st.inHeader && hr.Contains(row) {
		e.w.start(qHeaderRows)
		st.inHeader = true
	}
	e.w.start(qTableRow, rowAttrs(s.RowMetaAt(row))...)
}

// closeRow ends a row token, closing the header-rows marker when the
// row is the last row of the declared header range.
func (e *Encoder) closeRow(s *sheet.Sheet, st *scanState, row int) {
	e.w.end(qTableRow)
	if hr := s.HeaderRows; hr != nil && st.inHeader && row >= hr.To {
		e.w.end(qHeaderRows)
		st.inHeader = false
	}
}

// writeEmptyRows emits the fully-empty rows [start, end), each filled
// out to cols with a single repeated empty-cell token. A header-row
// range that starts or ends strictly inside the block splits the
// emission around the boundary; rows with distinct metadata split
// into separate runs.
func (e *Encoder) writeEmptyRows(s *sheet.Sheet, st *scanState, start, end, cols int) {
	hr := s.HeaderRows
	for start < end {
		stop := end
		if hr != nil {
			switch {
			case start < hr.From:
				if hr.From < stop {
					stop = hr.From
				}
			case start <= hr.To:
				if !st.inHeader {
					e.w.start(qHeaderRows)
					st.inHeader = true
				}
				if hr.To+1 < stop {
					stop = hr.To + 1
				}
			}
		}
		e.writeEmptyRun(s, st, start, stop, cols)
		if hr != nil && st.inHeader && stop > hr.To {
			e.w.end(qHeaderRows)
			st.inHeader = false
		}
		start = stop
	}
}

// writeEmptyRun emits [start, stop) as empty-row tokens, one per run
// of rows sharing identical metadata. Rows still crossed by an active
// merge region are emitted individually so their covered positions
// keep the covered tag.
func (e *Encoder) writeEmptyRun(s *sheet.Sheet, st *scanState, start, stop, cols int) {
	for start < stop {
		st.spans.prune(start)
		if len(st.spans.active) == 0 {
			// No region can reach this or any later row of the run:
			// registrations only happen on occupied rows, and there
			// are none until stop.
			meta := s.RowMetaAt(start)
			n := 1
			for start+n < stop && s.RowMetaAt(start+n) == meta {
				n++
			}
			attrs := rowAttrs(meta)
			if n > 1 {
				attrs = append(attrs, attr{qAttrRowsRepeated, strconv.Itoa(n)})
			}
			e.w.start(qTableRow, attrs...)
			e.writeEmptyCells(cols)
			e.w.end(qTableRow)
			start += n
			continue
		}

		e.w.start(qTableRow, rowAttrs(s.RowMetaAt(start))...)
		e.writeGapCells(st, start, 0, cols)
		e.w.end(qTableRow)
		start++
	}
}

// writeGapCells fills the positions [from, to) of a row with repeated
// empty or covered tokens according to the active merge regions.
func (e *Encoder) writeGapCells(st *scanState, row, from, to int) {
	for from < to {
		if covered, remaining := st.spans.check(row, from); covered {
			n := remaining + 1
			if from+n > to {
				n = to - from
			}
			e.writeCoveredCells(n)
			from += n
			continue
		}
		n := 1
		for from+n < to {
			if covered, _ := st.spans.check(row, from+n); covered {
				break
			}
			n++
		}
		e.writeEmptyCells(n)
		from += n
	}
}

// writeCell emits one cell token. Covered cells carry no content of
// their own.
func (e *Encoder) writeCell(c *sheet.Cell, covered bool) {
	if covered {
		e.w.empty(qCoveredCell)
		return
	}

	attrs := make([]attr, 0, 8)
	if c.Style != "" {
		attrs = append(attrs, attr{qAttrStyleName, c.Style})
	}
	if c.Formula != "" {
		attrs = append(attrs, attr{qAttrFormula, c.Formula})
	}
	if c.RowSpan > 1 {
		attrs = append(attrs, attr{qAttrRowsSpanned, strconv.Itoa(c.RowSpan)})
	}
	if c.ColSpan > 1 {
		attrs = append(attrs, attr{qAttrColsSpanned, strconv.Itoa(c.ColSpan)})
	}

	v := c.Value
	switch v.Kind() {
	case sheet.KindEmpty:
		// Style- or formula-only cell.
	case sheet.KindText, sheet.KindRichText:
		attrs = append(attrs, attr{qAttrValueType, "string"})
	case sheet.KindFloat:
		attrs = append(attrs,
			attr{qAttrValueType, "float"},
			attr{qAttrValue, formatFloat(v.Float())})
	case sheet.KindPercentage:
		attrs = append(attrs,
			attr{qAttrValueType, "percentage"},
			attr{qAttrValue, formatFloat(v.Float())})
	case sheet.KindCurrency:
		attrs = append(attrs,
			attr{qAttrValueType, "currency"},
			attr{qAttrValue, formatFloat(v.Float())})
		if v.CurrencyCode() != "" {
			attrs = append(attrs, attr{qAttrCurrency, v.CurrencyCode()})
		}
	case sheet.KindBool:
		b := "false"
		if v.Bool() {
			b = "true"
		}
		attrs = append(attrs,
			attr{qAttrValueType, "boolean"},
			attr{qAttrBoolValue, b})
	case sheet.KindDateTime:
		attrs = append(attrs,
			attr{qAttrValueType, "date"},
			attr{qAttrDateValue, formatDateTime(v.Time())})
	case sheet.KindDuration:
		attrs = append(attrs,
			attr{qAttrValueType, "time"},
			attr{qAttrTimeValue, formatISODuration(v.Duration())})
	}

	if v.IsEmpty() {
		e.w.empty(qTableCell, attrs...)
		return
	}

	e.w.start(qTableCell, attrs...)
	if v.Kind() == sheet.KindRichText {
		for _, p := range v.Paragraphs() {
			e.w.start(qTextP)
			e.w.text(p)
			e.w.end(qTextP)
		}
	} else {
		e.w.start(qTextP)
		e.w.text(e.renderer.Render(v, c.Style))
		e.w.end(qTextP)
	}
	e.w.end(qTableCell)
}

// writeEmptyCells emits n empty positions as one repeated token.
func (e *Encoder) writeEmptyCells(n int) {
	if n <= 0 {
		return
	}
	if n == 1 {
		e.w.empty(qTableCell)
		return
	}
	e.w.empty(qTableCell, attr{qAttrColsRepeated, strconv.Itoa(n)})
}

// writeCoveredCells emits n covered positions as one repeated token.
func (e *Encoder) writeCoveredCells(n int) {
	if n <= 0 {
		return
	}
	if n == 1 {
		e.w.empty(qCoveredCell)
		return
	}
	e.w.empty(qCoveredCell, attr{qAttrColsRepeated, strconv.Itoa(n)})
}

// colAttrs serializes column metadata.
func colAttrs(m sheet.ColMeta) []attr {
	attrs := make([]attr, 0, 3)
	if m.Style != "" {
		attrs = append(attrs, attr{qAttrStyleName, m.Style})
	}
	if m.DefaultCellStyle != "" {
		attrs = append(attrs, attr{qAttrDefaultCell, m.DefaultCellStyle})
	}
	if m.Visibility != "" {
		attrs = append(attrs, attr{qAttrVisibility, m.Visibility})
	}
	return attrs
}

// rowAttrs serializes row metadata.
func rowAttrs(m sheet.RowMeta) []attr {
	attrs := make([]attr, 0, 3)
	if m.Style != "" {
		attrs = append(attrs, attr{qAttrStyleName, m.Style})
	}
	if m.DefaultCellStyle != "" {
		attrs = append(attrs, attr{qAttrDefaultCell, m.DefaultCellStyle})
	}
	if m.Visibility != "" {
		attrs = append(attrs, attr{qAttrVisibility, m.Visibility})
	}
	return attrs
}
