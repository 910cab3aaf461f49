package sheet

// Range is an inclusive [From, To] range of row or column indices.
type Range struct {
	From, To int
}

// Contains reports whether i falls inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.From && i <= r.To
}

// RowMeta holds the metadata attached to a row independent of its
// cells. The zero value means "no metadata".
type RowMeta struct {
	Style            string
	DefaultCellStyle string
	Visibility       string
}

// ColMeta holds the metadata attached to a column. The zero value
// means "no metadata".
type ColMeta struct {
	Style            string
	DefaultCellStyle string
	Visibility       string
}

// Sheet is one named table: a sparse cell grid plus row/column
// metadata, optional header ranges, and sheet-level style references.
// A sheet exclusively owns its grid and metadata; sheets share nothing.
type Sheet struct {
	Name        string
	Style       string
	PrintRanges string

	// HeaderRows and HeaderColumns, when non-nil, mark at most one
	// contiguous range each of repeating header rows/columns.
	HeaderRows    *Range
	HeaderColumns *Range

	grid    *Grid
	rowMeta map[int]RowMeta
	colMeta map[int]ColMeta
}

// New returns an empty sheet with the given name.
func New(name string) *Sheet {
	return &Sheet{
		Name:    name,
		grid:    NewGrid(),
		rowMeta: make(map[int]RowMeta),
		colMeta: make(map[int]ColMeta),
	}
}

// Grid returns the sheet's cell grid.
func (s *Sheet) Grid() *Grid {
	return s.grid
}

// SetCell stores a cell at (row, col), replacing any existing cell.
func (s *Sheet) SetCell(row, col int, c Cell) {
	s.grid.Set(row, col, c)
}

// SetValue stores a bare value at (row, col).
func (s *Sheet) SetValue(row, col int, v Value) {
	s.grid.Set(row, col, Cell{Value: v})
}

// Cell returns the cell at (row, col), or false if unoccupied.
func (s *Sheet) Cell(row, col int) (*Cell, bool) {
	return s.grid.Cell(row, col)
}

// SetRowMeta attaches metadata to a row. Setting the zero value
// removes the entry.
func (s *Sheet) SetRowMeta(row int, m RowMeta) {
	if m == (RowMeta{}) {
		delete(s.rowMeta, row)
		return
	}
	s.rowMeta[row] = m
}

// RowMetaAt returns the metadata for a row; the zero value if none.
func (s *Sheet) RowMetaAt(row int) RowMeta {
	return s.rowMeta[row]
}

// SetColMeta attaches metadata to a column. Setting the zero value
// removes the entry.
func (s *Sheet) SetColMeta(col int, m ColMeta) {
	if m == (ColMeta{}) {
		delete(s.colMeta, col)
		return
	}
	s.colMeta[col] = m
}

// ColMetaAt returns the metadata for a column; the zero value if none.
func (s *Sheet) ColMetaAt(col int) ColMeta {
	return s.colMeta[col]
}

// UsedExtent returns the bounding (rows, cols) box that the encoder
// must cover: the grid's own extent widened by any row/column that
// carries metadata and by the declared header ranges.
func (s *Sheet) UsedExtent() (rows, cols int) {
	rows, cols = s.grid.UsedExtent()
	for r := range s.rowMeta {
		if r+1 > rows {
			rows = r + 1
		}
	}
	for c := range s.colMeta {
		if c+1 > cols {
			cols = c + 1
		}
	}
	if s.HeaderRows != nil && s.HeaderRows.To+1 > rows {
		rows = s.HeaderRows.To + 1
	}
	if s.HeaderColumns != nil && s.HeaderColumns.To+1 > cols {
		cols = s.HeaderColumns.To + 1
	}
	return rows, cols
}

// Equal reports whether two sheets have identical names, styles,
// header ranges, metadata, and grid contents.
func (s *Sheet) Equal(o *Sheet) bool {
	if s.Name != o.Name || s.Style != o.Style || s.PrintRanges != o.PrintRanges {
		return false
	}
	if !rangeEqual(s.HeaderRows, o.HeaderRows) || !rangeEqual(s.HeaderColumns, o.HeaderColumns) {
		return false
	}
	if len(s.rowMeta) != len(o.rowMeta) || len(s.colMeta) != len(o.colMeta) {
		return false
	}
	for r, m := range s.rowMeta {
		if o.rowMeta[r] != m {
			return false
		}
	}
	for c, m := range s.colMeta {
		if o.colMeta[c] != m {
			return false
		}
	}
	if s.grid.Len() != o.grid.Len() {
		return false
	}
	equal := true
	s.grid.Walk(func(pos Position, c *Cell) bool {
		oc, ok := o.grid.Cell(pos.Row, pos.Col)
		if !ok || !c.Equal(*oc) {
			equal = false
			return false
		}
		return true
	})
	return equal
}

func rangeEqual(a, b *Range) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
