package sheet

// Cell is one occupied grid position: a value plus the optional
// formula, style reference, and merge extents attached to it.
// The formula is an opaque, unparsed string; the style is a name
// resolved against the workbook style table.
type Cell struct {
	Value   Value
	Formula string
	Style   string
	RowSpan int
	ColSpan int
}

// IsMerged reports whether the cell spans more than one grid position.
func (c Cell) IsMerged() bool {
	return c.RowSpan > 1 || c.ColSpan > 1
}

// normalize clamps the merge extents to at least 1x1.
func (c *Cell) normalize() {
	if c.RowSpan < 1 {
		c.RowSpan = 1
	}
	if c.ColSpan < 1 {
		c.ColSpan = 1
	}
}

// Equal reports whether two cells have identical content, style, and
// merge extents.
func (c Cell) Equal(o Cell) bool {
	return c.Value.Equal(o.Value) &&
		c.Formula == o.Formula &&
		c.Style == o.Style &&
		c.RowSpan == o.RowSpan &&
		c.ColSpan == o.ColSpan
}
