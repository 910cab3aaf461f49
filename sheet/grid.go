package sheet

import "github.com/google/btree"

// Position addresses a grid cell by row and column, both 0-indexed.
type Position struct {
	Row, Col int
}

// Before reports whether p precedes q in row-major order, with ties
// broken by column.
func (p Position) Before(q Position) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// gridEntry is one occupied position in the tree.
type gridEntry struct {
	pos  Position
	cell *Cell
}

// Grid is a sparse, ordered cell store. Iteration order is row-major
// with column tie-break; the ordering is an invariant of the underlying
// B-tree, not a property derived by sorting. Lookup by exact position
// is O(log n). Indices are non-negative with no fixed upper bound.
type Grid struct {
	tree *btree.BTreeG[gridEntry]
}

// NewGrid returns an empty grid.
func NewGrid() *Grid {
	return &Grid{
		tree: btree.NewG(32, func(a, b gridEntry) bool {
			return a.pos.Before(b.pos)
		}),
	}
}

// Set stores a cell at (row, col), replacing any existing cell there.
// Merge extents are clamped to at least 1x1.
func (g *Grid) Set(row, col int, c Cell) {
	c.normalize()
	g.tree.ReplaceOrInsert(gridEntry{pos: Position{Row: row, Col: col}, cell: &c})
}

// Cell returns the cell at (row, col), or false if the position is
// unoccupied.
func (g *Grid) Cell(row, col int) (*Cell, bool) {
	e, ok := g.tree.Get(gridEntry{pos: Position{Row: row, Col: col}})
	if !ok {
		return nil, false
	}
	return e.cell, true
}

// Delete removes the cell at (row, col) if present.
func (g *Grid) Delete(row, col int) {
	g.tree.Delete(gridEntry{pos: Position{Row: row, Col: col}})
}

// Len returns the number of occupied positions.
func (g *Grid) Len() int {
	return g.tree.Len()
}

// Clear removes all cells.
func (g *Grid) Clear() {
	g.tree.Clear(false)
}

// Walk visits every occupied position in row-major order. The walk
// stops early if fn returns false.
func (g *Grid) Walk(fn func(pos Position, c *Cell) bool) {
	g.tree.Ascend(func(e gridEntry) bool {
		return fn(e.pos, e.cell)
	})
}

// UsedExtent returns the smallest (rows, cols) bounding box containing
// every occupied position together with the reach of its merge
// extents, or (0, 0) for an empty grid. The extent is always derived,
// never stored.
func (g *Grid) UsedExtent() (rows, cols int) {
	g.tree.Ascend(func(e gridEntry) bool {
		if r := e.pos.Row + e.cell.RowSpan; r > rows {
			rows = r
		}
		if c := e.pos.Col + e.cell.ColSpan; c > cols {
			cols = c
		}
		return true
	})
	return rows, cols
}
