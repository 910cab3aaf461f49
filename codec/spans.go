package codec

// spanRegion is a merged-cell region still able to affect the encode
// scan. rowEnd and colEnd are exclusive bounds.
type spanRegion struct {
	row, col       int
	rowEnd, colEnd int
}

// spanTracker maintains the set of merged-cell regions currently in
// effect while the encoder walks the grid in row-major order. Pruning
// regions the scan has moved past keeps each step amortized O(1)
// instead of rescanning every span the sheet ever declared.
type spanTracker struct {
	active []spanRegion
}

// prune removes every region whose covered rows end strictly before
// row. The scan only moves forward, so such a region can never be
// consulted again. Must run before check on each visited cell.
func (t *spanTracker) prune(row int) {
	kept := t.active[:0]
	for _, r := range t.active {
		if r.rowEnd > row {
			kept = append(kept, r)
		}
	}
	t.active = kept
}

// check reports whether (row, col) falls inside an active region and,
// if so, how many further columns of the same row remain inside it.
// Overlapping spans are malformed input; any one matching region may
// be reported.
func (t *spanTracker) check(row, col int) (covered bool, remaining int) {
	for _, r := range t.active {
		if row >= r.row && row < r.rowEnd && col >= r.col && col < r.colEnd {
			return true, r.colEnd - col - 1
		}
	}
	return false, 0
}

// register adds a new active region. Only called for a cell that is
// not itself covered and spans more than one position.
func (t *spanTracker) register(row, col, rowSpan, colSpan int) {
	if rowSpan < 1 {
		rowSpan = 1
	}
	if colSpan < 1 {
		colSpan = 1
	}
	t.active = append(t.active, spanRegion{
		row:    row,
		col:    col,
		rowEnd: row + rowSpan,
		colEnd: col + colSpan,
	})
}
