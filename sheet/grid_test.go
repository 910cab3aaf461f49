package sheet

import "testing"

func TestGridRowMajorOrder(t *testing.T) {
	g := NewGrid()

	// Insert out of order; iteration must come back row-major.
	positions := []Position{
		{Row: 5, Col: 5},
		{Row: 0, Col: 1},
		{Row: 0, Col: 0},
		{Row: 2, Col: 7},
		{Row: 2, Col: 3},
		{Row: 1, Col: 9},
	}
	for _, p := range positions {
		g.Set(p.Row, p.Col, Cell{Value: Float(float64(p.Row*100 + p.Col))})
	}

	want := []Position{
		{Row: 0, Col: 0},
		{Row: 0, Col: 1},
		{Row: 1, Col: 9},
		{Row: 2, Col: 3},
		{Row: 2, Col: 7},
		{Row: 5, Col: 5},
	}

	var got []Position
	g.Walk(func(pos Position, c *Cell) bool {
		got = append(got, pos)
		return true
	})

	if len(got) != len(want) {
		t.Fatalf("walked %d positions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestGridReplace(t *testing.T) {
	g := NewGrid()
	g.Set(3, 4, Cell{Value: Text("first")})
	g.Set(3, 4, Cell{Value: Text("second")})

	if g.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", g.Len())
	}
	c, ok := g.Cell(3, 4)
	if !ok {
		t.Fatal("cell (3,4) not found")
	}
	if c.Value.Text() != "second" {
		t.Errorf("value = %q, want %q", c.Value.Text(), "second")
	}
}

func TestGridUsedExtent(t *testing.T) {
	tests := []struct {
		name      string
		positions []Position
		wantRows  int
		wantCols  int
	}{
		{"empty", nil, 0, 0},
		{"origin only", []Position{{0, 0}}, 1, 1},
		{"single far cell", []Position{{9, 3}}, 10, 4},
		{"max col before max row", []Position{{0, 17}, {20, 2}}, 21, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGrid()
			for _, p := range tt.positions {
				g.Set(p.Row, p.Col, Cell{Value: Text("x")})
			}
			rows, cols := g.UsedExtent()
			if rows != tt.wantRows || cols != tt.wantCols {
				t.Errorf("UsedExtent() = (%d, %d), want (%d, %d)", rows, cols, tt.wantRows, tt.wantCols)
			}
		})
	}
}

func TestGridDelete(t *testing.T) {
	g := NewGrid()
	g.Set(1, 1, Cell{Value: Text("a")})
	g.Delete(1, 1)
	if g.Len() != 0 {
		t.Errorf("Len() = %d after delete, want 0", g.Len())
	}
	if _, ok := g.Cell(1, 1); ok {
		t.Error("deleted cell still present")
	}
}

func TestGridSpanNormalization(t *testing.T) {
	g := NewGrid()
	g.Set(0, 0, Cell{Value: Text("a")})
	c, _ := g.Cell(0, 0)
	if c.RowSpan != 1 || c.ColSpan != 1 {
		t.Errorf("spans = %dx%d, want 1x1", c.RowSpan, c.ColSpan)
	}
}
