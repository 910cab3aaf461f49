package codec

import "testing"

func TestSpanTrackerCheck(t *testing.T) {
	var tr spanTracker
	tr.register(2, 3, 2, 3) // covers rows 2-3, cols 3-5

	tests := []struct {
		name          string
		row, col      int
		wantCovered   bool
		wantRemaining int
	}{
		{"origin row first covered col", 2, 4, true, 1},
		{"origin row last covered col", 2, 5, true, 0},
		{"second row region start col", 3, 3, true, 2},
		{"row above", 1, 4, false, 0},
		{"row below", 4, 4, false, 0},
		{"col left", 2, 2, false, 0},
		{"col right", 2, 6, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			covered, remaining := tr.check(tt.row, tt.col)
			if covered != tt.wantCovered || remaining != tt.wantRemaining {
				t.Errorf("check(%d, %d) = (%v, %d), want (%v, %d)",
					tt.row, tt.col, covered, remaining, tt.wantCovered, tt.wantRemaining)
			}
		})
	}
}

func TestSpanTrackerPrune(t *testing.T) {
	var tr spanTracker
	tr.register(0, 0, 2, 2) // rows 0-1
	tr.register(1, 5, 3, 1) // rows 1-3

	tr.prune(1)
	if len(tr.active) != 2 {
		t.Fatalf("after prune(1): %d regions, want 2", len(tr.active))
	}

	tr.prune(2)
	if len(tr.active) != 1 {
		t.Fatalf("after prune(2): %d regions, want 1", len(tr.active))
	}
	if covered, _ := tr.check(2, 5); !covered {
		t.Error("surviving region no longer reported")
	}
	if covered, _ := tr.check(1, 1); covered {
		t.Error("pruned region still reported")
	}

	tr.prune(4)
	if len(tr.active) != 0 {
		t.Errorf("after prune(4): %d regions, want 0", len(tr.active))
	}
}

func TestSpanTrackerSpanClamping(t *testing.T) {
	var tr spanTracker
	tr.register(0, 0, 0, 0)
	if covered, _ := tr.check(0, 0); !covered {
		t.Error("clamped 1x1 region does not cover its origin")
	}
	if covered, _ := tr.check(0, 1); covered {
		t.Error("clamped 1x1 region covers a neighbor")
	}
}
