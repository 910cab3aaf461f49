package sheet

import (
	"testing"
	"time"
)

func TestValueKinds(t *testing.T) {
	when := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		v    Value
		kind Kind
	}{
		{"empty", Empty(), KindEmpty},
		{"text", Text("hello"), KindText},
		{"float", Float(3.5), KindFloat},
		{"percentage", Percentage(0.25), KindPercentage},
		{"currency", Currency(19.99, "EUR"), KindCurrency},
		{"bool", Bool(true), KindBool},
		{"date", DateTime(when), KindDateTime},
		{"duration", Duration(90 * time.Minute), KindDuration},
		{"rich", RichText("a", "b"), KindRichText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.v.Kind() != tt.kind {
				t.Errorf("Kind() = %v, want %v", tt.v.Kind(), tt.kind)
			}
			if !tt.v.Equal(tt.v) {
				t.Error("value not equal to itself")
			}
		})
	}

	if Text("a").Equal(Float(1)) {
		t.Error("text equals float")
	}
	if Currency(1, "EUR").Equal(Currency(1, "USD")) {
		t.Error("currency codes not compared")
	}
	if RichText("a", "b").Text() != "a\nb" {
		t.Errorf("rich text joined = %q", RichText("a", "b").Text())
	}
}

func TestSheetMetadata(t *testing.T) {
	s := New("Data")

	s.SetRowMeta(2, RowMeta{Style: "ro1"})
	s.SetColMeta(4, ColMeta{Style: "co1", DefaultCellStyle: "ce1"})

	if got := s.RowMetaAt(2); got.Style != "ro1" {
		t.Errorf("RowMetaAt(2).Style = %q", got.Style)
	}
	if got := s.RowMetaAt(3); got != (RowMeta{}) {
		t.Errorf("RowMetaAt(3) = %+v, want zero", got)
	}

	// Clearing with the zero value removes the entry.
	s.SetRowMeta(2, RowMeta{})
	if got := s.RowMetaAt(2); got != (RowMeta{}) {
		t.Errorf("RowMetaAt(2) after clear = %+v", got)
	}
}

func TestSheetUsedExtent(t *testing.T) {
	s := New("Data")
	s.SetValue(1, 1, Text("x"))

	rows, cols := s.UsedExtent()
	if rows != 2 || cols != 2 {
		t.Fatalf("UsedExtent() = (%d, %d), want (2, 2)", rows, cols)
	}

	// Metadata and header ranges widen the extent.
	s.SetRowMeta(6, RowMeta{Style: "ro1"})
	s.HeaderColumns = &Range{From: 0, To: 3}
	rows, cols = s.UsedExtent()
	if rows != 7 || cols != 4 {
		t.Errorf("UsedExtent() = (%d, %d), want (7, 4)", rows, cols)
	}
}

func TestSheetEqual(t *testing.T) {
	build := func() *Sheet {
		s := New("Data")
		s.SetCell(0, 0, Cell{Value: Text("a"), Style: "ce1"})
		s.SetCell(2, 3, Cell{Value: Float(42), RowSpan: 2, ColSpan: 2})
		s.SetRowMeta(1, RowMeta{Style: "ro1"})
		s.HeaderRows = &Range{From: 0, To: 0}
		return s
	}

	a, b := build(), build()
	if !a.Equal(b) {
		t.Fatal("identical sheets not equal")
	}

	b.SetValue(2, 3, Float(43))
	if a.Equal(b) {
		t.Error("sheets with different cells reported equal")
	}

	c := build()
	c.HeaderRows = &Range{From: 0, To: 1}
	if a.Equal(c) {
		t.Error("sheets with different header ranges reported equal")
	}
}
