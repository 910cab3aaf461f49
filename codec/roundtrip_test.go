package codec

import (
	"strings"
	"testing"
	"time"

	"github.com/gridfold/ods/sheet"
)

// richSheet exercises every value kind plus merges, metadata, headers,
// and formula cells in one grid.
func richSheet() *sheet.Sheet {
	s := sheet.New("Inventory")
	s.Style = "ta1"
	s.PrintRanges = "Inventory.A1:Inventory.F20"
	s.HeaderRows = &sheet.Range{From: 0, To: 1}
	s.HeaderColumns = &sheet.Range{From: 0, To: 0}

	s.SetValue(0, 0, sheet.Text("Item"))
	s.SetValue(0, 1, sheet.Text("Qty"))
	s.SetValue(0, 2, sheet.Text("Price"))
	s.SetValue(1, 0, sheet.RichText("carried", "over"))

	s.SetValue(2, 0, sheet.Text("widget"))
	s.SetValue(2, 1, sheet.Float(12))
	s.SetValue(2, 2, sheet.Currency(19.99, "EUR"))
	s.SetValue(3, 0, sheet.Text("gadget"))
	s.SetValue(3, 1, sheet.Float(3.5))
	s.SetValue(3, 2, sheet.Currency(240, "USD"))

	s.SetValue(5, 1, sheet.Percentage(0.175))
	s.SetValue(5, 2, sheet.Bool(true))
	s.SetValue(5, 3, sheet.DateTime(time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)))
	s.SetValue(5, 4, sheet.DateTime(time.Date(2024, 6, 30, 14, 45, 0, 0, time.UTC)))
	s.SetValue(5, 5, sheet.Duration(7*time.Hour+30*time.Minute))

	s.SetCell(7, 0, sheet.Cell{Value: sheet.Text("merged note"), RowSpan: 2, ColSpan: 3, Style: "ce2"})
	s.SetCell(10, 1, sheet.Cell{Value: sheet.Float(55), Formula: "of:=SUM([.B3:.B4])"})
	s.SetCell(10, 2, sheet.Cell{Style: "ce3"})

	s.SetRowMeta(0, sheet.RowMeta{Style: "ro1"})
	s.SetRowMeta(12, sheet.RowMeta{Style: "ro2", Visibility: "collapse"})
	s.SetColMeta(0, sheet.ColMeta{Style: "co1", DefaultCellStyle: "ce1"})
	s.SetColMeta(1, sheet.ColMeta{Style: "co2"})
	s.SetColMeta(2, sheet.ColMeta{Style: "co2"})

	return s
}

func TestRoundTripRichSheet(t *testing.T) {
	orig := richSheet()

	var sb strings.Builder
	if err := NewEncoder(&sb).WriteSheet(orig); err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}

	back, err := DecodeSheet(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("DecodeSheet: %v", err)
	}

	if !orig.Equal(back) {
		t.Errorf("decoded sheet differs from original\nencoded:\n%s", sb.String())
	}
}

func TestRoundTripEncodingIsStable(t *testing.T) {
	// A second encode of the decoded sheet must reproduce the first
	// byte stream: the compressed form is canonical for a given grid.
	orig := richSheet()

	var first strings.Builder
	if err := NewEncoder(&first).WriteSheet(orig); err != nil {
		t.Fatalf("first encode: %v", err)
	}
	back, err := DecodeSheet(strings.NewReader(first.String()))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	var second strings.Builder
	if err := NewEncoder(&second).WriteSheet(back); err != nil {
		t.Fatalf("second encode: %v", err)
	}

	if first.String() != second.String() {
		t.Errorf("encodings differ\nfirst:\n%s\nsecond:\n%s", first.String(), second.String())
	}
}

func TestRoundTripMetadataOnlySheet(t *testing.T) {
	// No occupied cells at all; the extent exists purely through
	// metadata and header ranges.
	orig := sheet.New("Bare")
	orig.HeaderRows = &sheet.Range{From: 0, To: 0}
	orig.SetRowMeta(2, sheet.RowMeta{Style: "ro1"})
	orig.SetColMeta(1, sheet.ColMeta{Style: "co1"})

	var sb strings.Builder
	if err := NewEncoder(&sb).WriteSheet(orig); err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}
	back, err := DecodeSheet(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatalf("DecodeSheet: %v", err)
	}
	if !orig.Equal(back) {
		t.Errorf("decoded sheet differs from original\nencoded:\n%s", sb.String())
	}
}
