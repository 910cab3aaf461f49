package codec

import (
	"strings"
	"testing"

	"github.com/gridfold/ods/sheet"
)

func encodeToString(t *testing.T, s *sheet.Sheet) string {
	t.Helper()
	var sb strings.Builder
	if err := NewEncoder(&sb).WriteSheet(s); err != nil {
		t.Fatalf("WriteSheet: %v", err)
	}
	return sb.String()
}

func TestEncodeEmptySheet(t *testing.T) {
	s := sheet.New("Empty")
	got := encodeToString(t, s)
	want := `<table:table table:name="Empty"></table:table>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, "table-row") {
		t.Error("empty sheet emitted row tokens")
	}
}

func TestEncodeSingleCellMinimality(t *testing.T) {
	s := sheet.New("S")
	s.SetValue(0, 0, sheet.Text("A"))

	got := encodeToString(t, s)
	want := `<table:table table:name="S">` +
		`<table:table-column/>` +
		`<table:table-row>` +
		`<table:table-cell office:value-type="string"><text:p>A</text:p></table:table-cell>` +
		`</table:table-row>` +
		`</table:table>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeExampleSequence(t *testing.T) {
	// Cells (0,0)="A", (0,1)="B", (5,5)=42.0; used extent (6,6).
	s := sheet.New("Sheet1")
	s.SetValue(0, 0, sheet.Text("A"))
	s.SetValue(0, 1, sheet.Text("B"))
	s.SetValue(5, 5, sheet.Float(42))

	got := encodeToString(t, s)
	want := `<table:table table:name="Sheet1">` +
		`<table:table-column table:number-columns-repeated="6"/>` +
		`<table:table-row>` +
		`<table:table-cell office:value-type="string"><text:p>A</text:p></table:table-cell>` +
		`<table:table-cell office:value-type="string"><text:p>B</text:p></table:table-cell>` +
		`<table:table-cell table:number-columns-repeated="4"/>` +
		`</table:table-row>` +
		`<table:table-row table:number-rows-repeated="4">` +
		`<table:table-cell table:number-columns-repeated="6"/>` +
		`</table:table-row>` +
		`<table:table-row>` +
		`<table:table-cell table:number-columns-repeated="5"/>` +
		`<table:table-cell office:value-type="float" office:value="42"><text:p>42</text:p></table:table-cell>` +
		`</table:table-row>` +
		`</table:table>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeHeaderBoundarySplitting(t *testing.T) {
	// Header rows [2,4]; occupied cells only at rows 0 and 10. The
	// skipped block must come out as rows 1, rows 2-4 bracketed by the
	// header marker, and rows 5-9.
	s := sheet.New("S")
	s.SetValue(0, 0, sheet.Text("top"))
	s.SetValue(10, 0, sheet.Text("bottom"))
	s.HeaderRows = &sheet.Range{From: 2, To: 4}

	got := encodeToString(t, s)
	want := `<table:table table:name="S">` +
		`<table:table-column/>` +
		`<table:table-row>` +
		`<table:table-cell office:value-type="string"><text:p>top</text:p></table:table-cell>` +
		`</table:table-row>` +
		`<table:table-row><table:table-cell/></table:table-row>` +
		`<table:table-header-rows>` +
		`<table:table-row table:number-rows-repeated="3"><table:table-cell/></table:table-row>` +
		`</table:table-header-rows>` +
		`<table:table-row table:number-rows-repeated="5"><table:table-cell/></table:table-row>` +
		`<table:table-row>` +
		`<table:table-cell office:value-type="string"><text:p>bottom</text:p></table:table-cell>` +
		`</table:table-row>` +
		`</table:table>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeSpanCoverage(t *testing.T) {
	// A 2x3 merge at (0,0): the five non-origin positions come out as
	// covered tokens, including the ones on the otherwise-empty row 1.
	s := sheet.New("S")
	s.SetCell(0, 0, sheet.Cell{Value: sheet.Text("M"), RowSpan: 2, ColSpan: 3})

	got := encodeToString(t, s)
	want := `<table:table table:name="S">` +
		`<table:table-column table:number-columns-repeated="3"/>` +
		`<table:table-row>` +
		`<table:table-cell table:number-rows-spanned="2" table:number-columns-spanned="3" office:value-type="string"><text:p>M</text:p></table:table-cell>` +
		`<table:covered-table-cell table:number-columns-repeated="2"/>` +
		`</table:table-row>` +
		`<table:table-row>` +
		`<table:covered-table-cell table:number-columns-repeated="3"/>` +
		`</table:table-row>` +
		`</table:table>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeColumnRunCompression(t *testing.T) {
	s := sheet.New("S")
	for col := 0; col < 3; col++ {
		s.SetColMeta(col, sheet.ColMeta{Style: "co1"})
	}
	s.SetValue(0, 4, sheet.Text("x"))

	got := encodeToString(t, s)
	if !strings.Contains(got, `<table:table-column table:style-name="co1" table:number-columns-repeated="3"/>`) {
		t.Errorf("styled column run not compressed:\n%s", got)
	}
	if !strings.Contains(got, `<table:table-column table:number-columns-repeated="2"/>`) {
		t.Errorf("unstyled column run not compressed:\n%s", got)
	}
	if strings.Count(got, "<table:table-column") != 2 {
		t.Errorf("expected exactly 2 column tokens:\n%s", got)
	}
}

func TestEncodeHeaderColumns(t *testing.T) {
	s := sheet.New("S")
	s.HeaderColumns = &sheet.Range{From: 0, To: 1}
	s.SetColMeta(0, sheet.ColMeta{DefaultCellStyle: "ce1"})
	s.SetValue(0, 3, sheet.Text("x"))

	got := encodeToString(t, s)
	want := `<table:table table:name="S">` +
		`<table:table-header-columns>` +
		`<table:table-column table:default-cell-style-name="ce1"/>` +
		`<table:table-column/>` +
		`</table:table-header-columns>` +
		`<table:table-column table:number-columns-repeated="2"/>` +
		`<table:table-row>` +
		`<table:table-cell table:number-columns-repeated="3"/>` +
		`<table:table-cell office:value-type="string"><text:p>x</text:p></table:table-cell>` +
		`</table:table-row>` +
		`</table:table>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeEscaping(t *testing.T) {
	s := sheet.New(`Q&A <"2024">`)
	s.SetValue(0, 0, sheet.Text("a < b & c"))

	got := encodeToString(t, s)
	if !strings.Contains(got, `table:name="Q&amp;A &lt;&#34;2024&#34;&gt;"`) {
		t.Errorf("sheet name not escaped:\n%s", got)
	}
	if !strings.Contains(got, "<text:p>a &lt; b &amp; c</text:p>") {
		t.Errorf("cell text not escaped:\n%s", got)
	}
}

func TestEncodeRowMetadataRuns(t *testing.T) {
	// Empty rows with distinct metadata split into separate run tokens.
	s := sheet.New("S")
	s.SetValue(0, 0, sheet.Text("x"))
	s.SetValue(6, 0, sheet.Text("y"))
	s.SetRowMeta(2, sheet.RowMeta{Style: "ro1"})
	s.SetRowMeta(3, sheet.RowMeta{Style: "ro1"})

	got := encodeToString(t, s)
	want := `<table:table table:name="S">` +
		`<table:table-column/>` +
		`<table:table-row>` +
		`<table:table-cell office:value-type="string"><text:p>x</text:p></table:table-cell>` +
		`</table:table-row>` +
		`<table:table-row><table:table-cell/></table:table-row>` +
		`<table:table-row table:style-name="ro1" table:number-rows-repeated="2"><table:table-cell/></table:table-row>` +
		`<table:table-row table:number-rows-repeated="2"><table:table-cell/></table:table-row>` +
		`<table:table-row>` +
		`<table:table-cell office:value-type="string"><text:p>y</text:p></table:table-cell>` +
		`</table:table-row>` +
		`</table:table>`
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
