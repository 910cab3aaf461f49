package style

import (
	"strings"
	"testing"

	"github.com/gridfold/ods/numfmt"
)

const sampleStyles = `<office:document-content>
<office:automatic-styles>
 <number:number-style style:name="N2">
  <number:number number:decimal-places="2" number:grouping="true"/>
 </number:number-style>
 <number:currency-style style:name="C1">
  <number:currency-symbol>$</number:currency-symbol>
  <number:number number:decimal-places="2"/>
 </number:currency-style>
 <number:date-style style:name="D1">
  <number:day number:style="long"/>
  <number:text>.</number:text>
  <number:month number:style="long"/>
  <number:text>.</number:text>
  <number:year number:style="long"/>
 </number:date-style>
 <style:style style:name="ce1" style:family="table-cell" style:data-style-name="N2"/>
 <style:style style:name="ce2" style:family="table-cell" style:parent-style-name="ce1"/>
 <style:style style:name="ce3" style:family="table-cell" style:data-style-name="D1"/>
 <style:style style:name="ro1" style:family="table-row"/>
</office:automatic-styles>
</office:document-content>`

func TestParse(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleStyles))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if tbl.Len() != 4 {
		t.Errorf("parsed %d styles, want 4", tbl.Len())
	}
	s, ok := tbl.Lookup("ce1")
	if !ok || s.Family != "table-cell" || s.DataStyle != "N2" {
		t.Errorf("ce1 = %+v, %v", s, ok)
	}

	tests := []struct {
		style string
		want  numfmt.Pattern
		ok    bool
	}{
		{"ce1", numfmt.Pattern{Decimals: 2, Grouping: true}, true},
		{"ce2", numfmt.Pattern{Decimals: 2, Grouping: true}, true}, // via parent
		{"ce3", numfmt.Pattern{Decimals: -1, DateLayout: "02.01.2006"}, true},
		{"ro1", numfmt.Pattern{}, false},
		{"missing", numfmt.Pattern{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			p, ok := tbl.PatternFor(tt.style)
			if ok != tt.ok || p != tt.want {
				t.Errorf("PatternFor(%q) = %+v, %v, want %+v, %v", tt.style, p, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseCurrencySymbol(t *testing.T) {
	tbl, err := Parse(strings.NewReader(sampleStyles))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	p, ok := tbl.data["C1"]
	if !ok || !p.Symbol || p.Decimals != 2 {
		t.Errorf("C1 = %+v, %v", p, ok)
	}
}

func TestWriteParseRoundTrip(t *testing.T) {
	tbl := NewTable()
	tbl.AddDataStyle("N2", numfmt.Pattern{Decimals: 2, Grouping: true})
	tbl.AddDataStyle("C1", numfmt.Pattern{Decimals: 2, Symbol: true})
	tbl.AddDataStyle("D1", numfmt.Pattern{Decimals: -1, DateLayout: "02.01.2006"})
	tbl.Add(Style{Name: "ce1", Family: "table-cell", DataStyle: "N2"})
	tbl.Add(Style{Name: "ce2", Family: "table-cell", Parent: "ce1"})
	tbl.Add(Style{Name: "ce3", Family: "table-cell", DataStyle: "D1"})

	var sb strings.Builder
	if err := WriteDeclarations(&sb, tbl); err != nil {
		t.Fatalf("WriteDeclarations: %v", err)
	}

	back, err := Parse(strings.NewReader("<root>" + sb.String() + "</root>"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if back.Len() != tbl.Len() {
		t.Fatalf("round trip lost styles: %d != %d", back.Len(), tbl.Len())
	}
	for _, name := range []string{"ce1", "ce2", "ce3"} {
		want, wantOK := tbl.PatternFor(name)
		got, gotOK := back.PatternFor(name)
		if wantOK != gotOK || got != want {
			t.Errorf("PatternFor(%q) = %+v, %v, want %+v, %v", name, got, gotOK, want, wantOK)
		}
	}
}

func TestRendererOptions(t *testing.T) {
	tbl := NewTable()
	tbl.AddDataStyle("N0", numfmt.Pattern{Decimals: 0})
	tbl.Add(Style{Name: "ce1", Family: "table-cell", DataStyle: "N0"})
	tbl.Add(Style{Name: "ce2", Family: "table-cell"})

	opts := tbl.RendererOptions()
	if len(opts) != 1 {
		t.Fatalf("got %d options, want 1", len(opts))
	}
}
