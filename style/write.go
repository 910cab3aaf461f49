package style

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gridfold/ods/numfmt"
)

// WriteDeclarations emits the table as style declaration elements,
// data styles first so forward references resolve on read. Output is
// sorted by name to keep the byte stream deterministic.
func WriteDeclarations(w io.Writer, t *Table) error {
	bw := bufio.NewWriter(w)

	dataNames := make([]string, 0, len(t.data))
	for name := range t.data {
		dataNames = append(dataNames, name)
	}
	sort.Strings(dataNames)
	for _, name := range dataNames {
		writeDataStyle(bw, name, t.data[name])
	}

	styleNames := make([]string, 0, len(t.styles))
	for name := range t.styles {
		styleNames = append(styleNames, name)
	}
	sort.Strings(styleNames)
	for _, name := range styleNames {
		s := t.styles[name]
		bw.WriteString(`<style:style style:name="`)
		escape(bw, s.Name)
		bw.WriteByte('"')
		if s.Family != "" {
			bw.WriteString(` style:family="`)
			escape(bw, s.Family)
			bw.WriteByte('"')
		}
		if s.Parent != "" {
			bw.WriteString(` style:parent-style-name="`)
			escape(bw, s.Parent)
			bw.WriteByte('"')
		}
		if s.DataStyle != "" {
			bw.WriteString(` style:data-style-name="`)
			escape(bw, s.DataStyle)
			bw.WriteByte('"')
		}
		bw.WriteString("/>")
	}

	return bw.Flush()
}

func writeDataStyle(bw *bufio.Writer, name string, p numfmt.Pattern) {
	if p.DateLayout != "" {
		bw.WriteString(`<number:date-style style:name="`)
		escape(bw, name)
		bw.WriteString(`">`)
		writeDateLayout(bw, p.DateLayout)
		bw.WriteString(`</number:date-style>`)
		return
	}

	element := "number:number-style"
	if p.Symbol {
		element = "number:currency-style"
	}
	bw.WriteByte('<')
	bw.WriteString(element)
	bw.WriteString(` style:name="`)
	escape(bw, name)
	bw.WriteString(`">`)
	if p.Symbol {
		bw.WriteString(`<number:currency-symbol/>`)
	}
	bw.WriteString(`<number:number`)
	if p.Decimals >= 0 {
		fmt.Fprintf(bw, ` number:decimal-places="%d"`, p.Decimals)
	}
	if p.Grouping {
		bw.WriteString(` number:grouping="true"`)
	}
	bw.WriteString("/></")
	bw.WriteString(element)
	bw.WriteByte('>')
}

// dateTokens maps the Go layout fragments the parser produces back to
// their declaration elements, longest first.
var dateTokens = []struct {
	layout  string
	element string
}{
	{"January", `<number:month number:style="long" number:textual="true"/>`},
	{"2006", `<number:year number:style="long"/>`},
	{"Jan", `<number:month number:textual="true"/>`},
	{"01", `<number:month number:style="long"/>`},
	{"02", `<number:day number:style="long"/>`},
	{"06", `<number:year/>`},
	{"15", `<number:hours/>`},
	{"04", `<number:minutes/>`},
	{"05", `<number:seconds/>`},
	{"1", `<number:month/>`},
	{"2", `<number:day/>`},
}

func writeDateLayout(bw *bufio.Writer, layout string) {
	var literal strings.Builder
	flush := func() {
		if literal.Len() == 0 {
			return
		}
		bw.WriteString(`<number:text>`)
		escape(bw, literal.String())
		bw.WriteString(`</number:text>`)
		literal.Reset()
	}

scan:
	for len(layout) > 0 {
		for _, tok := range dateTokens {
			if strings.HasPrefix(layout, tok.layout) {
				flush()
				bw.WriteString(tok.element)
				layout = layout[len(tok.layout):]
				continue scan
			}
		}
		literal.WriteByte(layout[0])
		layout = layout[1:]
	}
	flush()
}

func escape(bw *bufio.Writer, s string) {
	xml.EscapeText(bw, []byte(s))
}
