package codec

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/gridfold/ods/sheet"
)

// maxRowMetaRepeat caps how many rows a repeated row token may
// propagate its metadata to. Real-world producers pad the final row
// of a sheet with repeat counts in the millions; honoring those would
// attach a row style to every one of them for no benefit. The row
// counter itself still advances by the full repeat count.
const maxRowMetaRepeat = 4096

// DecodeSheet reads the first table element found in r and
// reconstructs its sheet. It returns io.EOF if the stream contains no
// table element.
func DecodeSheet(r io.Reader) (*sheet.Sheet, error) {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformedStream, err)
		}
		if start, ok := tok.(xml.StartElement); ok && start.Name.Local == "table" {
			return ReadSheet(d, start)
		}
	}
}

// ReadSheet consumes one table element, whose start tag has already
// been read from d, and reconstructs the sheet it describes. It is a
// single forward pass with no buffering beyond the pending row state.
func ReadSheet(d *xml.Decoder, start xml.StartElement) (*sheet.Sheet, error) {
	s := sheet.New(attrLocal(start, "name"))
	s.Style = attrLocal(start, "style-name")
	s.PrintRanges = attrLocal(start, "print-ranges")

	dec := &tableDecoder{d: d, sheet: s}
	if err := dec.run(); err != nil {
		return nil, err
	}
	return s, nil
}

// tableDecoder holds the running counters for one table element.
type tableDecoder struct {
	d     *xml.Decoder
	sheet *sheet.Sheet

	row int // next row index to assign
	col int // next column index within the open row
	colCursor int // next column index for the column header pass

	rowOpen   bool
	rowRepeat int
	rowMeta   sheet.RowMeta

	inHeaderRows bool
	inHeaderCols bool
	headerRowFrom int
	headerColFrom int
}

func (t *tableDecoder) run() error {
	for {
		tok, err := t.d.Token()
		if err != nil {
			// Reaching EOF inside a table element is a truncated stream.
			return fmt.Errorf("%w: %v", ErrMalformedStream, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if err := t.startElement(el); err != nil {
				return err
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "table":
				return nil
			case "table-row":
				t.closeRow()
			case "table-header-rows":
				if t.inHeaderRows && t.row > t.headerRowFrom {
					t.sheet.HeaderRows = &sheet.Range{From: t.headerRowFrom, To: t.row - 1}
				}
				t.inHeaderRows = false
			case "table-header-columns":
				if t.inHeaderCols && t.colCursor > t.headerColFrom {
					t.sheet.HeaderColumns = &sheet.Range{From: t.headerColFrom, To: t.colCursor - 1}
				}
				t.inHeaderCols = false
			}
		}
	}
}

func (t *tableDecoder) startElement(el xml.StartElement) error {
	switch el.Name.Local {
	case "table-header-rows":
		t.inHeaderRows = true
		t.headerRowFrom = t.row
	case "table-header-columns":
		t.inHeaderCols = true
		t.headerColFrom = t.colCursor
	case "table-column":
		return t.readColumn(el)
	case "table-row":
		repeat, err := t.repeatAttr(el, "number-rows-repeated")
		if err != nil {
			return err
		}
		t.rowOpen = true
		t.rowRepeat = repeat
		t.rowMeta = sheet.RowMeta{
			Style:            attrLocal(el, "style-name"),
			DefaultCellStyle: attrLocal(el, "default-cell-style-name"),
			Visibility:       attrLocal(el, "visibility"),
		}
		t.col = 0
	case "table-cell":
		if !t.rowOpen {
			return fmt.Errorf("%w: cell outside row", ErrMalformedStream)
		}
		return t.readCell(el)
	case "covered-table-cell":
		if !t.rowOpen {
			return fmt.Errorf("%w: covered cell outside row", ErrMalformedStream)
		}
		repeat, err := t.repeatAttr(el, "number-columns-repeated")
		if err != nil {
			return err
		}
		// Covered positions never materialize grid entries.
		t.col += repeat
		return t.skip()
	default:
		// Unknown, non-essential tokens are skipped for forward
		// compatibility.
		return t.skip()
	}
	return nil
}

// readColumn records metadata for the repeat-count columns the token
// represents and advances the column cursor.
func (t *tableDecoder) readColumn(el xml.StartElement) error {
	repeat, err := t.repeatAttr(el, "number-columns-repeated")
	if err != nil {
		return err
	}
	meta := sheet.ColMeta{
		Style:            attrLocal(el, "style-name"),
		DefaultCellStyle: attrLocal(el, "default-cell-style-name"),
		Visibility:       attrLocal(el, "visibility"),
	}
	if meta != (sheet.ColMeta{}) {
		for i := 0; i < repeat; i++ {
			t.sheet.SetColMeta(t.colCursor+i, meta)
		}
	}
	t.colCursor += repeat
	return t.skip()
}

// closeRow applies the stashed row metadata to every row the repeat
// count covers (subject to the propagation cap) and advances the row
// counter by the full count.
func (t *tableDecoder) closeRow() {
	if !t.rowOpen {
		return
	}
	if t.rowMeta != (sheet.RowMeta{}) {
		n := t.rowRepeat
		if n > maxRowMetaRepeat {
			n = maxRowMetaRepeat
		}
		for i := 0; i < n; i++ {
			t.sheet.SetRowMeta(t.row+i, t.rowMeta)
		}
	}
	t.row += t.rowRepeat
	t.rowOpen = false
}

// readCell consumes one table-cell element. A cell is content-bearing
// when it carries a value-type, formula, style, or span attribute;
// anything else is positional filler that only advances the column
// counter.
func (t *tableDecoder) readCell(el xml.StartElement) error {
	repeat, err := t.repeatAttr(el, "number-columns-repeated")
	if err != nil {
		return err
	}

	valueType := attrLocal(el, "value-type")
	formula := attrLocal(el, "formula")
	styleName := attrLocal(el, "style-name")
	rowSpan, err := t.repeatAttr(el, "number-rows-spanned")
	if err != nil {
		return err
	}
	colSpan, err := t.repeatAttr(el, "number-columns-spanned")
	if err != nil {
		return err
	}

	content := valueType != "" || formula != "" || styleName != "" || rowSpan > 1 || colSpan > 1
	if !content {
		// True empty cells are never materialized.
		t.col += repeat
		return t.skip()
	}

	v, needText, err := t.parseValue(el, valueType)
	if err != nil {
		return err
	}

	var paragraphs []string
	if needText {
		paragraphs, err = t.collectParagraphs()
		if err != nil {
			return err
		}
		switch len(paragraphs) {
		case 0:
			v = sheet.Text("")
		case 1:
			v = sheet.Text(paragraphs[0])
		default:
			v = sheet.RichText(paragraphs...)
		}
	} else if err := t.skip(); err != nil {
		return err
	}

	c := sheet.Cell{
		Value:   v,
		Formula: formula,
		Style:   styleName,
		RowSpan: rowSpan,
		ColSpan: colSpan,
	}
	// A repeated content cell inserts one clone per covered column.
	for i := 0; i < repeat; i++ {
		t.sheet.SetCell(t.row, t.col+i, c)
	}
	t.col += repeat
	return nil
}

// parseValue builds the typed value declared by valueType. The second
// return is true when the value must be read from the cell's text
// content instead of an attribute.
func (t *tableDecoder) parseValue(el xml.StartElement, valueType string) (sheet.Value, bool, error) {
	switch valueType {
	case "":
		// Style-, span-, or formula-only cell.
		return sheet.Empty(), false, nil
	case "float":
		return t.floatValue(el, sheet.Float)
	case "percentage":
		return t.floatValue(el, sheet.Percentage)
	case "currency":
		code := attrLocal(el, "currency")
		return t.floatValue(el, func(f float64) sheet.Value {
			return sheet.Currency(f, code)
		})
	case "boolean":
		raw := attrLocal(el, "boolean-value")
		switch raw {
		case "true":
			return sheet.Bool(true), false, nil
		case "false":
			return sheet.Bool(false), false, nil
		case "":
			return sheet.Value{}, false, t.cellErr(ErrMissingValue, "office:boolean-value")
		default:
			return sheet.Value{}, false, t.cellErr(ErrMissingValue, fmt.Sprintf("invalid boolean %q", raw))
		}
	case "date":
		raw := attrLocal(el, "date-value")
		if raw == "" {
			return sheet.Value{}, false, t.cellErr(ErrMissingValue, "office:date-value")
		}
		when, err := parseDateTime(raw)
		if err != nil {
			return sheet.Value{}, false, t.cellErr(ErrMissingValue, err.Error())
		}
		return sheet.DateTime(when), false, nil
	case "time":
		raw := attrLocal(el, "time-value")
		if raw == "" {
			return sheet.Value{}, false, t.cellErr(ErrMissingValue, "office:time-value")
		}
		d, err := parseISODuration(raw)
		if err != nil {
			return sheet.Value{}, false, t.cellErr(ErrMissingValue, err.Error())
		}
		return sheet.Duration(d), false, nil
	case "string":
		if raw, ok := lookupAttrLocal(el, "string-value"); ok {
			return sheet.Text(raw), false, nil
		}
		return sheet.Value{}, true, nil
	default:
		return sheet.Value{}, false, t.cellErr(ErrUnknownValueType, valueType)
	}
}

// floatValue parses the required office:value attribute.
func (t *tableDecoder) floatValue(el xml.StartElement, build func(float64) sheet.Value) (sheet.Value, bool, error) {
	raw := attrLocal(el, "value")
	if raw == "" {
		return sheet.Value{}, false, t.cellErr(ErrMissingValue, "office:value")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return sheet.Value{}, false, t.cellErr(ErrMissingValue, fmt.Sprintf("invalid number %q", raw))
	}
	return build(f), false, nil
}

// collectParagraphs reads the text paragraphs inside the current cell
// element, up to and including the cell's end tag. Inline markup is
// flattened to its character content; <text:s> expands to spaces and
// <text:tab> to a tab.
func (t *tableDecoder) collectParagraphs() ([]string, error) {
	var paragraphs []string
	depth := 0
	var cur []byte
	inP := false

	for {
		tok, err := t.d.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedStream, err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "p":
				if depth == 0 {
					inP = true
					cur = cur[:0]
					depth++
					continue
				}
				depth++
			case "s":
				n := 1
				if raw := attrLocal(el, "c"); raw != "" {
					if v, err := strconv.Atoi(raw); err == nil && v > 0 {
						n = v
					}
				}
				for i := 0; i < n; i++ {
					cur = append(cur, ' ')
				}
				depth++
			case "tab":
				cur = append(cur, '\t')
				depth++
			default:
				depth++
			}
		case xml.EndElement:
			if depth == 0 {
				// End of the cell element itself.
				return paragraphs, nil
			}
			depth--
			if depth == 0 && inP {
				paragraphs = append(paragraphs, string(cur))
				inP = false
			}
		case xml.CharData:
			if inP {
				cur = append(cur, el...)
			}
		}
	}
}

// repeatAttr parses an optional repeat or span count attribute;
// absent means 1, a non-integer is fatal.
func (t *tableDecoder) repeatAttr(el xml.StartElement, name string) (int, error) {
	raw := attrLocal(el, name)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}
	if n < 1 {
		n = 1
	}
	return n, nil
}

// skip consumes the remainder of the current element.
func (t *tableDecoder) skip() error {
	if err := t.d.Skip(); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedStream, err)
	}
	return nil
}

func (t *tableDecoder) cellErr(err error, detail string) error {
	return &CellError{Row: t.row, Col: t.col, Err: err, Detail: detail}
}

// attrLocal returns the value of the attribute with the given local
// name, ignoring its namespace.
func attrLocal(el xml.StartElement, local string) string {
	v, _ := lookupAttrLocal(el, local)
	return v
}

func lookupAttrLocal(el xml.StartElement, local string) (string, bool) {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}
