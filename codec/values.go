package codec

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gridfold/ods/sheet"
)

// Qualified names written by the encoder. The decoder matches on local
// names only, so it accepts any prefix binding for the same vocabulary.
const (
	qTable       = "table:table"
	qTableColumn = "table:table-column"
	qHeaderRows  = "table:table-header-rows"
	qHeaderCols  = "table:table-header-columns"
	qTableRow    = "table:table-row"
	qTableCell   = "table:table-cell"
	qCoveredCell = "table:covered-table-cell"
	qTextP       = "text:p"

	qAttrName         = "table:name"
	qAttrStyleName    = "table:style-name"
	qAttrPrintRanges  = "table:print-ranges"
	qAttrDefaultCell  = "table:default-cell-style-name"
	qAttrVisibility   = "table:visibility"
	qAttrColsRepeated = "table:number-columns-repeated"
	qAttrRowsRepeated = "table:number-rows-repeated"
	qAttrRowsSpanned  = "table:number-rows-spanned"
	qAttrColsSpanned  = "table:number-columns-spanned"
	qAttrFormula      = "table:formula"

	qAttrValueType   = "office:value-type"
	qAttrValue       = "office:value"
	qAttrDateValue   = "office:date-value"
	qAttrTimeValue   = "office:time-value"
	qAttrBoolValue   = "office:boolean-value"
	qAttrCurrency    = "office:currency"
	qAttrStringValue = "office:string-value"
)

// formatFloat renders a number the way the format stores it: shortest
// round-trippable decimal form.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// formatDateTime renders a date-value attribute. A value with no time
// of day is written as a bare date.
func formatDateTime(t time.Time) string {
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02T15:04:05")
}

// dateLayouts are the accepted date-value forms, most specific first.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDateTime parses a date-value attribute.
func parseDateTime(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date value %q", s)
}

// formatISODuration renders a duration as an ISO 8601 time-value,
// e.g. PT13H37M00S.
func formatISODuration(d time.Duration) string {
	var sb strings.Builder
	if d < 0 {
		sb.WriteByte('-')
		d = -d
	}
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	secs := float64(d) / float64(time.Second)

	sb.WriteString("PT")
	fmt.Fprintf(&sb, "%02dH%02dM", h, m)
	if secs == float64(int64(secs)) {
		fmt.Fprintf(&sb, "%02dS", int64(secs))
	} else {
		fmt.Fprintf(&sb, "%sS", strconv.FormatFloat(secs, 'f', -1, 64))
	}
	return sb.String()
}

// parseISODuration parses an ISO 8601 time-value (PnDTnHnMnS).
func parseISODuration(s string) (time.Duration, error) {
	orig := s
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return 0, fmt.Errorf("invalid duration value %q", orig)
	}
	s = s[1:]

	var total time.Duration
	inTime := false
	num := ""
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == 'T':
			inTime = true
		case c >= '0' && c <= '9' || c == '.':
			num += string(c)
		default:
			if num == "" {
				return 0, fmt.Errorf("invalid duration value %q", orig)
			}
			f, err := strconv.ParseFloat(num, 64)
			if err != nil {
				return 0, fmt.Errorf("invalid duration value %q: %w", orig, err)
			}
			num = ""
			switch {
			case c == 'D' && !inTime:
				total += time.Duration(f * 24 * float64(time.Hour))
			case c == 'H' && inTime:
				total += time.Duration(f * float64(time.Hour))
			case c == 'M' && inTime:
				total += time.Duration(f * float64(time.Minute))
			case c == 'S' && inTime:
				total += time.Duration(f * float64(time.Second))
			default:
				return 0, fmt.Errorf("invalid duration value %q", orig)
			}
		}
	}
	if num != "" {
		return 0, fmt.Errorf("invalid duration value %q", orig)
	}
	if neg {
		total = -total
	}
	return total, nil
}

// plainRenderer is the fallback display-text renderer used when no
// value renderer is injected. It knows nothing about data styles.
type plainRenderer struct{}

func (plainRenderer) Render(v sheet.Value, styleName string) string {
	switch v.Kind() {
	case sheet.KindText, sheet.KindRichText:
		return v.Text()
	case sheet.KindFloat:
		return formatFloat(v.Float())
	case sheet.KindPercentage:
		return formatFloat(v.Float()*100) + "%"
	case sheet.KindCurrency:
		if code := v.CurrencyCode(); code != "" {
			return formatFloat(v.Float()) + " " + code
		}
		return formatFloat(v.Float())
	case sheet.KindBool:
		if v.Bool() {
			return "TRUE"
		}
		return "FALSE"
	case sheet.KindDateTime:
		return formatDateTime(v.Time())
	case sheet.KindDuration:
		d := v.Duration()
		neg := ""
		if d < 0 {
			neg = "-"
			d = -d
		}
		h := d / time.Hour
		d -= h * time.Hour
		m := d / time.Minute
		d -= m * time.Minute
		return fmt.Sprintf("%s%02d:%02d:%02d", neg, h, m, d/time.Second)
	default:
		return ""
	}
}
