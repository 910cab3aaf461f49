// Package numfmt renders typed cell values as display text. A renderer
// carries a locale and a table of named patterns; values whose cell
// style names a pattern are formatted through golang.org/x/text with
// locale-aware grouping and currency symbols, everything else falls
// back to a plain locale-free rendering.
package numfmt

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/gridfold/ods/sheet"
)

// Pattern describes how one data style renders values. The zero value
// means "no opinion" and falls back to the default rendering.
type Pattern struct {
	// Decimals fixes the fraction digit count; negative means shortest.
	Decimals int

	// Grouping inserts locale thousands separators.
	Grouping bool

	// Symbol renders currency amounts with the locale symbol instead
	// of trailing the ISO code.
	Symbol bool

	// DateLayout is a Go time layout for date-time values.
	DateLayout string
}

// Renderer maps values to display text. It satisfies the encoder's
// value-renderer contract and is safe for concurrent use once built.
type Renderer struct {
	printer  *message.Printer
	patterns map[string]Pattern
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLocale sets the locale used for grouped numbers and currency
// symbols. The default is English.
func WithLocale(tag language.Tag) Option {
	return func(r *Renderer) {
		r.printer = message.NewPrinter(tag)
	}
}

// WithPattern registers the pattern for a data-style name.
func WithPattern(styleName string, p Pattern) Option {
	return func(r *Renderer) {
		r.patterns[styleName] = p
	}
}

// NewRenderer returns a renderer with the given options applied.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		printer:  message.NewPrinter(language.English),
		patterns: make(map[string]Pattern),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render returns the display text for v. styleName selects a
// registered pattern; an unknown or empty name uses the defaults.
func (r *Renderer) Render(v sheet.Value, styleName string) string {
	p, ok := r.patterns[styleName]

	switch v.Kind() {
	case sheet.KindText, sheet.KindRichText:
		return v.Text()
	case sheet.KindFloat:
		if ok {
			return r.number(v.Float(), p)
		}
		return formatFloat(v.Float())
	case sheet.KindPercentage:
		if ok {
			return r.percent(v.Float(), p)
		}
		return formatFloat(v.Float()*100) + "%"
	case sheet.KindCurrency:
		if ok {
			return r.amount(v.Float(), v.CurrencyCode(), p)
		}
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
		if ok && p.DateLayout != "" {
			return v.Time().Format(p.DateLayout)
		}
		return formatDateTime(v.Time())
	case sheet.KindDuration:
		return formatClock(v.Duration())
	default:
		return ""
	}
}

func (r *Renderer) number(f float64, p Pattern) string {
	return r.printer.Sprint(number.Decimal(f, numberOptions(p)...))
}

func (r *Renderer) percent(f float64, p Pattern) string {
	return r.printer.Sprint(number.Percent(f, numberOptions(p)...))
}

func (r *Renderer) amount(f float64, code string, p Pattern) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		// Unknown or absent code: fall back to a plain amount.
		if code != "" {
			return r.number(f, p) + " " + code
		}
		return r.number(f, p)
	}
	if p.Symbol {
		return r.printer.Sprint(currency.Symbol(unit.Amount(f)))
	}
	return r.number(f, p) + " " + unit.String()
}

func numberOptions(p Pattern) []number.Option {
	var opts []number.Option
	if p.Decimals >= 0 {
		opts = append(opts, number.Scale(p.Decimals))
	}
	if !p.Grouping {
		opts = append(opts, number.NoSeparator())
	}
	return opts
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatDateTime(t time.Time) string {
	if h, m, s := t.Clock(); h == 0 && m == 0 && s == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format("2006-01-02T15:04:05")
}

func formatClock(d time.Duration) string {
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
}
