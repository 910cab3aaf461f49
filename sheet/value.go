// Package sheet defines the in-memory spreadsheet model: typed cell
// values, cells, per-row and per-column metadata, and the sparse
// row-major grid a sheet is built on.
package sheet

import (
	"strings"
	"time"
)

// Kind identifies the content kind stored in a Value.
type Kind int

const (
	// KindEmpty indicates a value with no content.
	KindEmpty Kind = iota
	// KindText indicates a plain string value.
	KindText
	// KindFloat indicates a floating-point number.
	KindFloat
	// KindPercentage indicates a number displayed as a percentage.
	KindPercentage
	// KindCurrency indicates a monetary amount with a currency code.
	KindCurrency
	// KindBool indicates a boolean value.
	KindBool
	// KindDateTime indicates a calendar date, optionally with a time of day.
	KindDateTime
	// KindDuration indicates an elapsed time.
	KindDuration
	// KindRichText indicates multi-paragraph text.
	KindRichText
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindFloat:
		return "float"
	case KindPercentage:
		return "percentage"
	case KindCurrency:
		return "currency"
	case KindBool:
		return "boolean"
	case KindDateTime:
		return "date"
	case KindDuration:
		return "duration"
	case KindRichText:
		return "rich-text"
	default:
		return "empty"
	}
}

// Value is a closed tagged union over the storable content kinds.
// The zero Value is the empty variant. Values are immutable once
// constructed; copying a Value is always safe.
type Value struct {
	kind Kind
	text string
	num  float64
	b    bool
	t    time.Time
	d    time.Duration
	code string
	rich []string
}

// Empty returns the empty value.
func Empty() Value {
	return Value{}
}

// Text returns a plain string value.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Float returns a floating-point value.
func Float(f float64) Value {
	return Value{kind: KindFloat, num: f}
}

// Percentage returns a percentage value. The number is the fraction
// itself (0.5 for 50%), matching the stored form in the file format.
func Percentage(f float64) Value {
	return Value{kind: KindPercentage, num: f}
}

// Currency returns a monetary value with an ISO 4217 currency code.
func Currency(amount float64, code string) Value {
	return Value{kind: KindCurrency, num: amount, code: code}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// DateTime returns a date-time value.
func DateTime(t time.Time) Value {
	return Value{kind: KindDateTime, t: t}
}

// Duration returns an elapsed-time value.
func Duration(d time.Duration) Value {
	return Value{kind: KindDuration, d: d}
}

// RichText returns a multi-paragraph text value.
func RichText(paragraphs ...string) Value {
	rich := make([]string, len(paragraphs))
	copy(rich, paragraphs)
	return Value{kind: KindRichText, rich: rich}
}

// Kind returns the content kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsEmpty reports whether the value is the empty variant.
func (v Value) IsEmpty() bool {
	return v.kind == KindEmpty
}

// Text returns the string content for text and rich-text values.
// Rich-text paragraphs are joined with newlines. Other kinds return "".
func (v Value) Text() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindRichText:
		return strings.Join(v.rich, "\n")
	default:
		return ""
	}
}

// Float returns the numeric content for float, percentage, and currency
// values. Other kinds return 0.
func (v Value) Float() float64 {
	return v.num
}

// Bool returns the boolean content; false for other kinds.
func (v Value) Bool() bool {
	return v.b
}

// Time returns the date-time content; the zero time for other kinds.
func (v Value) Time() time.Time {
	return v.t
}

// Duration returns the elapsed-time content; zero for other kinds.
func (v Value) Duration() time.Duration {
	return v.d
}

// CurrencyCode returns the ISO 4217 code of a currency value.
func (v Value) CurrencyCode() string {
	return v.code
}

// Paragraphs returns the paragraphs of a rich-text value. For a plain
// text value it returns a single-element slice.
func (v Value) Paragraphs() []string {
	switch v.kind {
	case KindRichText:
		return v.rich
	case KindText:
		return []string{v.text}
	default:
		return nil
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindEmpty:
		return true
	case KindText:
		return v.text == o.text
	case KindFloat, KindPercentage:
		return v.num == o.num
	case KindCurrency:
		return v.num == o.num && v.code == o.code
	case KindBool:
		return v.b == o.b
	case KindDateTime:
		return v.t.Equal(o.t)
	case KindDuration:
		return v.d == o.d
	case KindRichText:
		if len(v.rich) != len(o.rich) {
			return false
		}
		for i := range v.rich {
			if v.rich[i] != o.rich[i] {
				return false
			}
		}
		return true
	}
	return false
}
