package style

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gridfold/ods/numfmt"
)

// Parse reads the style declarations of one styles or content stream
// into a fresh table. It understands the cell-style and number-format
// subset the codec needs; everything else is skipped.
func Parse(r io.Reader) (*Table, error) {
	t := NewTable()
	if err := ParseInto(r, t); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseInto reads style declarations into an existing table, so the
// declarations of several streams can accumulate.
func ParseInto(r io.Reader, t *Table) error {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("parsing styles: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		// Unhandled elements are descended into, not skipped, so
		// declarations are found at any container depth.
		if _, err := readDeclaration(d, start, t); err != nil {
			return err
		}
	}
}

// ReadDeclarations consumes the children of an already-open container
// element, such as office:automatic-styles, into t.
func ReadDeclarations(d *xml.Decoder, t *Table) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("parsing styles: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			handled, err := readDeclaration(d, el, t)
			if err != nil {
				return err
			}
			if !handled {
				if err := d.Skip(); err != nil {
					return fmt.Errorf("parsing styles: %w", err)
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// readDeclaration consumes one declaration element if start is one,
// reporting whether it did.
func readDeclaration(d *xml.Decoder, start xml.StartElement, t *Table) (bool, error) {
	switch start.Name.Local {
	case "style":
		t.Add(Style{
			Name:      attrLocal(start, "name"),
			Family:    attrLocal(start, "family"),
			Parent:    attrLocal(start, "parent-style-name"),
			DataStyle: attrLocal(start, "data-style-name"),
		})
		return true, d.Skip()
	case "number-style", "percentage-style", "currency-style":
		return true, readNumberStyle(d, start, t)
	case "date-style", "time-style":
		return true, readDateStyle(d, start, t)
	}
	return false, nil
}

// readNumberStyle reads one number, percentage, or currency style. The
// pattern keeps decimal places and grouping; a currency-symbol child
// switches the rendering to the locale symbol.
func readNumberStyle(d *xml.Decoder, start xml.StartElement, t *Table) error {
	name := attrLocal(start, "name")
	p := numfmt.Pattern{Decimals: -1}

	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("parsing number style %q: %w", name, err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				switch el.Name.Local {
				case "number":
					if raw := attrLocal(el, "decimal-places"); raw != "" {
						if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
							p.Decimals = n
						}
					}
					if attrLocal(el, "grouping") == "true" {
						p.Grouping = true
					}
				case "currency-symbol":
					p.Symbol = true
				}
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				if name != "" {
					t.AddDataStyle(name, p)
				}
				return nil
			}
			depth--
		}
	}
}

// readDateStyle assembles a Go time layout from the ordered child
// tokens of a date or time style.
func readDateStyle(d *xml.Decoder, start xml.StartElement, t *Table) error {
	name := attrLocal(start, "name")
	var layout strings.Builder

	depth := 0
	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("parsing date style %q: %w", name, err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				long := attrLocal(el, "style") == "long"
				switch el.Name.Local {
				case "year":
					if long {
						layout.WriteString("2006")
					} else {
						layout.WriteString("06")
					}
				case "month":
					switch {
					case attrLocal(el, "textual") == "true":
						if long {
							layout.WriteString("January")
						} else {
							layout.WriteString("Jan")
						}
					case long:
						layout.WriteString("01")
					default:
						layout.WriteString("1")
					}
				case "day":
					if long {
						layout.WriteString("02")
					} else {
						layout.WriteString("2")
					}
				case "hours":
					layout.WriteString("15")
				case "minutes":
					layout.WriteString("04")
				case "seconds":
					layout.WriteString("05")
				case "text":
					// Literal separators arrive as character data below.
				}
			}
			depth++
		case xml.EndElement:
			if depth == 0 {
				if name != "" {
					t.AddDataStyle(name, numfmt.Pattern{Decimals: -1, DateLayout: layout.String()})
				}
				return nil
			}
			depth--
		case xml.CharData:
			if depth == 1 {
				layout.Write(el)
			}
		}
	}
}

func attrLocal(el xml.StartElement, local string) string {
	for _, a := range el.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
