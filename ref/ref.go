// Package ref parses and prints cell and range references in the
// opendocument address grammar: an optional external document IRI, an
// optional sheet name (quoted when it contains separators), and a
// column-letter/row-number pair with $ markers for absolute parts,
// e.g. Sheet1.A1, $Sheet1.$A$1, 'My Sheet'.B2, or
// 'file:///data.ods'#Sheet1.A1. Formula text itself stays opaque to
// the codec; this package is for the callers that need to take
// addresses apart.
package ref

import (
	"fmt"
	"strconv"
	"strings"
)

// Cell is one parsed cell address. Row and Col are 0-indexed.
type Cell struct {
	IRI   string // external document, empty for the local one
	Sheet string // empty means relative to the current sheet
	Row   int
	Col   int

	AbsSheet bool
	AbsRow   bool
	AbsCol   bool
}

// Range is an inclusive rectangular address.
type Range struct {
	From Cell
	To   Cell
}

// ColumnName converts a 0-indexed column number to column letters.
// 0=A, 25=Z, 26=AA.
func ColumnName(index int) string {
	if index < 0 {
		return ""
	}
	name := ""
	index++
	for index > 0 {
		index--
		name = string(rune('A'+index%26)) + name
		index /= 26
	}
	return name
}

// ColumnIndex converts column letters to a 0-indexed column number.
// It returns -1 for anything but ASCII letters.
func ColumnIndex(name string) int {
	name = strings.ToUpper(name)
	if name == "" {
		return -1
	}
	index := 0
	for _, c := range name {
		if c < 'A' || c > 'Z' {
			return -1
		}
		index = index*26 + int(c-'A') + 1
	}
	return index - 1
}

// ParseCell parses one cell address, with or without the surrounding
// formula brackets.
func ParseCell(s string) (Cell, error) {
	orig := s
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	var c Cell
	rest, err := c.parseDocumentAndSheet(s)
	if err != nil {
		return Cell{}, fmt.Errorf("invalid cell reference %q: %w", orig, err)
	}
	if err := c.parseColRow(rest); err != nil {
		return Cell{}, fmt.Errorf("invalid cell reference %q: %w", orig, err)
	}
	return c, nil
}

// ParseRange parses an inclusive range address. The second endpoint
// may omit the sheet part, inheriting it from the first.
func ParseRange(s string) (Range, error) {
	orig := s
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	sep := splitRange(s)
	if sep < 0 {
		return Range{}, fmt.Errorf("invalid range reference %q: no separator", orig)
	}
	from, err := ParseCell(s[:sep])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range reference %q: %w", orig, err)
	}
	to, err := ParseCell(s[sep+1:])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range reference %q: %w", orig, err)
	}
	if to.Sheet == "" && to.IRI == "" {
		to.IRI, to.Sheet, to.AbsSheet = from.IRI, from.Sheet, from.AbsSheet
	}
	return Range{From: from, To: to}, nil
}

// splitRange finds the endpoint separator, skipping colons inside
// quoted sheet names or IRIs.
func splitRange(s string) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case ':':
			if !inQuote {
				return i
			}
		}
	}
	return -1
}

// parseDocumentAndSheet consumes the optional 'iri'# and sheet-name
// prefix, returning the remaining column/row text.
func (c *Cell) parseDocumentAndSheet(s string) (string, error) {
	if strings.HasPrefix(s, "'") {
		name, rest, err := readQuoted(s)
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(rest, "#") {
			c.IRI = name
			s = rest[1:]
		} else if strings.HasPrefix(rest, ".") {
			c.Sheet = name
			return rest[1:], nil
		} else {
			return "", fmt.Errorf("quoted name %q not followed by # or .", name)
		}
	}

	if strings.HasPrefix(s, "$") && !startsCellPart(s[1:]) {
		c.AbsSheet = true
		s = s[1:]
	}
	if strings.HasPrefix(s, "'") {
		name, rest, err := readQuoted(s)
		if err != nil {
			return "", err
		}
		if !strings.HasPrefix(rest, ".") {
			return "", fmt.Errorf("quoted sheet %q not followed by .", name)
		}
		c.Sheet = name
		return rest[1:], nil
	}

	dot := strings.LastIndexByte(s, '.')
	switch dot {
	case -1:
		if c.AbsSheet {
			return "", fmt.Errorf("absolute marker without sheet name")
		}
		return s, nil
	case 0:
		// Leading dot: relative to the current sheet.
		if c.AbsSheet {
			return "", fmt.Errorf("absolute marker without sheet name")
		}
		return s[1:], nil
	default:
		c.Sheet = s[:dot]
		return s[dot+1:], nil
	}
}

// startsCellPart reports whether s looks like a column/row pair, so a
// leading $ can be told apart from an absolute sheet marker.
func startsCellPart(s string) bool {
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 || i >= len(s) {
		return false
	}
	if s[i] == '$' {
		i++
	}
	for ; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c *Cell) parseColRow(s string) error {
	if strings.HasPrefix(s, "$") {
		c.AbsCol = true
		s = s[1:]
	}
	i := 0
	for i < len(s) && isLetter(s[i]) {
		i++
	}
	if i == 0 {
		return fmt.Errorf("no column letters")
	}
	col := ColumnIndex(s[:i])
	if col < 0 {
		return fmt.Errorf("invalid column %q", s[:i])
	}
	s = s[i:]

	if strings.HasPrefix(s, "$") {
		c.AbsRow = true
		s = s[1:]
	}
	row, err := strconv.Atoi(s)
	if err != nil || row < 1 {
		return fmt.Errorf("invalid row %q", s)
	}

	c.Col = col
	c.Row = row - 1
	return nil
}

// readQuoted consumes a single-quoted name with '' as the embedded
// quote escape.
func readQuoted(s string) (name, rest string, err error) {
	var sb strings.Builder
	i := 1
	for i < len(s) {
		if s[i] != '\'' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		if i+1 < len(s) && s[i+1] == '\'' {
			sb.WriteByte('\'')
			i += 2
			continue
		}
		return sb.String(), s[i+1:], nil
	}
	return "", "", fmt.Errorf("unterminated quoted name")
}

// String renders the address in canonical form.
func (c Cell) String() string {
	var sb strings.Builder
	if c.IRI != "" {
		sb.WriteByte('\'')
		sb.WriteString(strings.ReplaceAll(c.IRI, "'", "''"))
		sb.WriteString("'#")
	}
	if c.Sheet != "" {
		if c.AbsSheet {
			sb.WriteByte('$')
		}
		if needsQuoting(c.Sheet) {
			sb.WriteByte('\'')
			sb.WriteString(strings.ReplaceAll(c.Sheet, "'", "''"))
			sb.WriteByte('\'')
		} else {
			sb.WriteString(c.Sheet)
		}
		sb.WriteByte('.')
	}
	if c.AbsCol {
		sb.WriteByte('$')
	}
	sb.WriteString(ColumnName(c.Col))
	if c.AbsRow {
		sb.WriteByte('$')
	}
	sb.WriteString(strconv.Itoa(c.Row + 1))
	return sb.String()
}

// String renders the range as From:To.
func (r Range) String() string {
	return r.From.String() + ":" + r.To.String()
}

// needsQuoting reports whether a sheet name must be quoted in an
// address.
func needsQuoting(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9', c == '_':
		default:
			return true
		}
	}
	return false
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
