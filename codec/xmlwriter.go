package codec

import (
	"bufio"
	"encoding/xml"
	"io"
)

// attr is one serialized XML attribute.
type attr struct {
	name, value string
}

// tokenWriter emits prefixed XML tokens to a byte stream with a
// sticky error, so encoder code can write unconditionally and check
// once. Attribute and character content is escaped; element and
// attribute names are trusted constants.
type tokenWriter struct {
	bw  *bufio.Writer
	err error
}

func newTokenWriter(w io.Writer) *tokenWriter {
	return &tokenWriter{bw: bufio.NewWriter(w)}
}

// start writes an opening tag.
func (w *tokenWriter) start(name string, attrs ...attr) {
	w.open(name, attrs)
	w.writeByte('>')
}

// empty writes a self-closing tag.
func (w *tokenWriter) empty(name string, attrs ...attr) {
	w.open(name, attrs)
	w.writeString("/>")
}

// end writes a closing tag.
func (w *tokenWriter) end(name string) {
	w.writeString("</")
	w.writeString(name)
	w.writeByte('>')
}

// text writes escaped character content.
func (w *tokenWriter) text(s string) {
	if w.err != nil {
		return
	}
	w.err = xml.EscapeText(w.bw, []byte(s))
}

func (w *tokenWriter) open(name string, attrs []attr) {
	w.writeByte('<')
	w.writeString(name)
	for _, a := range attrs {
		w.writeByte(' ')
		w.writeString(a.name)
		w.writeString(`="`)
		w.text(a.value)
		w.writeByte('"')
	}
}

func (w *tokenWriter) writeString(s string) {
	if w.err != nil {
		return
	}
	_, w.err = w.bw.WriteString(s)
}

func (w *tokenWriter) writeByte(b byte) {
	if w.err != nil {
		return
	}
	w.err = w.bw.WriteByte(b)
}

// flush drains the buffer and returns the first error encountered on
// any write since the last flush.
func (w *tokenWriter) flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.bw.Flush()
	return w.err
}
