package ods

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gridfold/ods/codec"
	"github.com/gridfold/ods/format"
	"github.com/gridfold/ods/style"
)

// ErrNotSpreadsheet is returned when a container's mimetype entry
// names something other than an opendocument spreadsheet.
var ErrNotSpreadsheet = errors.New("not an opendocument spreadsheet")

// Open reads the workbook stored in the named file.
func Open(filename string) (*Workbook, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filename, err)
	}
	return NewReader(f, info.Size())
}

// NewReader reads a workbook from an in-memory or seekable container.
// Unknown ZIP entries and unknown XML are ignored; the first decode
// error aborts the load.
func NewReader(r io.ReaderAt, size int64) (*Workbook, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening container: %w", err)
	}

	// Verify the mimetype entry when present. Some producers omit it;
	// the content stream is still authoritative then.
	if f := zipEntry(zr, "mimetype"); f != nil {
		declared, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("reading mimetype: %w", err)
		}
		if !strings.Contains(string(declared), format.MimeTypeODS) {
			return nil, fmt.Errorf("%w: mimetype %q", ErrNotSpreadsheet, strings.TrimSpace(string(declared)))
		}
	}

	w := NewWorkbook()

	if f := zipEntry(zr, "styles.xml"); f != nil {
		if err := parseEntry(f, func(rc io.Reader) error {
			return style.ParseInto(rc, w.Styles)
		}); err != nil {
			return nil, fmt.Errorf("reading styles.xml: %w", err)
		}
	}

	if f := zipEntry(zr, "meta.xml"); f != nil {
		if err := parseEntry(f, func(rc io.Reader) error {
			return readMeta(rc, &w.Meta)
		}); err != nil {
			return nil, fmt.Errorf("reading meta.xml: %w", err)
		}
	}

	f := zipEntry(zr, "content.xml")
	if f == nil {
		return nil, fmt.Errorf("%w: no content.xml entry", ErrNotSpreadsheet)
	}
	if err := parseEntry(f, func(rc io.Reader) error {
		return w.readContent(rc)
	}); err != nil {
		return nil, fmt.Errorf("reading content.xml: %w", err)
	}

	return w, nil
}

// readContent streams content.xml: automatic style declarations feed
// the style table, each table element becomes a sheet.
func (w *Workbook) readContent(r io.Reader) error {
	d := xml.NewDecoder(r)
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "automatic-styles":
			if err := style.ReadDeclarations(d, w.Styles); err != nil {
				return err
			}
		case "table":
			s, err := codec.ReadSheet(d, start)
			if err != nil {
				return err
			}
			w.Sheets = append(w.Sheets, s)
		}
	}
}

// readMeta collects the document description fields from a meta.xml
// stream.
func readMeta(r io.Reader, m *Metadata) error {
	d := xml.NewDecoder(r)
	var field *string
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "title":
				field = &m.Title
			case "subject":
				field = &m.Subject
			case "description":
				field = &m.Description
			case "creator", "initial-creator":
				field = &m.Creator
			case "generator":
				field = &m.Generator
			default:
				field = nil
			}
		case xml.CharData:
			if field != nil {
				*field += string(el)
			}
		case xml.EndElement:
			field = nil
		}
	}
}

func zipEntry(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func parseEntry(f *zip.File, parse func(io.Reader) error) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return parse(rc)
}
