package ods

import (
	"archive/zip"
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/gridfold/ods/codec"
	"github.com/gridfold/ods/format"
	"github.com/gridfold/ods/numfmt"
	"github.com/gridfold/ods/style"
)

const (
	xmlProlog = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

	nsOffice   = "urn:oasis:names:tc:opendocument:xmlns:office:1.0"
	nsTable    = "urn:oasis:names:tc:opendocument:xmlns:table:1.0"
	nsText     = "urn:oasis:names:tc:opendocument:xmlns:text:1.0"
	nsStyle    = "urn:oasis:names:tc:opendocument:xmlns:style:1.0"
	nsNumber   = "urn:oasis:names:tc:opendocument:xmlns:datastyle:1.0"
	nsManifest = "urn:oasis:names:tc:opendocument:xmlns:manifest:1.0"
	nsMeta     = "urn:oasis:names:tc:opendocument:xmlns:meta:1.0"
	nsDC       = "http://purl.org/dc/elements/1.1/"
)

// defaultGenerator names this library in meta.xml when the workbook
// does not set one.
const defaultGenerator = "gridfold/ods"

// Save writes the workbook to the named file.
func (w *Workbook) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filename, err)
	}
	if err := w.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filename, err)
	}
	return nil
}

// Write emits the workbook as an opendocument container. The mimetype
// entry comes first and uncompressed so consumers can sniff the type
// from the leading bytes.
func (w *Workbook) Write(out io.Writer) error {
	zw := zip.NewWriter(out)

	mw, err := zw.CreateHeader(&zip.FileHeader{Name: "mimetype", Method: zip.Store})
	if err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}
	if _, err := io.WriteString(mw, format.MimeTypeODS); err != nil {
		return fmt.Errorf("writing mimetype: %w", err)
	}

	entries := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"META-INF/manifest.xml", writeManifest},
		{"meta.xml", w.writeMeta},
		{"styles.xml", w.writeStyles},
		{"content.xml", w.writeContent},
	}
	for _, entry := range entries {
		ew, err := zw.Create(entry.name)
		if err != nil {
			return fmt.Errorf("writing %s: %w", entry.name, err)
		}
		if err := entry.write(ew); err != nil {
			return fmt.Errorf("writing %s: %w", entry.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing container: %w", err)
	}
	return nil
}

func writeManifest(out io.Writer) error {
	bw := bufio.NewWriter(out)
	bw.WriteString(xmlProlog)
	fmt.Fprintf(bw, `<manifest:manifest xmlns:manifest="%s" manifest:version="1.2">`, nsManifest)
	fmt.Fprintf(bw, `<manifest:file-entry manifest:full-path="/" manifest:media-type="%s"/>`, format.MimeTypeODS)
	for _, name := range []string{"content.xml", "styles.xml", "meta.xml"} {
		fmt.Fprintf(bw, `<manifest:file-entry manifest:full-path="%s" manifest:media-type="text/xml"/>`, name)
	}
	bw.WriteString(`</manifest:manifest>`)
	return bw.Flush()
}

func (w *Workbook) writeMeta(out io.Writer) error {
	bw := bufio.NewWriter(out)
	bw.WriteString(xmlProlog)
	fmt.Fprintf(bw, `<office:document-meta xmlns:office="%s" xmlns:meta="%s" xmlns:dc="%s" office:version="1.2"><office:meta>`,
		nsOffice, nsMeta, nsDC)

	generator := w.Meta.Generator
	if generator == "" {
		generator = defaultGenerator
	}
	writeMetaField(bw, "meta:generator", generator)
	writeMetaField(bw, "dc:title", w.Meta.Title)
	writeMetaField(bw, "dc:subject", w.Meta.Subject)
	writeMetaField(bw, "dc:description", w.Meta.Description)
	writeMetaField(bw, "dc:creator", w.Meta.Creator)

	bw.WriteString(`</office:meta></office:document-meta>`)
	return bw.Flush()
}

func writeMetaField(bw *bufio.Writer, element, value string) {
	if value == "" {
		return
	}
	bw.WriteByte('<')
	bw.WriteString(element)
	bw.WriteByte('>')
	xml.EscapeText(bw, []byte(value))
	bw.WriteString("</")
	bw.WriteString(element)
	bw.WriteByte('>')
}

func (w *Workbook) writeStyles(out io.Writer) error {
	bw := bufio.NewWriter(out)
	bw.WriteString(xmlProlog)
	fmt.Fprintf(bw, `<office:document-styles xmlns:office="%s" xmlns:style="%s" xmlns:number="%s" office:version="1.2">`,
		nsOffice, nsStyle, nsNumber)
	bw.WriteString(`<office:styles/>`)
	bw.WriteString(`</office:document-styles>`)
	return bw.Flush()
}

func (w *Workbook) writeContent(out io.Writer) error {
	bw := bufio.NewWriter(out)
	bw.WriteString(xmlProlog)
	fmt.Fprintf(bw, `<office:document-content xmlns:office="%s" xmlns:table="%s" xmlns:text="%s" xmlns:style="%s" xmlns:number="%s" office:version="1.2">`,
		nsOffice, nsTable, nsText, nsStyle, nsNumber)

	bw.WriteString(`<office:automatic-styles>`)
	styles := w.Styles
	if styles == nil {
		styles = style.NewTable()
	}
	if err := style.WriteDeclarations(bw, styles); err != nil {
		return err
	}
	bw.WriteString(`</office:automatic-styles>`)

	bw.WriteString(`<office:body><office:spreadsheet>`)
	renderer := numfmt.NewRenderer(styles.RendererOptions()...)
	for _, s := range w.Sheets {
		enc := codec.NewEncoder(bw, codec.WithRenderer(renderer))
		if err := enc.WriteSheet(s); err != nil {
			return fmt.Errorf("encoding sheet %q: %w", s.Name, err)
		}
	}
	bw.WriteString(`</office:spreadsheet></office:body>`)

	bw.WriteString(`</office:document-content>`)
	return bw.Flush()
}
