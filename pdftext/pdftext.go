// ABOUTME: Reads report text from PDFs, text files or piped input
// ABOUTME: PDF pages are flattened to plain text, one page after another
package pdftext

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dslipak/pdf"
)

var pdfMagic = []byte("%PDF-")

// Extract returns the text layer of every page in the PDF, separated by newlines.
// Pages without a text layer contribute nothing.
func Extract(r io.ReaderAt, size int64) (text string, err error) {
	// The parser panics on some malformed files instead of returning an error.
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("failed to parse pdf: %v", p)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var b strings.Builder
	fonts := make(map[string]*pdf.Font)
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, name := range page.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := page.Font(name)
				fonts[name] = &f
			}
		}
		pageText, err := page.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(pageText)
	}
	return b.String(), nil
}

// ExtractFile reads a report from disk. PDFs go through Extract; anything
// else is returned verbatim as text.
func ExtractFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".pdf") || IsPDF(data) {
		return Extract(bytes.NewReader(data), int64(len(data)))
	}
	return string(data), nil
}

// ReadAll reads piped input, detecting a PDF by its header.
func ReadAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	if IsPDF(data) {
		return Extract(bytes.NewReader(data), int64(len(data)))
	}
	return string(data), nil
}

// IsPDF reports whether data starts with the PDF header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), pdfMagic)
}
