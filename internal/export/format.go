// Package export renders financial reports as CSV spreadsheets and PDF documents.
package export

import (
	"io"
	"strings"

	"github.com/dafibh/tally/tally-backend/internal/domain"
)

// Format is a report file format
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat resolves a format name; empty input means CSV
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", domain.ErrUnsupportedFormat
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	return string(f)
}

// Render writes the document in the given format
func Render(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatPDF:
		return WritePDF(w, doc)
	}
	return domain.ErrUnsupportedFormat
}
