package export

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfPageWidth = 190.0 // A4 width minus default margins, in mm
	pdfRowHeight = 7.0
)

// WritePDF renders the document as an A4 PDF with one bordered table per section
func WritePDF(w io.Writer, doc Document) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("tally", true)
	pdf.SetCreationDate(doc.GeneratedAt)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 100, 100)
	pdf.CellFormat(0, 6, "Generated "+doc.GeneratedAt.UTC().Format(time.RFC1123), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	for _, table := range doc.Tables {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, tr(table.Title), "", 1, "L", false, 0, "")

		widths := columnWidths(table.Columns)

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for i, c := range table.Columns {
			pdf.CellFormat(widths[i], pdfRowHeight, tr(c.Name), "1", 0, align(c), true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 10)
		for _, row := range table.Rows {
			writeRow(pdf, tr, table.Columns, widths, row)
		}
		if table.Totals != nil {
			pdf.SetFont("Helvetica", "B", 10)
			writeRow(pdf, tr, table.Columns, widths, table.Totals)
		}
	}

	return pdf.Output(w)
}

func writeRow(pdf *fpdf.Fpdf, tr func(string) string, columns []Column, widths []float64, row []string) {
	for i, c := range columns {
		var cell string
		if i < len(row) {
			cell = row[i]
		}
		pdf.CellFormat(widths[i], pdfRowHeight, tr(cell), "1", 0, align(c), false, 0, "")
	}
	pdf.Ln(-1)
}

func columnWidths(columns []Column) []float64 {
	var total float64
	for _, c := range columns {
		total += c.Width
	}
	widths := make([]float64, len(columns))
	for i, c := range columns {
		if total == 0 {
			widths[i] = pdfPageWidth / float64(len(columns))
			continue
		}
		widths[i] = pdfPageWidth * c.Width / total
	}
	return widths
}

func align(c Column) string {
	if c.Numeric {
		return "R"
	}
	return "L"
}
