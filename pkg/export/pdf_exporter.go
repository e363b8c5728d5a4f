package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const maxPDFCellRunes = 90

// PDFExporter renders tables into a landscape PDF listing.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// ContentType is the MIME type of rendered output.
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Extension is the file extension of rendered output.
func (e *PDFExporter) Extension() string { return ".pdf" }

// Render lays the table out with the last column taking the remaining width.
// Long cells are truncated; characters outside cp1252 are replaced.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("pdf requires at least one column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(table.Title), "", 1, "L", false, 0, "")
		pdf.Ln(3)
	}

	widths := columnWidths(len(table.Columns), 277)

	pdf.SetFont("Arial", "B", 9)
	for i, column := range table.Columns {
		pdf.CellFormat(widths[i], 7, tr(column), "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range table.Rows {
		for i := range table.Columns {
			pdf.CellFormat(widths[i], 6, tr(truncate(cell(row, i), maxPDFCellRunes)), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func columnWidths(n int, total float64) []float64 {
	widths := make([]float64, n)
	if n == 1 {
		widths[0] = total
		return widths
	}
	narrow := total * 0.4 / float64(n-1)
	for i := 0; i < n-1; i++ {
		widths[i] = narrow
	}
	widths[n-1] = total - narrow*float64(n-1)
	return widths
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
