package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"cotizador/internal/quote"
)

const (
	minCellWidth    = 15.0
	cellPadding     = 3.0
	cellHeight      = 8.0
	marginLeft      = 10.0
	firstPageTop    = 20.0
	continuationTop = 10.0
	bottomMargin    = 10.0
	fontSize        = 11.0
)

// WritePDF renders records as a landscape A4 table. Columns are sized to
// their widest cell; a row that does not fit continues on a new page.
func WritePDF(w io.Writer, records []quote.Record) error {
	pdf, err := renderPDF(records)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderPDF(records []quote.Record) (*fpdf.Fpdf, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Helvetica", "", fontSize)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := translate(tr, Columns)
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, translate(tr, Row(rec)))
	}
	widths := columnWidths(pdf.GetStringWidth, header, rows)

	t := &tablePrinter{pdf: pdf, widths: widths}
	t.pageWidth, t.pageHeight = pdf.GetPageSize()

	pdf.AddPage()
	t.y = firstPageTop
	t.printRow(header, true)

	for _, row := range rows {
		if t.y+cellHeight > t.pageHeight-bottomMargin {
			pdf.AddPage()
			t.y = continuationTop
			t.printRow(header, true)
		}
		t.printRow(row, false)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

type tablePrinter struct {
	pdf        *fpdf.Fpdf
	widths     []float64
	pageWidth  float64
	pageHeight float64
	y          float64
}

func (t *tablePrinter) printRow(cells []string, header bool) {
	if header {
		t.pdf.SetFillColor(255, 165, 0)
	}
	x := marginLeft
	for i, cell := range cells {
		width := t.widths[i]
		if x+width > t.pageWidth && i > 0 {
			t.pdf.AddPage()
			x = marginLeft
			t.y = continuationTop
		}
		t.pdf.SetXY(x, t.y)
		t.pdf.CellFormat(width, cellHeight, cell, "1", 0, "C", header, 0, "")
		x += width
	}
	t.y += cellHeight
}

func columnWidths(measure func(string) float64, header []string, rows [][]string) []float64 {
	widths := make([]float64, len(header))
	for i, title := range header {
		widths[i] = max(minCellWidth, measure(title)+2*cellPadding)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], measure(cell)+2*cellPadding)
		}
	}
	return widths
}

func translate(tr func(string) string, cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = tr(c)
	}
	return out
}
