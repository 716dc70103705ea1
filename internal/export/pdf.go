// Package export renders report tables into downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Table is a titled grid of string cells keyed by header.
type Table struct {
	Title    string
	Subtitle string
	Headers  []string
	Rows     []map[string]string
	Footer   map[string]string
}

// PDFExporter renders tables into a single-page-flow A4 PDF.
type PDFExporter struct {
	orientation string
}

// NewPDFExporter constructs a portrait exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{orientation: "P"}
}

// Render creates the PDF document. Rows that do not fit on a page continue
// on the next one with the header row repeated.
func (e *PDFExporter) Render(table Table) ([]byte, error) {
	if len(table.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New(e.orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(false, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(table.Headers))

	if table.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(strings.ToUpper(table.Title)), "", 1, "C", false, 0, "")
	}
	if table.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(table.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, h := range table.Headers {
			pdf.CellFormat(colWidth, 8, tr(h), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	row := func(cells map[string]string, bold bool) {
		if pdf.GetY()+7 > pageHeight-bottom {
			pdf.AddPage()
			header()
		}
		if bold {
			pdf.SetFont("Arial", "B", 9)
		}
		for i, h := range table.Headers {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(colWidth, 7, tr(cells[h]), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		if bold {
			pdf.SetFont("Arial", "", 9)
		}
	}

	header()
	for _, cells := range table.Rows {
		row(cells, false)
	}
	if len(table.Footer) > 0 {
		row(table.Footer, true)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
