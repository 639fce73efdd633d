package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageMargin  = 10.0
	nameColumn  = 45.0
	rowHeight   = 6.0
	headerFont  = 14.0
	tableFont   = 7.0
	landscapeA4 = 297.0
)

// MatrixSheet is a grid with one labelled row per person and one column per day.
type MatrixSheet struct {
	Title  string
	Legend string
	Days   int
	Rows   []MatrixRow
}

type MatrixRow struct {
	Label string
	// Cells holds one value per day, index 0 is day 1.
	Cells []string
}

// WriteMatrixPDF renders the sheet as a landscape A4 document.
func WriteMatrixPDF(w io.Writer, sheet MatrixSheet) error {
	if sheet.Days <= 0 {
		return fmt.Errorf("matrix must have at least one day column")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", headerFont)
	pdf.CellFormat(0, 10, sheet.Title, "", 1, "L", false, 0, "")
	if sheet.Legend != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 6, sheet.Legend, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	dayWidth := (landscapeA4 - 2*pageMargin - nameColumn) / float64(sheet.Days)

	header := func() {
		pdf.SetFont("Helvetica", "B", tableFont)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(nameColumn, rowHeight, "Name", "1", 0, "L", true, 0, "")
		for d := 1; d <= sheet.Days; d++ {
			pdf.CellFormat(dayWidth, rowHeight, fmt.Sprintf("%d", d), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", tableFont)
	}
	header()

	_, pageHeight := pdf.GetPageSize()
	for _, row := range sheet.Rows {
		if pdf.GetY()+rowHeight > pageHeight-pageMargin {
			pdf.AddPage()
			header()
		}
		pdf.CellFormat(nameColumn, rowHeight, truncate(row.Label, 30), "1", 0, "L", false, 0, "")
		for d := 0; d < sheet.Days; d++ {
			value := ""
			if d < len(row.Cells) {
				value = row.Cells[d]
			}
			pdf.CellFormat(dayWidth, rowHeight, value, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "."
}
