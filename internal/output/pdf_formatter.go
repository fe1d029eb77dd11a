package output

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/pkg/errors"
	"github.com/rgehrsitz/taxpro/internal/domain"
)

// PDFFormatter renders the four-stage settlement as a printable A4 page
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.Report) ([]byte, error) {
	r := &report.Result

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("Annual income tax settlement AT %d", report.Rules.Metadata.TaxYear), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(255, 149, 0)
	pdf.Cell(0, 10, tr(fmt.Sprintf("ANNUAL INCOME TAX SETTLEMENT (AT %d)", report.Rules.Metadata.TaxYear)))
	pdf.Ln(14)

	for _, stage := range LineItems(report) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(29, 29, 31)
		pdf.Cell(0, 7, tr(fmt.Sprintf("STEP %d: %s", stage.Number, stage.Title)))
		pdf.Ln(7)

		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(134, 134, 139)
		pdf.Cell(0, 6, tr(stage.Question))
		pdf.Ln(7)

		if stage.Number == 3 {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.SetTextColor(255, 149, 0)
			pdf.Cell(0, 6, tr(BandLabel(r.MarginalRate)))
			pdf.Ln(7)
		}

		for _, item := range stage.Items {
			style := ""
			if item.Kind == TotalItem {
				style = "B"
			}
			pdf.SetFont("Helvetica", style, 11)
			pdf.SetTextColor(29, 29, 31)
			pdf.CellFormat(130, 6, tr(item.Label), "", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, tr(item.Display()), "", 1, "R", false, 0, "")
		}

		if stage.Note != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(134, 134, 139)
			pdf.MultiCell(180, 5, tr(stage.Note), "", "L", false)
		}
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render PDF")
	}
	return buf.Bytes(), nil
}
