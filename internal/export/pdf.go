package export

import (
	"bytes"
	"time"

	"quiz-forge/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// pdfEpoch is stamped as the creation date so identical papers render to
// identical bytes
var pdfEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

func renderPDF(p *domain.QuestionPaper, lines []line) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetTitle(p.Title, true)
	pdf.SetCreator("quiz-forge", false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// core fonts are cp1252; characters outside it render as '?'
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, l := range lines {
		switch l.style {
		case styleTitle:
			pdf.SetFont("Helvetica", "B", 18)
			pdf.MultiCell(0, 9, tr(l.text), "", "C", false)
			pdf.Ln(2)
		case styleMeta:
			pdf.SetFont("Helvetica", "", 11)
			pdf.MultiCell(0, 6, tr(l.text), "", "C", false)
			pdf.Ln(2)
		case styleInstructions:
			pdf.SetFont("Helvetica", "I", 11)
			pdf.MultiCell(0, 6, tr(l.text), "", "L", false)
			pdf.Ln(4)
		case styleQuestion:
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "", 12)
			pdf.MultiCell(0, 6, tr(l.text), "", "L", false)
		case styleOption:
			pdf.SetFont("Helvetica", "", 12)
			pdf.SetX(28)
			pdf.MultiCell(0, 6, tr(l.text), "", "L", false)
		case styleHeading:
			pdf.AddPage()
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 8, tr(l.text), "", "L", false)
			pdf.Ln(2)
		case styleAnswer:
			pdf.SetFont("Helvetica", "", 12)
			pdf.MultiCell(0, 6, tr(l.text), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
