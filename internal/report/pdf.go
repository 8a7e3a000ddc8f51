package report

import (
	"github.com/jung-kurt/gofpdf"
)

// WritePDF renders the link list as a PDF with clickable titles.
func WritePDF(path string, links []Link) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Harradine Reports", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Harradine Reports", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, "Top search result on each agency's own domain; some links are wrong.", "", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 200)
	for _, l := range links {
		pdf.WriteLinkString(6, tr(l.Title), l.URL)
		pdf.Ln(7)
	}
	return pdf.OutputFileAndClose(path)
}
