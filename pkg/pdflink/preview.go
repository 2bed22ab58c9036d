package pdflink

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
	"golang.org/x/text/encoding/charmap"

	"github.com/gardar/svglinkify/pkg/svg"
)

// writePreview renders a proofing PDF: every page of the intermediate
// render is imported as a template and each synthesized click region is
// outlined in red with a small label naming its target. gofpdi reports
// import problems by panicking, so the whole render is fenced off; the
// pipeline treats a preview failure as a warning.
func writePreview(path, renderedPDFPath string, pages []svg.Page, annots []Annotation, config Config) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("preview rendering failed: %v", r)
		}
	}()

	data, err := os.ReadFile(renderedPDFPath)
	if err != nil {
		return fmt.Errorf("failed to read rendered pdf: %w", err)
	}

	pdf := fpdf.New("P", "pt", "", "")
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(data))
	font := config.Font

	for _, page := range pages {
		widthPt := page.W * pxToPt
		heightPt := page.H * pxToPt

		pdf.AddPageFormat("P", fpdf.SizeType{Wd: widthPt, Ht: heightPt})

		tpl := importer.ImportPageFromStream(pdf, &rs, page.Number, "/MediaBox")
		importer.UseImportedTemplate(pdf, tpl, 0, 0, widthPt, 0)

		pdf.SetFont(font.Name, font.Style, font.Size)
		pdf.SetDrawColor(255, 0, 0)
		pdf.SetTextColor(255, 0, 0)

		for _, a := range annots {
			if a.Page != page.Number {
				continue
			}
			x, y, w, h := previewRect(a, heightPt)
			pdf.Rect(x, y, w, h, "D")
			// Baseline sits far enough above the box that descenders
			// clear its top edge.
			pdf.Text(x, y-font.Size*(1-font.AscentRatio), latin1Label(a.Target))
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write preview pdf: %w", err)
	}
	return nil
}

// previewRect converts an annotation rectangle from PDF's bottom-left
// origin to fpdf's top-left drawing coordinates.
func previewRect(a Annotation, pageHeightPt float64) (x, y, w, h float64) {
	return a.Rect[0], pageHeightPt - a.Rect[3], a.Rect[2] - a.Rect[0], a.Rect[3] - a.Rect[1]
}

// latin1Label converts a label to the encoding fpdf's core fonts
// expect, falling back to the raw text.
func latin1Label(s string) string {
	latin1, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return s
	}
	return latin1
}
