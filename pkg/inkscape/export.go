package inkscape

import (
	"context"
	"fmt"
)

// ExportPDF renders the SVG source to a PDF file. The dpi setting
// controls rasterization of filtered content; extra arguments are
// passed to the renderer verbatim, after the input path.
func ExportPDF(ctx context.Context, bin, svgPath, pdfPath string, dpi int, extraArgs []string) error {
	args := []string{
		"--export-type=pdf",
		"--export-overwrite",
		"--export-filename=" + pdfPath,
	}
	if dpi > 0 {
		args = append(args, fmt.Sprintf("--export-dpi=%d", dpi))
	}
	args = append(args, svgPath)
	args = append(args, extraArgs...)

	_, err := run(ctx, bin, args...)
	return err
}
