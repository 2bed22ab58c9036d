// Package pdflink reinstates SVG hyperlinks as clickable link annotations
// in PDFs exported by Inkscape.
//
// Inkscape's PDF export drops or misplaces the hyperlinks of an SVG. This
// package runs the whole conversion: it parses the source SVG, asks the
// renderer where every object landed, exports the PDF, and then edits the
// normalized (QDF) form of that PDF to splice one link annotation into
// the object graph per placement of a linked object. Both internal links
// (to another object of the same document) and external URI links survive
// the round trip.
//
// The resulting PDFs have clickable regions aligned with the source
// objects:
// - External links open the target URI
// - Internal links pan and zoom to the target object on the page it landed on
// - An object spanning several pages gets one clickable region per page
//
// Key Features:
//
// - Click regions computed from the renderer's own bounding boxes
// - Structural QDF editing that keeps the object graph consistent
// - Removal of the misplaced link annotations injected by the renderer
// - An optional preview PDF outlining every synthesized click region
//
// Main Functions:
//
// - Convert: Runs the SVG to linked-PDF pipeline end to end
// - ParseQDF: Parses a normalized buffer into an editable document graph
// - Synthesize: Builds annotations from placements and links
// - Document.Apply: Splices annotations into the document graph
package pdflink

import (
	"context"
	"fmt"
	"os"

	"github.com/gardar/svglinkify/pkg/inkscape"
	"github.com/gardar/svglinkify/pkg/qpdf"
	"github.com/gardar/svglinkify/pkg/svg"
)

// Convert turns an SVG into a PDF with working hyperlinks. The stages
// run strictly in sequence: parse the SVG, query bounding boxes, place
// objects onto pages, export, normalize, edit the object graph, repair,
// recompress to the output path. Any stage failure aborts the whole
// conversion and nothing is written to pdfPath; intermediate artifacts
// are removed on every path.
func Convert(ctx context.Context, svgPath, pdfPath string, config Config) error {
	logger := getLogger(config)

	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	inkscapeBin, err := inkscape.Find(config.InkscapePath)
	if err != nil {
		return err
	}
	qpdfBin, err := qpdf.Find(config.QPDFPath)
	if err != nil {
		return err
	}
	fixQDFBin, err := qpdf.FindFix(config.FixQDFPath)
	if err != nil {
		return err
	}

	// Parse the source: geometry, pages and links.
	svgData, err := os.ReadFile(svgPath)
	if err != nil {
		return fmt.Errorf("failed to read svg file: %w", err)
	}
	src, err := svg.Parse(svgData)
	if err != nil {
		return err
	}
	if len(src.Links) == 0 {
		fmt.Fprintf(logger, "did not find any links in %s - the output will carry no link annotations\n", svgPath)
	}
	debugf(config, "parsed svg: %d page(s), %d link(s)", len(src.Pages), len(src.Links))

	// Ask the renderer where every identifiable object lands and place
	// the boxes onto the pages they intersect.
	objects, err := inkscape.QueryObjects(ctx, inkscapeBin, svgPath, logger)
	if err != nil {
		return err
	}
	svg.ResolvePlacements(src.Pages, objects)
	debugf(config, "renderer reported %d object box(es)", len(objects))

	// Export the SVG to the intermediate PDF.
	renderedPath, cleanupRendered, err := tempArtifact("svglinkify-im-pdf-*.pdf")
	if err != nil {
		return err
	}
	defer cleanupRendered()

	if err := inkscape.ExportPDF(ctx, inkscapeBin, svgPath, renderedPath, config.ExportDPI, config.InkscapeArgs); err != nil {
		return err
	}
	debugf(config, "exported %s", renderedPath)

	// Normalize it so the object graph can be edited as text.
	qdfPath, cleanupQDF, err := tempArtifact("svglinkify-qdf-*.pdf")
	if err != nil {
		return err
	}
	defer cleanupQDF()

	if err := qpdf.Normalize(ctx, qpdfBin, renderedPath, qdfPath); err != nil {
		return err
	}
	buf, err := os.ReadFile(qdfPath)
	if err != nil {
		return fmt.Errorf("failed to read normalized pdf: %w", err)
	}

	doc, err := ParseQDF(buf)
	if err != nil {
		return err
	}
	if config.DumpQDF {
		dumpQDFStructure(doc, logger)
	}

	// Splice the link annotations into the graph.
	annots := Synthesize(doc, src, objects, logger)
	debugf(config, "synthesized %d annotation(s), next free object id %d", len(annots), doc.NextID())
	if err := doc.Apply(annots); err != nil {
		return err
	}

	if config.PreviewPath != "" {
		if err := writePreview(config.PreviewPath, renderedPath, src.Pages, annots, config); err != nil {
			fmt.Fprintf(logger, "warning: cannot write preview: %v\n", err)
		} else {
			debugf(config, "wrote preview %s", config.PreviewPath)
		}
	}

	// Let the repair filter recompute offsets, then pack the result
	// into the output file.
	fixed, err := qpdf.FixQDF(ctx, fixQDFBin, doc.Bytes())
	if err != nil {
		return err
	}
	if err := os.WriteFile(qdfPath, fixed, 0666); err != nil {
		return fmt.Errorf("failed to write repaired pdf: %w", err)
	}
	if err := qpdf.Recompress(ctx, qpdfBin, qdfPath, pdfPath); err != nil {
		return err
	}
	return nil
}

// tempArtifact creates an empty scratch file for an external tool to
// write into and returns its path with a cleanup function.
func tempArtifact(pattern string) (string, func(), error) {
	f, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	path := f.Name()
	f.Close()
	return path, func() { os.Remove(path) }, nil
}
