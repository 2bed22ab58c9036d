package pdflink

import (
	"fmt"
	"io"
	"os"

	"github.com/gardar/svglinkify/pkg/svg"
)

// pxToPt converts the renderer's 96dpi pixel space to PDF's 72dpi points.
const pxToPt = 0.75

// Annotation is one link annotation ready to be spliced into the
// document: an allocated object id, the owning page, the click region
// in point space, and the serialized action.
type Annotation struct {
	ID     int        // Allocated object id, generation 0
	Page   int        // Owning page number
	Rect   [4]float64 // Click region in points: llx, lly, urx, ury
	Action string     // Action dictionary body, e.g. "/URI /URI (https://...)"
	Target string     // Human-readable destination, for logs and the preview
}

// block serializes the annotation as one standalone QDF object block in
// the form the repair filter expects: header line, dict, endobj, blank
// separator lines.
func (a Annotation) block() []byte {
	return []byte(fmt.Sprintf(
		"\n%%%%QDF: ignore_newline\n%d 0 obj\n<<\n  /Type /Annot /Subtype /Link /Border [ 0 0 0 ] /A << /S %s >> /Rect [ %f %f %f %f ]\n>>\nendobj\n\n",
		a.ID, a.Action, a.Rect[0], a.Rect[1], a.Rect[2], a.Rect[3]))
}

// Synthesize combines the placement and link catalogs into annotations
// against the parsed PDF. Every placement of a link's source object
// yields one annotation on that page, each consuming a freshly
// allocated object id. Links that cannot be resolved - no bounding box,
// outside every page, or an internal target that does not exist - are
// dropped with a warning; a broken link never aborts the conversion.
func Synthesize(doc *Document, src svg.Document, objects map[string]*svg.Object, logger io.Writer) []Annotation {
	if logger == nil {
		logger = os.Stderr
	}
	pagesByNumber := make(map[int]svg.Page, len(src.Pages))
	for _, page := range src.Pages {
		pagesByNumber[page.Number] = page
	}

	var annots []Annotation
	for _, link := range src.Links {
		source := objects[link.SourceID]
		if source == nil {
			fmt.Fprintf(logger, "warning: no bounding box for link %q - ignoring link\n", link.SourceID)
			continue
		}
		if len(source.Locations) == 0 {
			fmt.Fprintf(logger, "warning: link %q is outside every page - ignoring link\n", link.SourceID)
			continue
		}

		action, target, ok := resolveAction(doc, link, objects, pagesByNumber, logger)
		if !ok {
			continue
		}

		// A source may itself span several pages; each placement gets
		// its own clickable region.
		for _, loc := range source.Locations {
			page := pagesByNumber[loc.Page]
			if _, ok := doc.Page(loc.Page); !ok {
				fmt.Fprintf(logger, "warning: pdf has no page %d - dropping an annotation for %q\n", loc.Page, link.SourceID)
				continue
			}
			annots = append(annots, Annotation{
				ID:   doc.AllocateID(),
				Page: loc.Page,
				Rect: [4]float64{
					loc.X * pxToPt,
					(page.H - loc.Y - source.H) * pxToPt,
					(loc.X + source.W) * pxToPt,
					(page.H - loc.Y) * pxToPt,
				},
				Action: action,
				Target: target,
			})
		}
	}
	return annots
}

// resolveAction builds the action dictionary body for one link.
// External targets become open-URI actions carrying the already escaped
// URI. Internal targets become go-to actions addressing the destination
// object's position on the page it was placed on.
func resolveAction(doc *Document, link svg.Link, objects map[string]*svg.Object, pages map[int]svg.Page, logger io.Writer) (action, target string, ok bool) {
	if !link.Internal() {
		return fmt.Sprintf("/URI /URI (%s)", link.URI), link.URI, true
	}

	dest := objects[link.TargetID]
	if dest == nil {
		fmt.Fprintf(logger, "warning: link target not found: #%s\n", link.TargetID)
		return "", "", false
	}
	if len(dest.Locations) == 0 {
		fmt.Fprintf(logger, "warning: link target #%s is outside every page\n", link.TargetID)
		return "", "", false
	}

	loc := mostProminentLocation(dest.Locations)
	pdfPage, found := doc.Page(loc.Page)
	if !found {
		fmt.Fprintf(logger, "warning: pdf has no page %d for link target #%s\n", loc.Page, link.TargetID)
		return "", "", false
	}
	page := pages[loc.Page]

	action = fmt.Sprintf("/GoTo /D [ %d %d R /XYZ %f %f 0 ]",
		pdfPage.Ref.ID, pdfPage.Ref.Gen,
		loc.X*pxToPt, (page.H-loc.Y)*pxToPt)
	return action, "#" + link.TargetID, true
}

// mostProminentLocation picks the placement with the greatest local y.
// For a target spanning several pages this approximates the page where
// it is placed most prominently; it is a heuristic, not a guarantee.
// Ties keep the earliest page.
func mostProminentLocation(locs []svg.PageLocation) svg.PageLocation {
	best := locs[0]
	for _, loc := range locs[1:] {
		if loc.Y > best.Y {
			best = loc
		}
	}
	return best
}
