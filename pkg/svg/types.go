package svg

// Document is the parsed model of one SVG source: its resolved geometry,
// its page declarations, and its hyperlink anchors.
type Document struct {
	Geometry Geometry // Resolved document geometry
	Pages    []Page   // Pages in declaration order (synthesized if none declared)
	Links    []Link   // Hyperlink anchors in first-seen declaration order
}

// ViewBox is the user-coordinate window declared on the svg root.
type ViewBox struct {
	X float64 // Left coordinate in viewbox units
	Y float64 // Top coordinate in viewbox units
	W float64 // Width in viewbox units
	H float64 // Height in viewbox units
}

// Geometry holds the document size in pixels and the viewbox-to-pixel scale.
type Geometry struct {
	WidthPx  float64 // Declared width resolved to pixels
	HeightPx float64 // Declared height resolved to pixels
	ViewBox  ViewBox // Declared viewbox
	ScaleX   float64 // Pixels per viewbox unit, horizontal
	ScaleY   float64 // Pixels per viewbox unit, vertical
}

// Page is one page of the document in pixel space.
// Corresponds to an inkscape:page declaration, or to the whole viewbox
// when the document declares no pages.
type Page struct {
	Number int     // 1-based page number in declaration order
	X      float64 // Left edge in pixels
	Y      float64 // Top edge in pixels
	W      float64 // Width in pixels
	H      float64 // Height in pixels
}

// Link is one hyperlink anchor: the id of the anchor element plus its
// target. Internal links carry the destination id in TargetID and leave
// URI empty; external links carry the escaped URI. A bare "#" target is
// internal with an empty TargetID.
type Link struct {
	SourceID string // id attribute of the anchor element
	TargetID string // Destination element id for internal links
	URI      string // Escaped destination for external links
}

// Internal reports whether the link points at another element of the
// same document.
func (l Link) Internal() bool { return l.URI == "" }

// Object is the rendered bounding box of one SVG element in pixel space,
// plus the pages it landed on.
type Object struct {
	ID        string         // Element id
	X         float64        // Left edge in pixels
	Y         float64        // Top edge in pixels
	W         float64        // Width in pixels
	H         float64        // Height in pixels
	Locations []PageLocation // Placements filled in by ResolvePlacements
}

// PageLocation is an object's position relative to one page it intersects.
// The offsets are raw origin deltas; nothing is clipped to the page.
type PageLocation struct {
	Page int     // Page number
	X    float64 // Object origin minus page origin, horizontal
	Y    float64 // Object origin minus page origin, vertical
}
