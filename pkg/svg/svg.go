// Package svg implements parsing of SVG sources into the geometry, page,
// and hyperlink model that drives PDF link reinstatement.
//
// This package provides:
//
// - Resolution of document dimensions and length units into pixel space
// - Extraction of page declarations, with a synthesized fallback page
// - A catalog of hyperlink anchors with internal/external target handling
// - Placement of rendered object boxes onto the pages they intersect
//
// The model follows what the renderer works from: a Document holds the
// resolved Geometry, the Pages and the Links of one source. Objects arrive
// separately, from the renderer's bounding-box report, and are placed onto
// pages by ResolvePlacements.
//
// Key Types:
//
// - Document: Parsed geometry, pages and links of one SVG source
// - Geometry: Pixel dimensions plus viewbox-to-pixel scale factors
// - Page: One page rectangle in pixel space
// - Link: One hyperlink anchor, either an internal target id or an external URI
// - Object: One rendered element box with its page placements
//
// Main Functions:
//
// - Parse: Parses SVG data into the object model
// - ParseLength: Resolves one SVG length declaration to pixels
// - ResolvePlacements: Computes object positions relative to the pages they touch
package svg
