package svg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// MalformedDocumentError reports an SVG source that cannot serve as
// conversion input: a missing svg root, absent or unparseable geometry
// attributes, or a degenerate viewbox.
type MalformedDocumentError struct {
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return "malformed svg: " + e.Reason
}

// The viewbox is four non-negative decimals separated by whitespace.
var viewBoxPattern = regexp.MustCompile(`^\s*([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s*$`)

// Parse converts raw SVG data into a structured Document.
func Parse(data []byte) (Document, error) {
	var result Document

	// Figure out the character encoding from the XML declaration
	content := string(data)
	encoding := "utf-8"
	if idx := strings.Index(content, "encoding="); idx >= 0 {
		encSnippet := content[idx+len("encoding="):]
		if len(encSnippet) > 20 {
			encSnippet = encSnippet[:20]
		}
		fields := strings.FieldsFunc(encSnippet, func(r rune) bool {
			return r == '"' || r == '\'' || r == '?' || r == '>' || r == ' '
		})
		if len(fields) > 0 && fields[0] != "" {
			encoding = strings.ToLower(fields[0])
		}
	}

	// Convert to UTF-8 if needed
	var decoded []byte
	var err error
	if encoding != "utf-8" {
		decoder := charmap.ISO8859_1.NewDecoder()
		decoded, err = decoder.Bytes(data)
		if err != nil {
			return result, fmt.Errorf("failed to decode %s: %w", encoding, err)
		}
	} else {
		decoded = data
	}

	doc, err := html.Parse(strings.NewReader(string(decoded)))
	if err != nil {
		return result, err
	}

	root := findRoot(doc)
	if root == nil {
		return result, &MalformedDocumentError{Reason: "no svg root element found"}
	}

	geom, err := resolveGeometry(root)
	if err != nil {
		return result, err
	}
	result.Geometry = geom

	pages, err := collectPages(root, geom)
	if err != nil {
		return result, err
	}
	result.Pages = pages

	result.Links = collectLinks(root)
	return result, nil
}

// findRoot locates the svg root element anywhere in the parsed tree.
func findRoot(doc *html.Node) *html.Node {
	var find func(*html.Node) *html.Node
	find = func(n *html.Node) *html.Node {
		if n.Type == html.ElementNode && n.Data == "svg" {
			return n
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if found := find(c); found != nil {
				return found
			}
		}
		return nil
	}
	return find(doc)
}

// resolveGeometry resolves the root width/height declarations and the
// viewbox into pixel space. The scale factors convert viewbox units to
// pixels and are fixed for the lifetime of the document.
func resolveGeometry(root *html.Node) (Geometry, error) {
	var geom Geometry

	width := attrVal(root, "width")
	if width == "" {
		return geom, &MalformedDocumentError{Reason: "svg root has no width attribute"}
	}
	height := attrVal(root, "height")
	if height == "" {
		return geom, &MalformedDocumentError{Reason: "svg root has no height attribute"}
	}

	var err error
	geom.WidthPx, err = ParseLength(width)
	if err != nil {
		return geom, err
	}
	geom.HeightPx, err = ParseLength(height)
	if err != nil {
		return geom, err
	}

	raw := attrVal(root, "viewBox")
	if raw == "" {
		return geom, &MalformedDocumentError{Reason: "svg root has no viewBox attribute"}
	}
	geom.ViewBox, err = parseViewBox(raw)
	if err != nil {
		return geom, err
	}
	if geom.ViewBox.W <= 0 || geom.ViewBox.H <= 0 {
		return geom, &MalformedDocumentError{Reason: fmt.Sprintf("viewBox %q has no extent", raw)}
	}

	geom.ScaleX = geom.WidthPx / geom.ViewBox.W
	geom.ScaleY = geom.HeightPx / geom.ViewBox.H
	return geom, nil
}

// parseViewBox breaks a viewBox attribute into its four coordinates.
func parseViewBox(s string) (ViewBox, error) {
	var vb ViewBox
	m := viewBoxPattern.FindStringSubmatch(s)
	if m == nil {
		return vb, &MalformedDocumentError{Reason: fmt.Sprintf("cannot parse viewBox %q", s)}
	}

	vals := make([]float64, 4)
	for i, field := range m[1:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return vb, &MalformedDocumentError{Reason: fmt.Sprintf("cannot parse viewBox %q: %v", s, err)}
		}
		vals[i] = v
	}

	vb.X, vb.Y, vb.W, vb.H = vals[0], vals[1], vals[2], vals[3]
	return vb, nil
}

// collectPages gathers inkscape:page declarations in document order and
// scales them to pixel space. A document without page declarations gets
// a single synthesized page covering the whole viewbox.
func collectPages(root *html.Node, geom Geometry) ([]Page, error) {
	var pages []Page
	var walkErr error

	var findPages func(*html.Node)
	findPages = func(n *html.Node) {
		if walkErr != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "inkscape:page" {
			page, err := processPage(n, len(pages)+1, geom)
			if err != nil {
				walkErr = err
				return
			}
			pages = append(pages, page)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findPages(c)
		}
	}
	findPages(root)

	if walkErr != nil {
		return nil, walkErr
	}
	if len(pages) == 0 {
		vb := geom.ViewBox
		pages = append(pages, Page{
			Number: 1,
			X:      vb.X * geom.ScaleX,
			Y:      vb.Y * geom.ScaleY,
			W:      vb.W * geom.ScaleX,
			H:      vb.H * geom.ScaleY,
		})
	}
	return pages, nil
}

// processPage extracts one page declaration and scales it to pixel space.
func processPage(n *html.Node, number int, geom Geometry) (Page, error) {
	page := Page{Number: number}

	x, err := pageAttr(n, "x", number)
	if err != nil {
		return page, err
	}
	y, err := pageAttr(n, "y", number)
	if err != nil {
		return page, err
	}
	w, err := pageAttr(n, "width", number)
	if err != nil {
		return page, err
	}
	h, err := pageAttr(n, "height", number)
	if err != nil {
		return page, err
	}

	page.X = x * geom.ScaleX
	page.Y = y * geom.ScaleY
	page.W = w * geom.ScaleX
	page.H = h * geom.ScaleY
	return page, nil
}

// pageAttr reads one numeric attribute of a page declaration.
func pageAttr(n *html.Node, name string, number int) (float64, error) {
	raw := attrVal(n, name)
	if raw == "" {
		return 0, &MalformedDocumentError{Reason: fmt.Sprintf("page %d has no %s attribute", number, name)}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &MalformedDocumentError{Reason: fmt.Sprintf("page %d has unparseable %s %q", number, name, raw)}
	}
	return v, nil
}

// collectLinks gathers anchor elements carrying both an id and a target.
// A later anchor reusing an already-seen id replaces the earlier target;
// the catalog keeps first-seen order.
func collectLinks(root *html.Node) []Link {
	var links []Link
	index := make(map[string]int)

	var findAnchors func(*html.Node)
	findAnchors = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			id := attrVal(n, "id")
			href := attrVal(n, "href")
			if href == "" {
				href = attrVal(n, "xlink:href")
			}
			if id != "" && href != "" {
				link := newLink(id, href)
				if at, seen := index[id]; seen {
					links[at] = link
				} else {
					index[id] = len(links)
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findAnchors(c)
		}
	}
	findAnchors(root)

	return links
}

// newLink classifies one anchor target. Internal targets carry a #
// marker; everything else is an external URI whose parentheses must be
// escaped before it lands inside a PDF string.
func newLink(id, href string) Link {
	if strings.HasPrefix(href, "#") {
		return Link{SourceID: id, TargetID: strings.TrimPrefix(href, "#")}
	}
	uri := strings.ReplaceAll(href, "(", "%28")
	uri = strings.ReplaceAll(uri, ")", "%29")
	return Link{SourceID: id, URI: uri}
}

// attrVal returns the value of an attribute. The key match ignores case
// and any namespace prefix the parser split off, so viewBox and
// xlink:href resolve no matter how the source spelled them.
func attrVal(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		key := attr.Key
		if attr.Namespace != "" {
			key = attr.Namespace + ":" + attr.Key
		}
		if strings.EqualFold(key, name) {
			return attr.Val
		}
	}
	return ""
}
