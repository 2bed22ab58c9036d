package pdflink

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// EditError reports a normalized buffer that is missing a structural
// marker the editor depends on. It usually means the buffer was not
// produced by a compatible qpdf version, or not normalized at all.
type EditError struct {
	Marker string // The structural marker that could not be found
}

func (e *EditError) Error() string {
	return "cannot edit pdf: no " + e.Marker + " found - was it normalized by a compatible qpdf?"
}

// Ref identifies one indirect object by id and generation.
type Ref struct {
	ID  int
	Gen int
}

func (r Ref) String() string {
	return fmt.Sprintf("%d %d R", r.ID, r.Gen)
}

// Object is one indirect object block of a normalized buffer. The byte
// spans index into the Document's buffer and make precise edits
// possible without rescanning.
type Object struct {
	Ref       Ref
	Page      int  // Page number per the preceding %% Page marker, 0 for non-pages
	HasStream bool // Body carries stream data

	start     int // Offset of the header line
	bodyStart int // Offset right after the header line
	bodyEnd   int // Offset of the endobj line
	end       int // Offset right after the endobj line
}

// span is a half-open byte range into a document buffer.
type span struct {
	start, end int
}

// Document is the parsed object graph of one QDF buffer: every indirect
// object with its byte span, the page objects by page number, and the
// cross-reference bookkeeping that bounds the next free object id.
type Document struct {
	buf     []byte
	objects []*Object
	byID    map[int]*Object
	pages   map[int]*Object

	xrefStart  int  // Offset of the xref line; new objects splice in ahead of it
	subStart   int  // First id covered by the xref subsection
	count      int  // Declared entry count of the subsection
	countSpan  span // Bytes of the count field, for rewriting
	entriesEnd int  // Offset right after the last xref entry
	size       int  // Declared /Size in the trailer
	sizeSpan   span // Bytes of the /Size value, for rewriting

	nextID int  // High-water object id, advanced by AllocateID
	edited bool // Set once Apply has run
}

// Structural markers of qpdf's QDF form. Headers and section keywords
// always start a line; stream payloads are never scanned against these.
var (
	objHeaderPattern      = regexp.MustCompile(`^(\d+)\s+(\d+)\s+obj\b`)
	pageMarkerPattern     = regexp.MustCompile(`^%% Page (\d+)\b`)
	xrefSubsectionPattern = regexp.MustCompile(`^(\d+)\s+(\d+)\s*$`)
	xrefEntryPattern      = regexp.MustCompile(`^\d{10} \d{5} [fn]\s*$`)
	sizePattern           = regexp.MustCompile(`/Size\s+(\d+)`)
)

// ParseQDF scans a normalized buffer into a Document. The buffer must
// come from qpdf's QDF mode: one object per readable block, a plain
// cross-reference table, and %% Page comments ahead of page objects.
func ParseQDF(buf []byte) (*Document, error) {
	d := &Document{
		buf:       buf,
		byID:      make(map[int]*Object),
		pages:     make(map[int]*Object),
		xrefStart: -1,
	}

	pendingPage := 0
	pos := 0
	for pos < len(buf) {
		line, next := scanLine(buf, pos)

		if m := pageMarkerPattern.FindSubmatch(line); m != nil {
			pendingPage, _ = strconv.Atoi(string(m[1]))
			pos = next
			continue
		}

		if m := objHeaderPattern.FindSubmatch(line); m != nil {
			obj, after, err := parseObject(buf, pos, next, m)
			if err != nil {
				return nil, err
			}
			obj.Page = pendingPage
			pendingPage = 0
			d.objects = append(d.objects, obj)
			d.byID[obj.Ref.ID] = obj
			if obj.Page > 0 {
				d.pages[obj.Page] = obj
			}
			pos = after
			continue
		}

		if string(bytes.TrimRight(line, " \r")) == "xref" {
			d.xrefStart = pos
			if err := d.parseXref(next); err != nil {
				return nil, err
			}
			break
		}

		pos = next
	}

	if len(d.objects) == 0 {
		return nil, &EditError{Marker: "pdf objects"}
	}
	if d.xrefStart < 0 {
		return nil, &EditError{Marker: "xref table"}
	}
	if len(d.pages) == 0 {
		return nil, &EditError{Marker: "page markers"}
	}

	d.nextID = d.subStart + d.count
	return d, nil
}

// parseObject consumes one object block starting at the header line.
// Stream payloads are skipped wholesale so their bytes can never be
// mistaken for structural markers.
func parseObject(buf []byte, start, bodyStart int, header [][]byte) (*Object, int, error) {
	id, _ := strconv.Atoi(string(header[1]))
	gen, _ := strconv.Atoi(string(header[2]))
	obj := &Object{
		Ref:       Ref{ID: id, Gen: gen},
		start:     start,
		bodyStart: bodyStart,
	}

	pos := bodyStart
	for pos < len(buf) {
		line, next := scanLine(buf, pos)
		trimmed := string(bytes.TrimRight(line, " \r"))

		if trimmed == "endobj" {
			obj.bodyEnd = pos
			obj.end = next
			return obj, next, nil
		}
		if trimmed == "stream" {
			obj.HasStream = true
			resume, err := skipStream(buf, next, obj.Ref)
			if err != nil {
				return nil, 0, err
			}
			pos = resume
			continue
		}
		pos = next
	}
	return nil, 0, &EditError{Marker: fmt.Sprintf("endobj of object %d %d", id, gen)}
}

// skipStream jumps from the start of stream data to the endstream line
// that is directly followed by endobj. A lone endstream-looking line
// inside the payload does not terminate the stream.
func skipStream(buf []byte, from int, ref Ref) (int, error) {
	search := from
	for {
		idx := bytes.Index(buf[search:], []byte("\nendstream"))
		if idx < 0 {
			return 0, &EditError{Marker: fmt.Sprintf("endstream of object %d %d", ref.ID, ref.Gen)}
		}
		lineStart := search + idx + 1
		line, next := scanLine(buf, lineStart)
		if string(bytes.TrimRight(line, " \r")) == "endstream" {
			following, _ := scanLine(buf, next)
			if string(bytes.TrimRight(following, " \r")) == "endobj" {
				return lineStart, nil
			}
		}
		search = lineStart
	}
}

// parseXref reads the subsection header, skips over the entries, and
// locates the trailer's /Size value. Only the bookkeeping spans are
// recorded; entry offsets are left to fix-qdf.
func (d *Document) parseXref(pos int) error {
	line, next := scanLine(d.buf, pos)
	loc := xrefSubsectionPattern.FindSubmatchIndex(line)
	if loc == nil {
		return &EditError{Marker: "xref subsection header"}
	}
	d.subStart, _ = strconv.Atoi(string(line[loc[2]:loc[3]]))
	d.count, _ = strconv.Atoi(string(line[loc[4]:loc[5]]))
	d.countSpan = span{pos + loc[4], pos + loc[5]}

	pos = next
	for pos < len(d.buf) {
		entry, entryNext := scanLine(d.buf, pos)
		if !xrefEntryPattern.Match(entry) {
			break
		}
		pos = entryNext
	}
	d.entriesEnd = pos

	rest := d.buf[pos:]
	if !bytes.HasPrefix(rest, []byte("trailer")) {
		return &EditError{Marker: "xref trailer"}
	}
	sizeLoc := sizePattern.FindSubmatchIndex(rest)
	if sizeLoc == nil {
		return &EditError{Marker: "trailer /Size"}
	}
	d.size, _ = strconv.Atoi(string(rest[sizeLoc[2]:sizeLoc[3]]))
	d.sizeSpan = span{pos + sizeLoc[2], pos + sizeLoc[3]}
	return nil
}

// scanLine returns the line starting at pos, without its newline, and
// the offset of the following line.
func scanLine(buf []byte, pos int) ([]byte, int) {
	if idx := bytes.IndexByte(buf[pos:], '\n'); idx >= 0 {
		return buf[pos : pos+idx], pos + idx + 1
	}
	return buf[pos:], len(buf)
}

// Page returns the object rendering the given 1-based page number.
func (d *Document) Page(number int) (*Object, bool) {
	obj, ok := d.pages[number]
	return obj, ok
}

// NextID returns the next free object id without allocating it. The
// initial value comes from the cross-reference subsection: first id
// plus declared count.
func (d *Document) NextID() int {
	return d.nextID
}

// AllocateID hands out the next free object id. Ids are never reused
// within a run, so every allocation must end up spliced into the
// document to keep the numbering gap-free for fix-qdf.
func (d *Document) AllocateID() int {
	id := d.nextID
	d.nextID++
	return id
}

// Renderer-injected link annotations match on both keys. The match is
// whitespace-tolerant but anchored to name boundaries.
var (
	typeAnnotPattern   = regexp.MustCompile(`/Type\s*/Annot\b`)
	subtypeLinkPattern = regexp.MustCompile(`/Subtype\s*/Link\b`)
)

// staleLinkAnnotations finds link annotation objects already present in
// the buffer. The renderer injects these for some anchors, with click
// regions that do not line up; their references get dropped from every
// page. Stream objects are never candidates.
func (d *Document) staleLinkAnnotations() []Ref {
	var stale []Ref
	for _, obj := range d.objects {
		if obj.HasStream {
			continue
		}
		body := d.buf[obj.bodyStart:obj.bodyEnd]
		if typeAnnotPattern.Match(body) && subtypeLinkPattern.Match(body) {
			stale = append(stale, obj.Ref)
		}
	}
	return stale
}
