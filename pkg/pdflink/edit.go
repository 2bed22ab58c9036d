package pdflink

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// edit is one pending buffer mutation: the bytes of span are replaced
// by text. A zero-width span is an insertion.
type edit struct {
	span
	text []byte
}

var (
	annotsKeyPattern = regexp.MustCompile(`/Annots\b`)
	refPattern       = regexp.MustCompile(`(\d+)\s+(\d+)\s+R\b`)
)

// Apply splices the synthesized annotations into the document graph:
// stale renderer-injected link annotations lose their references, every
// page's annotation list is rewritten with the ids owned by that page,
// the new annotation objects are spliced in ahead of the cross-reference
// section, and the cross-reference bookkeeping is extended to cover
// them. A Document can be applied exactly once; the byte spans recorded
// at parse time do not survive the edit.
//
// A buffer with nothing to change - no annotations and no stale links -
// comes out byte-identical.
func (d *Document) Apply(annots []Annotation) error {
	if d.edited {
		return fmt.Errorf("document is already edited; a second pass would corrupt the object graph")
	}

	stale := make(map[Ref]bool)
	for _, ref := range d.staleLinkAnnotations() {
		stale[ref] = true
	}

	byPage := make(map[int][]Annotation)
	for _, a := range annots {
		if _, ok := d.pages[a.Page]; !ok {
			return &EditError{Marker: fmt.Sprintf("page %d", a.Page)}
		}
		byPage[a.Page] = append(byPage[a.Page], a)
	}

	numbers := make([]int, 0, len(d.pages))
	for number := range d.pages {
		numbers = append(numbers, number)
	}
	sort.Ints(numbers)

	var edits []edit
	for _, number := range numbers {
		e, err := d.pageAnnotsEdit(d.pages[number], byPage[number], stale)
		if err != nil {
			return err
		}
		if e != nil {
			edits = append(edits, *e)
		}
	}

	if len(annots) > 0 {
		var blocks bytes.Buffer
		for _, a := range annots {
			blocks.Write(a.block())
		}
		edits = append(edits,
			edit{span{d.xrefStart, d.xrefStart}, blocks.Bytes()},
			edit{d.countSpan, []byte(strconv.Itoa(d.count + len(annots)))},
			edit{span{d.entriesEnd, d.entriesEnd}, bytes.Repeat([]byte("0000000000 00000 n \n"), len(annots))},
			edit{d.sizeSpan, []byte(strconv.Itoa(d.size + len(annots)))},
		)
	}

	out, err := d.rebuild(edits)
	if err != nil {
		return err
	}
	d.buf = out
	d.edited = true
	return nil
}

// Bytes returns the document buffer, including any applied edit.
func (d *Document) Bytes() []byte {
	return d.buf
}

// pageAnnotsEdit computes the single edit a page needs, or nil when its
// annotation list comes out unchanged. The final list keeps the page's
// existing references minus the stale ones, followed by the new ids in
// synthesis order. A page whose final list is empty loses the key
// entirely, so it is indistinguishable from a page that never carried
// links.
func (d *Document) pageAnnotsEdit(page *Object, additions []Annotation, stale map[Ref]bool) (*edit, error) {
	existing, keyStart, valueEnd, found, err := d.annotsValue(page)
	if err != nil {
		return nil, err
	}

	var kept []Ref
	dropped := false
	for _, ref := range existing {
		if stale[ref] {
			dropped = true
			continue
		}
		kept = append(kept, ref)
	}
	for _, a := range additions {
		kept = append(kept, Ref{ID: a.ID})
	}

	switch {
	case !found && len(kept) == 0:
		return nil, nil
	case !found:
		return d.annotsInsertion(page, kept)
	case !dropped && len(additions) == 0:
		// Indirect lists are only rewritten when their content changes.
		return nil, nil
	case len(kept) == 0:
		start, end := d.lineAlignedSpan(keyStart, valueEnd)
		return &edit{span{start, end}, nil}, nil
	default:
		return &edit{span{keyStart, valueEnd}, []byte("/Annots " + refList(kept))}, nil
	}
}

// annotsValue locates a page's annotation list. It returns the parsed
// references, the byte span from the key name through the end of its
// value, and whether the key exists at all. The value is either a
// direct array or an indirect reference to an array object; for the
// latter the referenced object is resolved so a rewrite can replace the
// reference with a direct array.
func (d *Document) annotsValue(page *Object) (refs []Ref, keyStart, valueEnd int, found bool, err error) {
	body := d.buf[page.bodyStart:page.bodyEnd]
	loc := annotsKeyPattern.FindIndex(body)
	if loc == nil {
		return nil, 0, 0, false, nil
	}
	keyStart = page.bodyStart + loc[0]

	pos := loc[1]
	for pos < len(body) && isWhitespace(body[pos]) {
		pos++
	}

	if pos < len(body) && body[pos] == '[' {
		closing := bytes.IndexByte(body[pos:], ']')
		if closing < 0 {
			return nil, 0, 0, false, &EditError{Marker: fmt.Sprintf("end of the annotation list of page %d", page.Page)}
		}
		refs = parseRefs(body[pos+1 : pos+closing])
		return refs, keyStart, page.bodyStart + pos + closing + 1, true, nil
	}

	// Indirect reference: the array lives in its own object.
	m := refPattern.FindSubmatchIndex(body[pos:])
	if m == nil || m[0] != 0 {
		return nil, 0, 0, false, &EditError{Marker: fmt.Sprintf("annotation list of page %d", page.Page)}
	}
	id, _ := strconv.Atoi(string(body[pos+m[2] : pos+m[3]]))
	array, ok := d.byID[id]
	if !ok {
		return nil, 0, 0, false, &EditError{Marker: fmt.Sprintf("annotation array object %d of page %d", id, page.Page)}
	}
	refs = parseRefs(d.buf[array.bodyStart:array.bodyEnd])
	return refs, keyStart, page.bodyStart + pos + m[1], true, nil
}

// annotsInsertion adds a fresh annotation list right after the page
// dictionary's opening delimiter.
func (d *Document) annotsInsertion(page *Object, refs []Ref) (*edit, error) {
	body := d.buf[page.bodyStart:page.bodyEnd]
	idx := bytes.Index(body, []byte("<<"))
	if idx < 0 {
		return nil, &EditError{Marker: fmt.Sprintf("dictionary of page %d", page.Page)}
	}
	at := page.bodyStart + idx + 2
	return &edit{span{at, at}, []byte("\n  /Annots " + refList(refs))}, nil
}

// lineAlignedSpan widens a key span to cover whole lines when nothing
// else shares them, so removing the key leaves no blank lines behind.
func (d *Document) lineAlignedSpan(start, end int) (int, int) {
	lineStart := start
	for lineStart > 0 && d.buf[lineStart-1] != '\n' {
		if c := d.buf[lineStart-1]; c != ' ' && c != '\t' {
			return start, end
		}
		lineStart--
	}
	lineEnd := end
	for lineEnd < len(d.buf) && d.buf[lineEnd] != '\n' {
		if c := d.buf[lineEnd]; c != ' ' && c != '\t' && c != '\r' {
			return start, end
		}
		lineEnd++
	}
	if lineEnd < len(d.buf) {
		lineEnd++
	}
	return lineStart, lineEnd
}

// rebuild applies the edits in one pass. Edits must not overlap; they
// are computed from disjoint parse spans, so an overlap is a bug, not
// bad input.
func (d *Document) rebuild(edits []edit) ([]byte, error) {
	sort.Slice(edits, func(i, j int) bool {
		if edits[i].start != edits[j].start {
			return edits[i].start < edits[j].start
		}
		return edits[i].end < edits[j].end
	})

	var out bytes.Buffer
	pos := 0
	for _, e := range edits {
		if e.start < pos || e.end > len(d.buf) {
			return nil, fmt.Errorf("cannot edit pdf: overlapping edits at byte %d", e.start)
		}
		out.Write(d.buf[pos:e.start])
		out.Write(e.text)
		pos = e.end
	}
	out.Write(d.buf[pos:])
	return out.Bytes(), nil
}

func parseRefs(raw []byte) []Ref {
	var refs []Ref
	for _, m := range refPattern.FindAllSubmatch(raw, -1) {
		id, _ := strconv.Atoi(string(m[1]))
		gen, _ := strconv.Atoi(string(m[2]))
		refs = append(refs, Ref{ID: id, Gen: gen})
	}
	return refs
}

func refList(refs []Ref) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = ref.String()
	}
	return "[ " + strings.Join(parts, " ") + " ]"
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
