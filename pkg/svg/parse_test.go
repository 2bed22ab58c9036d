package svg

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPageSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:xlink="http://www.w3.org/1999/xlink"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     width="100mm" height="50" viewBox="0 0 10 10">
  <inkscape:page x="0" y="0" width="5" height="10"/>
  <inkscape:page x="5" y="0" width="5" height="10"/>
  <a id="home-link" href="#intro">
    <rect id="box1" x="1" y="1" width="2" height="1"/>
  </a>
  <a id="site-link" href="https://example.com/a(b)">
    <text id="label1" x="2" y="4">visit</text>
  </a>
  <rect id="intro" x="6" y="2" width="3" height="2"/>
</svg>`

func TestParseGeometry(t *testing.T) {
	doc, err := Parse([]byte(twoPageSVG))
	require.NoError(t, err)

	geom := doc.Geometry
	assert.InDelta(t, 377.95, geom.WidthPx, 1e-9)
	assert.InDelta(t, 50, geom.HeightPx, 1e-9)
	assert.InDelta(t, 37.795, geom.ScaleX, 1e-9)
	assert.InDelta(t, 5, geom.ScaleY, 1e-9)
	assert.Equal(t, ViewBox{X: 0, Y: 0, W: 10, H: 10}, geom.ViewBox)
}

func TestParsePages(t *testing.T) {
	doc, err := Parse([]byte(twoPageSVG))
	require.NoError(t, err)

	want := []Page{
		{Number: 1, X: 0, Y: 0, W: 5 * 37.795, H: 50},
		{Number: 2, X: 5 * 37.795, Y: 0, W: 5 * 37.795, H: 50},
	}
	if diff := cmp.Diff(want, doc.Pages); diff != "" {
		t.Errorf("pages mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSynthesizesSinglePage(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="210mm" height="297mm" viewBox="0 0 210 297"></svg>`

	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	require.Len(t, doc.Pages, 1)
	page := doc.Pages[0]
	assert.Equal(t, 1, page.Number)
	assert.InDelta(t, 0, page.X, 1e-9)
	assert.InDelta(t, 0, page.Y, 1e-9)
	assert.InDelta(t, doc.Geometry.WidthPx, page.W, 1e-9)
	assert.InDelta(t, doc.Geometry.HeightPx, page.H, 1e-9)
}

func TestParseLinks(t *testing.T) {
	doc, err := Parse([]byte(twoPageSVG))
	require.NoError(t, err)

	want := []Link{
		{SourceID: "home-link", TargetID: "intro"},
		{SourceID: "site-link", URI: "https://example.com/a%28b%29"},
	}
	if diff := cmp.Diff(want, doc.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, doc.Links[0].Internal())
	assert.False(t, doc.Links[1].Internal())
}

func TestParseLinkXlinkHref(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg"
  xmlns:xlink="http://www.w3.org/1999/xlink"
  width="10" height="10" viewBox="0 0 10 10">
  <a id="legacy" xlink:href="#dest"><rect id="r1"/></a>
</svg>`

	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	require.Len(t, doc.Links, 1)
	assert.Equal(t, Link{SourceID: "legacy", TargetID: "dest"}, doc.Links[0])
}

func TestParseLinkBareFragmentStaysInternal(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
  <a id="stub" href="#"><rect id="r"/></a>
</svg>`

	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	require.Len(t, doc.Links, 1)
	assert.Equal(t, Link{SourceID: "stub"}, doc.Links[0])
	assert.True(t, doc.Links[0].Internal())
}

func TestParseLinkDuplicateIDLastWins(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
  <a id="dup" href="#first"><rect id="a"/></a>
  <a id="other" href="#elsewhere"><rect id="b"/></a>
  <a id="dup" href="#second"><rect id="c"/></a>
</svg>`

	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	want := []Link{
		{SourceID: "dup", TargetID: "second"},
		{SourceID: "other", TargetID: "elsewhere"},
	}
	if diff := cmp.Diff(want, doc.Links); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLinkEntityDecoding(t *testing.T) {
	const src = `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
  <a id="q" href="https://example.com/?a=1&amp;b=2"><rect id="r"/></a>
</svg>`

	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	require.Len(t, doc.Links, 1)
	assert.Equal(t, "https://example.com/?a=1&b=2", doc.Links[0].URI)
}

func TestParseLatin1Encoding(t *testing.T) {
	src := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 10 10">
  <a id="caf` + "\xe9" + `" href="#menu"><rect id="r"/></a>
</svg>`)

	doc, err := Parse(src)
	require.NoError(t, err)

	require.Len(t, doc.Links, 1)
	assert.Equal(t, "café", doc.Links[0].SourceID)
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "no svg root",
			src:  `<html><body><p>not a drawing</p></body></html>`,
		},
		{
			name: "missing width",
			src:  `<svg xmlns="http://www.w3.org/2000/svg" height="10" viewBox="0 0 10 10"></svg>`,
		},
		{
			name: "missing height",
			src:  `<svg xmlns="http://www.w3.org/2000/svg" width="10" viewBox="0 0 10 10"></svg>`,
		},
		{
			name: "missing viewBox",
			src:  `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"></svg>`,
		},
		{
			name: "non-numeric width",
			src:  `<svg xmlns="http://www.w3.org/2000/svg" width="wide" height="10" viewBox="0 0 10 10"></svg>`,
		},
		{
			name: "non-numeric viewBox",
			src:  `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 ten 10"></svg>`,
		},
		{
			name: "zero viewBox extent",
			src:  `<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10" viewBox="0 0 0 10"></svg>`,
		},
		{
			name: "page missing height",
			src: `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
  width="10" height="10" viewBox="0 0 10 10"><inkscape:page x="0" y="0" width="5"/></svg>`,
		},
		{
			name: "page non-numeric x",
			src: `<svg xmlns="http://www.w3.org/2000/svg" xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
  width="10" height="10" viewBox="0 0 10 10"><inkscape:page x="left" y="0" width="5" height="10"/></svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src))
			require.Error(t, err)
			var malformed *MalformedDocumentError
			assert.Truef(t, errors.As(err, &malformed), "expected MalformedDocumentError, got %T: %v", err, err)
		})
	}
}
