package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const inspectFixture = `<svg xmlns="http://www.w3.org/2000/svg"
     xmlns:inkscape="http://www.inkscape.org/namespaces/inkscape"
     width="200" height="100" viewBox="0 0 200 100">
  <a id="docs" href="https://example.com/docs"><rect x="10" y="10" width="40" height="10"/></a>
  <a id="jump" href="#intro"><rect x="10" y="30" width="40" height="10"/></a>
  <a id="stub" href="#"><rect x="10" y="50" width="40" height="10"/></a>
  <rect id="intro" x="100" y="10" width="60" height="20"/>
</svg>`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "drawing.svg")
	require.NoError(t, os.WriteFile(path, []byte(inspectFixture), 0644))
	return path
}

func TestInspect(t *testing.T) {
	path := writeFixture(t)

	report, err := inspect(context.Background(), path, false, "")
	require.NoError(t, err)

	assert.Equal(t, path, report.File)
	assert.Equal(t, 200.0, report.Geometry.WidthPx)
	assert.Equal(t, 100.0, report.Geometry.HeightPx)
	assert.Equal(t, 1.0, report.Geometry.ScaleX)

	require.Len(t, report.Pages, 1)
	assert.Equal(t, pageReport{Number: 1, X: 0, Y: 0, W: 200, H: 100}, report.Pages[0])

	require.Len(t, report.Links, 3)
	assert.Equal(t, linkReport{Source: "docs", Kind: "external", Target: "https://example.com/docs"}, report.Links[0])
	assert.Equal(t, linkReport{Source: "jump", Kind: "internal", Target: "#intro"}, report.Links[1])
	assert.Equal(t, linkReport{Source: "stub", Kind: "internal", Target: "#"}, report.Links[2])

	// Without bbox the only diagnosable defect is the empty target.
	require.Len(t, report.Diagnostics, 1)
	assert.Contains(t, report.Diagnostics[0], `link "stub" has an empty target`)
}

func TestInspectMissingFile(t *testing.T) {
	_, err := inspect(context.Background(), filepath.Join(t.TempDir(), "missing.svg"), false, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read svg file")
}

func TestInspectMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.svg")
	require.NoError(t, os.WriteFile(path, []byte(`<svg width="nope">`), 0644))

	_, err := inspect(context.Background(), path, false, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestJobLimit(t *testing.T) {
	limit, err := jobLimit(4)
	require.NoError(t, err)
	assert.Equal(t, 4, limit)

	for _, n := range []int{0, -3} {
		_, err := jobLimit(n)
		require.Errorf(t, err, "jobs=%d must be rejected", n)
		assert.Contains(t, err.Error(), "at least 1")
	}
}

func TestReportYAMLShape(t *testing.T) {
	path := writeFixture(t)
	report, err := inspect(context.Background(), path, false, "")
	require.NoError(t, err)

	out, err := yaml.Marshal(report)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "file: ")
	assert.Contains(t, text, "width_px: 200")
	assert.Contains(t, text, "kind: external")
	assert.Contains(t, text, "https://example.com/docs")
	assert.Contains(t, text, "diagnostics:")
	// Placements stay out of the document until -bbox fills them in.
	assert.NotContains(t, text, "placements:")
}
