package pdflink

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertInvalidConfig(t *testing.T) {
	config := DefaultConfig()
	config.ExportDPI = 0

	err := Convert(context.Background(), "in.svg", "out.pdf", config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestConvertMissingRenderer(t *testing.T) {
	config := DefaultConfig()
	config.InkscapePath = "/nonexistent/inkscape"
	config.QPDFPath = "/nonexistent/qpdf"
	config.FixQDFPath = "/nonexistent/fix-qdf"

	err := Convert(context.Background(), "in.svg", "out.pdf", config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please install it before retrying")
}

func TestTempArtifact(t *testing.T) {
	path, cleanup, err := tempArtifact("svglinkify-test-*.pdf")
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)

	cleanup()
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
