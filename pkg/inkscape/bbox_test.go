package inkscape

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseObjectReport(t *testing.T) {
	report := "svg1,0,0,744.09,1052.36\n" +
		"rect12,10.5,20.25,100,50\n" +
		"shifted,-3.5,4,10,10\n" +
		"\n" +
		"some informational line from the renderer\n" +
		"badnum,1,2,three,4\n" +
		",9,9,9,9\n"

	var warnings bytes.Buffer
	objects := parseObjectReport(report, &warnings)

	require.Len(t, objects, 3)

	root := objects["svg1"]
	require.NotNil(t, root)
	assert.InDelta(t, 744.09, root.W, 1e-9)
	assert.InDelta(t, 1052.36, root.H, 1e-9)

	rect := objects["rect12"]
	require.NotNil(t, rect)
	assert.InDelta(t, 10.5, rect.X, 1e-9)
	assert.InDelta(t, 20.25, rect.Y, 1e-9)

	// Negative coordinates are legitimate for objects left of the canvas
	shifted := objects["shifted"]
	require.NotNil(t, shifted)
	assert.InDelta(t, -3.5, shifted.X, 1e-9)

	assert.NotContains(t, objects, "badnum")
	assert.Contains(t, warnings.String(), "badnum")
}

func TestParseObjectReportEmpty(t *testing.T) {
	var warnings bytes.Buffer
	objects := parseObjectReport("", &warnings)
	assert.Empty(t, objects)
	assert.Empty(t, warnings.String())
}

func TestClassify(t *testing.T) {
	exitErr := errors.New("exit status 1")

	tests := []struct {
		name      string
		stderr    string
		runErr    error
		shouldErr bool
	}{
		{name: "clean run", stderr: "", runErr: nil, shouldErr: false},
		{name: "error marker", stderr: "ERROR: cannot open file", runErr: nil, shouldErr: true},
		{name: "error marker with zero exit", stderr: "x ERROR y", runErr: nil, shouldErr: true},
		{name: "nonzero exit silent", stderr: "", runErr: exitErr, shouldErr: true},
		{name: "nonzero exit with warning only", stderr: "WARNING: deprecated attribute", runErr: exitErr, shouldErr: false},
		{name: "warning with zero exit", stderr: "WARNING: something", runErr: nil, shouldErr: false},
		{name: "nonzero exit with plain noise", stderr: "couldn't connect to display", runErr: exitErr, shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("inkscape", tt.stderr, tt.runErr)
			if !tt.shouldErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var runErr *RunError
			require.Truef(t, errors.As(err, &runErr), "expected RunError, got %T", err)
			assert.Equal(t, "inkscape", runErr.Tool)
		})
	}
}

func TestFindMissingBinary(t *testing.T) {
	_, err := Find("svglinkify-no-such-renderer")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "please install it before retrying")
}
