// Package inkscape drives the Inkscape renderer as an external tool:
// querying per-element bounding boxes and exporting SVG sources to PDF.
//
// Every invocation runs the renderer as an opaque subprocess and applies
// its signal convention: an ERROR marker in the diagnostics always
// fails, a non-zero exit fails unless the diagnostics are only warnings.
package inkscape

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultBinary is looked up on $PATH when no explicit path is configured.
const DefaultBinary = "inkscape"

// RunError reports a failed renderer invocation, carrying the tool's
// diagnostics so the caller can surface an actionable message.
type RunError struct {
	Tool   string // Binary that failed
	Stderr string // Captured diagnostics
}

func (e *RunError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return e.Tool + " failed"
	}
	return e.Tool + ": " + msg
}

// Find resolves the renderer binary, either an explicit path or a $PATH
// lookup.
func Find(path string) (string, error) {
	if path == "" {
		path = DefaultBinary
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("%s is missing - please install it before retrying: %w", path, err)
	}
	return resolved, nil
}

// run invokes the renderer and classifies the outcome.
func run(ctx context.Context, bin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	if err := classify(bin, errBuf.String(), runErr); err != nil {
		return "", err
	}
	return outBuf.String(), nil
}

// classify applies the renderer's signal convention. Inkscape reports
// recoverable conditions as WARNING lines while still exiting non-zero
// on some platforms, so warnings alone never fail the run.
func classify(bin, stderr string, runErr error) error {
	if strings.Contains(stderr, "ERROR") {
		return &RunError{Tool: bin, Stderr: stderr}
	}
	if runErr == nil {
		return nil
	}
	if strings.Contains(stderr, "WARNING") {
		return nil
	}
	if strings.TrimSpace(stderr) == "" {
		stderr = runErr.Error()
	}
	return &RunError{Tool: bin, Stderr: stderr}
}
