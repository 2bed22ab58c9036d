// Package qpdf drives the qpdf structural normalizer as an external
// tool: producing the editable QDF form of a PDF, repairing an edited
// buffer, and recompressing the result.
//
// QDF is qpdf's normalized representation - uncompressed streams, no
// object streams, one object per readable block - which makes the
// document graph safe to edit as text. After an edit, the fix-qdf
// filter recomputes object offsets and stream lengths.
package qpdf

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Binaries looked up on $PATH when no explicit paths are configured.
const (
	DefaultBinary    = "qpdf"
	DefaultFixBinary = "fix-qdf"
)

// RunError reports a failed normalizer invocation.
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

// Find resolves the normalizer binary, either an explicit path or a
// $PATH lookup.
func Find(path string) (string, error) {
	return lookup(path, DefaultBinary)
}

// FindFix resolves the repair filter binary that ships with qpdf.
func FindFix(path string) (string, error) {
	return lookup(path, DefaultFixBinary)
}

func lookup(path, fallback string) (string, error) {
	if path == "" {
		path = fallback
	}
	resolved, err := exec.LookPath(path)
	if err != nil {
		return "", fmt.Errorf("%s is missing - please install it before retrying: %w", path, err)
	}
	return resolved, nil
}

// Normalize rewrites a PDF into uncompressed QDF form with object
// streams disabled. Warnings about oddities in the renderer's output
// are tolerated; only hard failures surface.
func Normalize(ctx context.Context, bin, inPath, outPath string) error {
	return runFile(ctx, bin, normalizeArgs(inPath, outPath)...)
}

// Recompress packs an edited QDF file back into a compact PDF with
// regenerated object streams.
func Recompress(ctx context.Context, bin, inPath, outPath string) error {
	return runFile(ctx, bin, recompressArgs(inPath, outPath)...)
}

func normalizeArgs(inPath, outPath string) []string {
	return []string{
		"--qdf",
		"--stream-data=uncompress",
		"--object-streams=disable",
		"--warning-exit-0",
		inPath,
		outPath,
	}
}

func recompressArgs(inPath, outPath string) []string {
	return []string{
		"--object-streams=generate",
		"--stream-data=compress",
		"--warning-exit-0",
		inPath,
		outPath,
	}
}

func runFile(ctx context.Context, bin string, args ...string) error {
	cmd := exec.CommandContext(ctx, bin, args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		stderr := strings.TrimSpace(errBuf.String())
		if stderr == "" {
			stderr = err.Error()
		}
		return &RunError{Tool: bin, Stderr: stderr}
	}
	return nil
}

// FixQDF pipes an edited QDF buffer through the repair filter, which
// recomputes object offsets and stream lengths.
func FixQDF(ctx context.Context, bin string, data []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin)
	cmd.Stdin = bytes.NewReader(data)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		stderr := strings.TrimSpace(errBuf.String())
		if stderr == "" {
			stderr = err.Error()
		}
		return nil, &RunError{Tool: bin, Stderr: "cannot fix the qdf output: " + stderr}
	}
	return outBuf.Bytes(), nil
}
