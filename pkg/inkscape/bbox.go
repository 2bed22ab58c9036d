package inkscape

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gardar/svglinkify/pkg/svg"
)

// QueryObjects asks the renderer for the bounding box of every element
// carrying an id and returns them as a pixel-space catalog keyed by id.
func QueryObjects(ctx context.Context, bin, svgPath string, logger io.Writer) (map[string]*svg.Object, error) {
	report, err := run(ctx, bin, "-S", svgPath)
	if err != nil {
		return nil, err
	}
	return parseObjectReport(report, logger), nil
}

// parseObjectReport reads the renderer's id,x,y,w,h records. The
// renderer mixes informational lines into the report on some platforms,
// so lines that are not five comma-separated fields, and records
// without an id, are skipped silently; a record whose coordinates do
// not parse is skipped with a warning.
func parseObjectReport(report string, logger io.Writer) map[string]*svg.Object {
	if logger == nil {
		logger = os.Stderr
	}

	objects := make(map[string]*svg.Object)
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != 5 {
			continue
		}
		id := fields[0]
		if id == "" {
			continue
		}

		var vals [4]float64
		ok := true
		for i, field := range fields[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				fmt.Fprintf(logger, "warning: skipping bounding box for %q: bad value %q\n", id, field)
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}

		objects[id] = &svg.Object{ID: id, X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	}
	return objects
}
