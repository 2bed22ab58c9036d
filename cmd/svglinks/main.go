// svglinks is a command-line tool for inspecting the hyperlinks of SVG files.
//
// It parses each input file and prints a YAML report of the document
// geometry, its pages, and the link catalog a conversion would work from.
// With -bbox it additionally queries inkscape for rendered bounding boxes,
// so misplaced objects and broken internal targets surface before a long
// conversion run. Multiple files are inspected concurrently.
//
// Usage:
//
//	svglinks [options] input.svg [input2.svg ...]
//
// Options:
//
//	-bbox             Query inkscape for bounding boxes and page placements
//	-inkscape string  Path to the inkscape binary
//	-jobs int         Maximum number of files inspected concurrently
//
// The exit status is 0 when every file is clean, 1 when any report carries
// diagnostics, and 2 on usage errors.
//
// Example:
//
//	svglinks -bbox -jobs 8 figures/*.svg
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/gardar/svglinkify/pkg/inkscape"
	"github.com/gardar/svglinkify/pkg/svg"
)

type fileReport struct {
	File        string         `yaml:"file"`
	Geometry    geometryReport `yaml:"geometry"`
	Pages       []pageReport   `yaml:"pages"`
	Links       []linkReport   `yaml:"links"`
	Diagnostics []string       `yaml:"diagnostics,omitempty"`
}

type geometryReport struct {
	WidthPx  float64 `yaml:"width_px"`
	HeightPx float64 `yaml:"height_px"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
}

type pageReport struct {
	Number int     `yaml:"number"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	W      float64 `yaml:"width"`
	H      float64 `yaml:"height"`
}

type linkReport struct {
	Source     string            `yaml:"source"`
	Kind       string            `yaml:"kind"`
	Target     string            `yaml:"target"`
	Placements []placementReport `yaml:"placements,omitempty"`
}

type placementReport struct {
	Page int     `yaml:"page"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

func main() {
	withBBox := flag.Bool("bbox", false, "Query inkscape for bounding boxes and page placements")
	inkscapePath := flag.String("inkscape", "", "Path to the inkscape binary (defaults to $PATH lookup)")
	jobs := flag.Int("jobs", runtime.NumCPU(), "Maximum number of files inspected concurrently")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
svglinks inspects the hyperlinks of SVG files and prints a YAML report of
each document's geometry, pages and links. With -bbox it asks inkscape for
rendered bounding boxes so broken or misplaced links surface before a
conversion is attempted.

Usage: svglinks [options] input.svg [input2.svg ...]

`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	limit, err := jobLimit(*jobs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	var bin string
	if *withBBox {
		bin, err = inkscape.Find(*inkscapePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	// Inspections are independent per file; the group only bounds how
	// many run at once. Reports keep argument order.
	reports := make([]fileReport, flag.NArg())
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(limit)
	for i, path := range flag.Args() {
		g.Go(func() error {
			report, err := inspect(ctx, path, *withBBox, bin)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	failed := false
	for _, report := range reports {
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		if len(report.Diagnostics) > 0 {
			failed = true
		}
	}
	if err := enc.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if failed {
		os.Exit(1)
	}
}

// jobLimit validates the -jobs flag. A limit under one would leave the
// worker group unable to start any inspection, blocking forever.
func jobLimit(n int) (int, error) {
	if n < 1 {
		return 0, fmt.Errorf("-jobs must be at least 1, got %d", n)
	}
	return n, nil
}

// inspect parses one SVG and reports everything a conversion would rely
// on. With bbox enabled the renderer is queried and placements resolved,
// which makes missing boxes and unreachable targets visible as
// diagnostics.
func inspect(ctx context.Context, path string, withBBox bool, bin string) (fileReport, error) {
	report := fileReport{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read svg file: %w", err)
	}
	doc, err := svg.Parse(data)
	if err != nil {
		return report, fmt.Errorf("%s: %w", path, err)
	}

	report.Geometry = geometryReport{
		WidthPx:  doc.Geometry.WidthPx,
		HeightPx: doc.Geometry.HeightPx,
		ScaleX:   doc.Geometry.ScaleX,
		ScaleY:   doc.Geometry.ScaleY,
	}
	for _, page := range doc.Pages {
		report.Pages = append(report.Pages, pageReport{
			Number: page.Number,
			X:      page.X,
			Y:      page.Y,
			W:      page.W,
			H:      page.H,
		})
	}

	var objects map[string]*svg.Object
	if withBBox {
		objects, err = inkscape.QueryObjects(ctx, bin, path, os.Stderr)
		if err != nil {
			return report, fmt.Errorf("%s: %w", path, err)
		}
		svg.ResolvePlacements(doc.Pages, objects)
	}

	diagnose := func(format string, args ...interface{}) {
		report.Diagnostics = append(report.Diagnostics, fmt.Sprintf(format, args...))
	}

	for _, link := range doc.Links {
		lr := linkReport{Source: link.SourceID}
		if link.Internal() {
			lr.Kind = "internal"
			lr.Target = "#" + link.TargetID
			if link.TargetID == "" {
				// Bare href="#": there is nothing to resolve.
				diagnose("link %q has an empty target", link.SourceID)
			}
		} else {
			lr.Kind = "external"
			lr.Target = link.URI
		}

		if withBBox {
			source := objects[link.SourceID]
			switch {
			case source == nil:
				diagnose("no bounding box for link %q", link.SourceID)
			case len(source.Locations) == 0:
				diagnose("link %q is outside every page", link.SourceID)
			default:
				for _, loc := range source.Locations {
					lr.Placements = append(lr.Placements, placementReport{Page: loc.Page, X: loc.X, Y: loc.Y})
				}
			}
			if link.Internal() && link.TargetID != "" {
				dest := objects[link.TargetID]
				switch {
				case dest == nil:
					diagnose("link target not found: #%s", link.TargetID)
				case len(dest.Locations) == 0:
					diagnose("link target #%s is outside every page", link.TargetID)
				}
			}
		}

		report.Links = append(report.Links, lr)
	}

	return report, nil
}
