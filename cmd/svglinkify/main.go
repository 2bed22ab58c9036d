// svglinkify is a command-line tool for converting SVGs to PDFs with working hyperlinks.
//
// Inkscape exports clean PDFs but places link annotations poorly, or drops
// them entirely. svglinkify drives the export through inkscape, then rewrites
// the normalized PDF so that every hyperlink in the SVG becomes a precisely
// placed clickable region, including links on multi-page documents.
//
// Usage:
//
//	svglinkify [options] input.svg output.pdf [inkscape cli flags ...]
//
// Options:
//
//	-config string    Path to a YAML profile with tool paths and defaults
//	-debug            Enable debug mode
//	-dpi int          Resolution for rasterization of filters (default 96)
//	-dump-qdf         Dump the normalized PDF structure for debugging
//	-f                Overwrite the output PDF if it already exists
//	-fix-qdf string   Path to the fix-qdf binary
//	-inkscape string  Path to the inkscape binary
//	-preview string   Write an annotation preview PDF to this path
//	-q                Suppress warnings and the final status line
//	-qpdf string      Path to the qpdf binary
//
// Anything after the two positional arguments is passed through to the
// inkscape export command unchanged.
//
// The YAML profile carries defaults for repeated runs; command-line flags win
// over profile values:
//
//	inkscape: /opt/inkscape/bin/inkscape
//	qpdf: /usr/bin/qpdf
//	fix_qdf: /usr/bin/fix-qdf
//	dpi: 192
//	inkscape_args:
//	  - --export-text-to-path
//
// Examples:
//
// Convert a drawing and overwrite the previous output:
//
//	svglinkify -f drawing.svg drawing.pdf
//
// Convert at print resolution with a preview of the clickable regions:
//
//	svglinkify -dpi 300 -preview regions.pdf manual.svg manual.pdf
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gardar/svglinkify/pkg/pdflink"
)

type profile struct {
	Inkscape     string   `yaml:"inkscape"`
	QPDF         string   `yaml:"qpdf"`
	FixQDF       string   `yaml:"fix_qdf"`
	DPI          int      `yaml:"dpi"`
	InkscapeArgs []string `yaml:"inkscape_args"`
}

// loadProfile reads a YAML file with tool paths and conversion defaults
func loadProfile(path string) (*profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML profile with tool paths and defaults")
	debug := flag.Bool("debug", false, "Enable debug mode")
	exportDPI := flag.Int("dpi", 96, "Resolution for rasterization of filters")
	dumpQDF := flag.Bool("dump-qdf", false, "Dump the normalized PDF structure for debugging")
	force := flag.Bool("f", false, "Overwrite the output PDF if it already exists")
	fixQDFPath := flag.String("fix-qdf", "", "Path to the fix-qdf binary (defaults to $PATH lookup)")
	inkscapePath := flag.String("inkscape", "", "Path to the inkscape binary (defaults to $PATH lookup)")
	previewPath := flag.String("preview", "", "Write an annotation preview PDF to this path")
	quiet := flag.Bool("q", false, "Suppress warnings and the final status line")
	qpdfPath := flag.String("qpdf", "", "Path to the qpdf binary (defaults to $PATH lookup)")

	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
svglinkify converts SVGs to PDFs using inkscape while preserving hyperlinks
applied to objects. To use, first create an SVG file in inkscape. Create
hyperlinks for any object by right clicking the object and selecting "Create
Link". Enter a URL in the Href field and save your SVG. Then use svglinkify to
convert your SVG file.

If the hyperlink is '#some-id', an internal link is created which when
clicked, will pan and zoom onto the object with id 'some-id'.

Usage: svglinkify [options] input.svg output.pdf [inkscape cli flags ...]

`)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)
	outputPath := flag.Arg(1)
	extraArgs := flag.Args()[2:]

	// Track which flags were set explicitly so they can win over the
	// profile values.
	providedFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		providedFlags[f.Name] = true
	})

	config := pdflink.DefaultConfig()

	if *configPath != "" {
		prof, err := loadProfile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: failed to load profile: %v\n", err)
			os.Exit(1)
		}
		if prof.Inkscape != "" {
			config.InkscapePath = prof.Inkscape
		}
		if prof.QPDF != "" {
			config.QPDFPath = prof.QPDF
		}
		if prof.FixQDF != "" {
			config.FixQDFPath = prof.FixQDF
		}
		if prof.DPI != 0 {
			config.ExportDPI = prof.DPI
		}
		config.InkscapeArgs = append(config.InkscapeArgs, prof.InkscapeArgs...)
	}

	if providedFlags["inkscape"] {
		config.InkscapePath = *inkscapePath
	}
	if providedFlags["qpdf"] {
		config.QPDFPath = *qpdfPath
	}
	if providedFlags["fix-qdf"] {
		config.FixQDFPath = *fixQDFPath
	}
	if providedFlags["dpi"] {
		config.ExportDPI = *exportDPI
	}

	config.Debug = *debug
	config.DumpQDF = *dumpQDF
	config.PreviewPath = *previewPath
	config.InkscapeArgs = append(config.InkscapeArgs, extraArgs...)
	if *quiet {
		config.Logger = io.Discard
	}

	if _, err := os.Stat(outputPath); err == nil && !*force {
		fmt.Fprintf(os.Stderr, "error: output file %s already exists - use -f to overwrite\n", outputPath)
		os.Exit(1)
	}

	if err := pdflink.Convert(context.Background(), inputPath, outputPath, config); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if !*quiet {
		fmt.Println("Linked PDF created:", outputPath)
	}
}
