package pdflink

import (
	"io"

	"github.com/go-playground/validator/v10"
)

// Config holds user options for converting an SVG to a linked PDF
type Config struct {
	Debug        bool      // Enable debug mode
	DumpQDF      bool      // Dump QDF structure for debugging
	Logger       io.Writer // Custom logger for warnings (nil = stderr)
	PreviewPath  string    // Write an annotation preview PDF here (empty = skip)
	ExportDPI    int       `validate:"min=1,max=9600"` // Raster resolution passed to the renderer
	InkscapePath string    // Explicit inkscape binary (empty = $PATH lookup)
	QPDFPath     string    // Explicit qpdf binary (empty = $PATH lookup)
	FixQDFPath   string    // Explicit fix-qdf binary (empty = $PATH lookup)
	InkscapeArgs []string  // Extra arguments appended to the export command
	Font         FontConfig
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Debug:     false,
		DumpQDF:   false,
		Logger:    nil, // stderr
		ExportDPI: 96,  // Inkscape's native CSS pixel density
		Font:      DefaultFont,
	}
}

// Validate checks the config bounds before a conversion starts.
func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// FontConfig contains font settings for preview annotation labels
type FontConfig struct {
	Name        string  // Font name (e.g., "Helvetica")
	Style       string  // Font style ("", "B", "I", "BI")
	Size        float64 // Default font size
	AscentRatio float64 // Vertical positioning ratio
}

// DefaultFont sets the default font to Helvetica which renders reliably across viewers
var DefaultFont = FontConfig{
	Name:        "Helvetica",
	Style:       "",
	Size:        8,
	AscentRatio: 0.718,
}
