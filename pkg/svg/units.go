package svg

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// pixelsPerUnit maps SVG length units to CSS pixels at the standard
// 96 dpi. The table is fixed at build time and never mutated.
var pixelsPerUnit = map[string]float64{
	"px": 1,
	"pt": 1.33333333333333,
	"mm": 3.7795,
	"pc": 16,
	"cm": 37.795,
	"in": 96,
}

// Lengths are a non-negative decimal number with an optional unit suffix.
// Signs and exponents are not part of the grammar.
var lengthPattern = regexp.MustCompile(`^([0-9.]+)(px|pt|mm|pc|cm|in)?$`)

// ParseLength resolves an SVG length declaration such as "100mm" or "50"
// to pixels. A missing unit suffix means pixels.
func ParseLength(s string) (float64, error) {
	m := lengthPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, &MalformedDocumentError{Reason: fmt.Sprintf("cannot parse length %q", s)}
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, &MalformedDocumentError{Reason: fmt.Sprintf("cannot parse length %q: %v", s, err)}
	}
	unit := m[2]
	if unit == "" {
		unit = "px"
	}
	return value * pixelsPerUnit[unit], nil
}
