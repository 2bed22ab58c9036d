package svg

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLength(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      float64
		shouldErr bool
	}{
		{name: "unitless defaults to px", input: "50", want: 50},
		{name: "explicit px", input: "120px", want: 120},
		{name: "points", input: "12pt", want: 12 * 1.33333333333333},
		{name: "millimeters", input: "100mm", want: 377.95},
		{name: "picas", input: "2pc", want: 32},
		{name: "centimeters", input: "10cm", want: 377.95},
		{name: "inches", input: "1.5in", want: 144},
		{name: "fractional value", input: "0.5mm", want: 1.88975},
		{name: "surrounding whitespace", input: " 50 ", want: 50},
		{name: "empty", input: "", shouldErr: true},
		{name: "unknown unit", input: "10em", shouldErr: true},
		{name: "negative sign rejected", input: "-5", shouldErr: true},
		{name: "exponent rejected", input: "1e3", shouldErr: true},
		{name: "unit alone", input: "mm", shouldErr: true},
		{name: "multiple dots", input: "1.2.3", shouldErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLength(tt.input)
			if tt.shouldErr {
				assert.Error(t, err, "expected a parse error")
				var malformed *MalformedDocumentError
				assert.Truef(t, errors.As(err, &malformed), "expected MalformedDocumentError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
