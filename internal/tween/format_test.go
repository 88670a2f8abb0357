package tween

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		format Formatter
		in     float64
		want   string
	}{
		{name: "fixed0 rounds half away from zero", format: Fixed(0), in: 2.5, want: "3"},
		{name: "fixed0 negative half", format: Fixed(0), in: -2.5, want: "-3"},
		{name: "fixed0 no negative zero", format: Fixed(0), in: -0.4, want: "0"},
		{name: "fixed2 pads", format: Fixed(2), in: 3, want: "3.00"},
		{name: "fixed2 rounds", format: Fixed(2), in: 3.14159, want: "3.14"},
		{name: "ceil", format: Ceil(), in: 2.1, want: "3"},
		{name: "ceil integral", format: Ceil(), in: 7, want: "7"},
		{name: "percent", format: Percent(0), in: 0.42, want: "42%"},
		{name: "percent one", format: Percent(0), in: 1, want: "100%"},
		{name: "grouped integer", format: Grouped(language.English, 0), in: 1234567, want: "1,234,567"},
		{name: "grouped decimals", format: Grouped(language.English, 2), in: 1234.5, want: "1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.format(tt.in))
		})
	}
}
