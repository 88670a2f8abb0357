package tween

import (
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter renders a numeric display value.
type Formatter func(float64) string

// Fixed renders v with exactly decimals fraction digits, rounding halves
// away from zero (2.5 becomes "3").
func Fixed(decimals int) Formatter {
	return func(v float64) string {
		return strconv.FormatFloat(round(v, decimals), 'f', decimals, 64)
	}
}

// Ceil renders the smallest integer not less than v.
func Ceil() Formatter {
	return func(v float64) string {
		return strconv.FormatFloat(noNegZero(math.Ceil(v)), 'f', 0, 64)
	}
}

// Percent renders a fraction as a percentage, e.g. 0.425 as "43%".
func Percent(decimals int) Formatter {
	fixed := Fixed(decimals)
	return func(v float64) string {
		return fixed(v*100) + "%"
	}
}

// Grouped renders v with locale digit grouping, e.g. "1,234,567.50" for
// English.
func Grouped(tag language.Tag, decimals int) Formatter {
	pattern := fmt.Sprintf("%%.%df", decimals)
	return func(v float64) string {
		return message.NewPrinter(tag).Sprintf(pattern, round(v, decimals))
	}
}

func round(v float64, decimals int) float64 {
	if decimals < 0 {
		decimals = 0
	}
	p := math.Pow10(decimals)
	return noNegZero(math.Round(v*p) / p)
}

func noNegZero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
