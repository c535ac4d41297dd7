// Package formatters converts raw metric values into display strings.
package formatters

import (
	"fmt"
	"math"
	"strconv"
)

// Currency formats a dollar amount with a magnitude suffix (T/B/M/K).
func Currency(value float64) string {
	if math.IsNaN(value) {
		value = 0
	}

	abs := math.Abs(value)
	sign := ""
	if value < 0 {
		sign = "-"
	}

	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%s$%.2fT", sign, abs/1e12)
	case abs >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, abs/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s$%.2fK", sign, abs/1e3)
	default:
		return fmt.Sprintf("%s$%.2f", sign, abs)
	}
}

// Percentage formats a percentage value with one decimal place.
// The input is expected to already be in percent units.
func Percentage(value float64) string {
	if math.IsNaN(value) {
		value = 0
	}
	return fmt.Sprintf("%.1f%%", value)
}

// Count formats an integer count with thousands separators.
func Count(value int) string {
	s := strconv.Itoa(value)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}

	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}

	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// Score3 formats a normalized score to three decimal places, the precision
// used by the CSV export.
func Score3(value float64) string {
	if math.IsNaN(value) {
		value = 0
	}
	return strconv.FormatFloat(value, 'f', 3, 64)
}
