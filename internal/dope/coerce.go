package dope

import (
	"strconv"
	"strings"
)

// coerceFloat turns staged row text into a stored numeric. Blank or
// non-numeric text becomes NULL; a single bad cell never fails a save.
func coerceFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// coerceText trims staged text, mapping blank or whitespace-only input to NULL.
func coerceText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// trimFloat renders a float in its shortest exact decimal form.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
