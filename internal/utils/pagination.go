// Package utils holds small helpers shared by the HTTP layer: lenient
// integer parsing for pagination query params and UTC day-boundary parsing
// for history date filters.
package utils

import "strconv"

// AtoiDefault parses s as an int, falling back to def when s is empty or not
// an integer. Pagination params never error; a bad page or page_size query
// value just means the default.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}
