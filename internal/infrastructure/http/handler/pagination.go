package handler

import (
	"strconv"
)

// parsePositiveInt parses an optional positive integer query value.
// Empty input yields def. ok is false for malformed or non-positive input.
func parsePositiveInt(raw string, def int) (n int, ok bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
