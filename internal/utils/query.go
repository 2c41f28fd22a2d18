// Package utils provides small parsing helpers for request parameters.
// They are independent of domain or business logic.
package utils

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotInteger is returned by OptionalInt for values that do not parse.
var ErrNotInteger = errors.New("not an integer")

// OptionalInt parses s as a base-10 int. An empty (or blank) s reports
// present=false with no error.
//
//	n, ok, err := utils.OptionalInt("42") // 42, true, nil
//	n, ok, err = utils.OptionalInt("")    // 0, false, nil
//	n, ok, err = utils.OptionalInt("x")   // 0, true, ErrNotInteger
func OptionalInt(s string) (n int, present bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(s)
	if err != nil {
		return 0, true, ErrNotInteger
	}
	return n, true, nil
}

// SortDesc maps an order parameter to a direction. Empty means def;
// "asc"/"oldest" and "desc"/"newest" are accepted in any case.
func SortDesc(order string, def bool) (desc bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		return def, true
	case "desc", "newest":
		return true, true
	case "asc", "oldest":
		return false, true
	default:
		return def, false
	}
}
