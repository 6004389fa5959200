// Package parse converts free-text cells from the ECA export into typed values.
//
// Every parser is a pure function of its argument. Text that does not match
// the expected shape yields an explicit "unknown" value (nil pointers, empty
// slices, zero fee) instead of an error, so a row is never rejected because
// one of its fields is malformed.
package parse

import (
	"regexp"
	"strconv"
)

var firstIntRe = regexp.MustCompile(`\d+`)

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

// atoi parses a run of ASCII digits, reporting false on overflow.
func atoi(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
