package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/sells-group/eca-cli/internal/model"
)

var capacityRe = regexp.MustCompile(`(\d+)[\s\p{Zs}]*[-–][\s\p{Zs}]*(\d+)`)

// Capacity parses a "min-max" enrolment cell. Both bounds are returned or neither.
func Capacity(s string) model.Capacity {
	if model.IsMissing(s) {
		return model.Capacity{}
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")

	m := capacityRe.FindStringSubmatch(s)
	if m == nil {
		return model.Capacity{}
	}
	lo, okLo := atoi(m[1])
	hi, okHi := atoi(m[2])
	if !okLo || !okHi {
		return model.Capacity{}
	}
	return model.Capacity{Min: intPtr(lo), Max: intPtr(hi)}
}

// Fee parses a fee cell and reports whether the activity is free.
//
// Missing, unparseable and zero values all come back as (0, true); callers
// cannot tell an explicit zero from a bad cell. Decimal input is truncated.
func Fee(s string) (fee int, free bool) {
	if model.IsMissing(s) {
		return 0, true
	}
	s = strings.NewReplacer(",", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(s))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true
	}
	v = math.Trunc(v)
	if v <= 0 || v >= math.MaxInt {
		return 0, true
	}
	return int(v), false
}
