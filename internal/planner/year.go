package planner

import (
	"slices"
	"strconv"

	"github.com/sells-group/eca-cli/internal/model"
)

// Year values used in child profiles. Numbered years use their number.
const (
	YearPreschool  = "-1"
	YearEarlyYears = "0-ey"
	YearReception  = "0"
)

// YearLabel returns the display label for a year value.
func YearLabel(year string) string {
	switch year {
	case YearPreschool:
		return "Preschool"
	case YearEarlyYears:
		return "Early Years"
	case YearReception:
		return "Reception"
	}
	return "Year " + year
}

// YearNumber maps a year value onto the year-group scale. Early Years and
// Reception are both 0.
func YearNumber(year string) (int, bool) {
	switch year {
	case YearPreschool:
		return -1, true
	case YearEarlyYears:
		return 0, true
	}
	n, err := strconv.Atoi(year)
	return n, err == nil
}

// MatchesYear reports whether an activity is open to a child in year.
func MatchesYear(a model.Activity, year string) bool {
	labels := a.YearGroups.Labels
	if slices.Contains(labels, YearLabel(year)) {
		return true
	}
	if year == YearEarlyYears && slices.Contains(labels, "Early Years") {
		return true
	}
	if year == YearReception && slices.Contains(labels, "Reception") {
		return true
	}

	n, ok := YearNumber(year)
	if !ok || a.YearGroups.Min == nil || a.YearGroups.Max == nil {
		return false
	}
	return n >= *a.YearGroups.Min && n <= *a.YearGroups.Max
}
