package parse

import (
	"regexp"
	"slices"
	"strings"

	"github.com/sells-group/eca-cli/internal/model"
)

// Weekdays lists the canonical day names in weekly order.
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// dayKeys is checked in order against each fragment; the first key
// contained in the fragment wins.
var dayKeys = []struct {
	key string
	day string
}{
	{"mon", "Monday"},
	{"tue", "Tuesday"},
	{"wed", "Wednesday"},
	{"thu", "Thursday"},
	{"thur", "Thursday"},
	{"fri", "Friday"},
	{"sat", "Saturday"},
	{"sun", "Sunday"},
	{"monday", "Monday"},
	{"tuesday", "Tuesday"},
	{"wednesday", "Wednesday"},
	{"thursday", "Thursday"},
	{"friday", "Friday"},
	{"saturday", "Saturday"},
	{"sunday", "Sunday"},
}

var (
	daySplitRe  = regexp.MustCompile(`[/&,]|\band\b`)
	timeRangeRe = regexp.MustCompile(`(\d{1,2}[:.]\d{2})[\s\p{Zs}]*-[\s\p{Zs}]*(\d{1,2}[:.]\d{2})`)
	timeNorm    = strings.NewReplacer("–", "-", "—", "-", ".", ":")
)

// Days splits a day cell on "/", "&", "," and the word "and" and returns the
// distinct weekdays found, in Monday..Sunday order.
func Days(s string) []string {
	days := []string{}
	if model.IsMissing(s) {
		return days
	}

	for _, part := range daySplitRe.Split(s, -1) {
		frag := strings.ToLower(strings.TrimSpace(part))
		for _, k := range dayKeys {
			if strings.Contains(frag, k.key) {
				if !slices.Contains(days, k.day) {
					days = append(days, k.day)
				}
				break
			}
		}
	}

	slices.SortStableFunc(days, func(a, b string) int {
		return dayOrder(a) - dayOrder(b)
	})
	return days
}

func dayOrder(day string) int {
	if i := slices.Index(Weekdays, day); i >= 0 {
		return i
	}
	return 99
}

// TimeRange extracts a "HH:MM - HH:MM" window. Dash variants and "." as the
// hour separator are accepted; single-digit hours are zero padded. Raw always
// keeps the cell text as given.
func TimeRange(s string) model.TimeRange {
	tr := model.TimeRange{Raw: s}
	if model.IsMissing(s) {
		return tr
	}

	m := timeRangeRe.FindStringSubmatch(timeNorm.Replace(s))
	if m == nil {
		return tr
	}
	tr.Start = strPtr(padHour(m[1]))
	tr.End = strPtr(padHour(m[2]))
	return tr
}

func padHour(hhmm string) string {
	hhmm = strings.ReplaceAll(hhmm, ".", ":")
	if i := strings.IndexByte(hhmm, ':'); i == 1 {
		return "0" + hhmm
	}
	return hhmm
}
