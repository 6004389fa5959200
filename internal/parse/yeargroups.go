package parse

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/sells-group/eca-cli/internal/model"
)

const (
	labelPreschool  = "Preschool"
	labelEarlyYears = "Early Years"
	labelReception  = "Reception"
)

var (
	yearRangeRe  = regexp.MustCompile(`(?i)Years?[\s\p{Zs}]+(\d+)[\s\p{Zs}]+(?:to|&)[\s\p{Zs}]+(\d+)`)
	yearSingleRe = regexp.MustCompile(`(?i)Year[\s\p{Zs}]+(\d+)`)
	ageGroupRe   = regexp.MustCompile(`U(\d+)`)
)

// yearBuilder accumulates year-group hits. Its operations only ever widen
// the range or append labels, so applying a rule twice changes nothing.
type yearBuilder struct {
	min    *int
	max    *int
	labels []string
}

// widen stretches [min,max] to include [lo,hi].
func (b *yearBuilder) widen(lo, hi int) {
	b.widenMin(lo)
	if b.max == nil || hi > *b.max {
		b.max = intPtr(hi)
	}
}

// widenMin lowers min to v without touching max.
func (b *yearBuilder) widenMin(v int) {
	if b.min == nil || v < *b.min {
		b.min = intPtr(v)
	}
}

func (b *yearBuilder) addLabel(label string) {
	if !slices.Contains(b.labels, label) {
		b.labels = append(b.labels, label)
	}
}

func (b *yearBuilder) build() model.YearGroups {
	labels := slices.Clone(b.labels)
	if labels == nil {
		labels = []string{}
	}
	slices.SortStableFunc(labels, func(a, c string) int {
		return cmp.Compare(labelSortKey(a), labelSortKey(c))
	})
	return model.YearGroups{Min: b.min, Max: b.max, Labels: labels}
}

// labelSortKey orders Preschool < Early Years < Reception < numbered labels,
// with anything unrecognised last.
func labelSortKey(label string) int {
	switch label {
	case labelPreschool:
		return -2
	case labelEarlyYears:
		return -1
	case labelReception:
		return 0
	}
	if m := firstIntRe.FindString(label); m != "" {
		if v, ok := atoi(m); ok {
			return v
		}
	}
	return 100
}

// YearGroups derives the targeted school years from a programme name.
func YearGroups(name string) model.YearGroups {
	var b yearBuilder
	lower := strings.ToLower(name)

	if strings.Contains(lower, "early years") {
		b.addLabel(labelEarlyYears)
		if b.min == nil {
			b.min, b.max = intPtr(0), intPtr(0)
		}
	}

	if strings.Contains(lower, "preschool") {
		b.addLabel(labelPreschool)
		if b.min == nil {
			b.min, b.max = intPtr(-1), intPtr(-1)
		}
	}

	if strings.Contains(lower, "reception") {
		b.addLabel(labelReception)
		b.widen(0, 0)
	}

	if m := yearRangeRe.FindStringSubmatch(name); m != nil {
		lo, okLo := atoi(m[1])
		hi, okHi := atoi(m[2])
		if okLo && okHi {
			if lo > hi {
				lo, hi = hi, lo
			}
			b.widen(lo, hi)
			for y := lo; y <= hi; y++ {
				b.addLabel("Year " + strconv.Itoa(y))
			}
		}
	}

	for _, loc := range yearSingleRe.FindAllStringSubmatchIndex(name, -1) {
		if continuesAsRange(name[loc[1]:]) {
			continue
		}
		y, ok := atoi(name[loc[2]:loc[3]])
		if !ok {
			continue
		}
		b.widen(y, y)
		b.addLabel("Year " + strconv.Itoa(y))
	}

	for _, m := range ageGroupRe.FindAllStringSubmatch(name, -1) {
		age, ok := atoi(m[1])
		if !ok {
			continue
		}
		b.widenMin(max(1, age-6))
		b.addLabel("U" + strconv.Itoa(age))
	}

	return b.build()
}

// continuesAsRange reports whether the text after a "Year N" match carries on
// as range syntax ("to", "&" or another number), in which case the singular
// rule must not fire.
func continuesAsRange(rest string) bool {
	rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	if rest == "" {
		return false
	}
	if rest[0] == '&' || (rest[0] >= '0' && rest[0] <= '9') {
		return true
	}
	return len(rest) >= 2 && strings.EqualFold(rest[:2], "to")
}
