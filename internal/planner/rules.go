package planner

import (
	"slices"
	"strconv"
	"strings"

	"github.com/sells-group/eca-cli/internal/model"
)

// Gender is the audience an activity is restricted to, if any.
type Gender string

const (
	GenderAny  Gender = ""
	GenderBoy  Gender = "boy"
	GenderGirl Gender = "girl"
)

// Child is a family's profile for one pupil.
type Child struct {
	Name         string `json:"name,omitempty" yaml:"name"`
	Year         string `json:"year" yaml:"year"`
	Gender       Gender `json:"gender,omitempty" yaml:"gender"`
	Campus       string `json:"campus,omitempty" yaml:"campus"`
	HasEAL       bool   `json:"hasEal" yaml:"has_eal"`
	ShowBoosters bool   `json:"showBoosters" yaml:"show_boosters"`
	ShowVAPP     bool   `json:"showVapp" yaml:"show_vapp"`
	ShowAEN      bool   `json:"showAen" yaml:"show_aen"`
}

// idCategories override the stored category by activity ID fragment.
var idCategories = []struct {
	fragments []string
	category  model.Category
}{
	{[]string{"PEAL", "SEAL"}, model.CategoryEAL},
	{[]string{"BOS"}, model.CategoryBoosters},
	{[]string{"VAPP"}, model.CategoryVAPP},
	{[]string{"AEN"}, model.CategoryAEN},
}

// EffectiveCategory returns the category used for selection rules. Programme
// codes embedded in the ID win over the parsed category.
func EffectiveCategory(a model.Activity) model.Category {
	for _, rule := range idCategories {
		for _, f := range rule.fragments {
			if strings.Contains(a.ID, f) {
				return rule.category
			}
		}
	}
	if a.Category == "" {
		return model.CategoryOther
	}
	return a.Category
}

// ActivityGender reads a boys/girls restriction from the activity name.
func ActivityGender(a model.Activity) Gender {
	name := strings.ToLower(a.Name)
	switch {
	case strings.Contains(name, "boys"):
		return GenderBoy
	case strings.Contains(name, "girls"):
		return GenderGirl
	}
	return GenderAny
}

// GenderMismatch reports whether a gendered activity excludes the child.
func GenderMismatch(a model.Activity, c Child) bool {
	g := ActivityGender(a)
	return g != GenderAny && c.Gender != GenderAny && g != c.Gender
}

// Hidden reports whether an activity is hidden for the child's profile.
func Hidden(a model.Activity, c Child) bool {
	switch EffectiveCategory(a) {
	case model.CategoryEAL:
		return !c.HasEAL
	case model.CategoryBoosters:
		return !c.ShowBoosters
	case model.CategoryVAPP:
		return !c.ShowVAPP
	case model.CategoryAEN:
		return !c.ShowAEN
	}
	return false
}

// ealStart is when EAL lessons run on their scheduled days.
const ealStart = "15:30"

var ealDays = map[int][]string{
	1: {"Monday", "Thursday"}, 2: {"Monday", "Thursday"}, 3: {"Monday", "Thursday"},
	4: {"Monday", "Thursday"}, 5: {"Monday", "Thursday"}, 6: {"Monday", "Thursday"},
	7: {"Monday", "Tuesday"}, 8: {"Monday", "Tuesday"}, 9: {"Monday", "Tuesday"},
	10: {"Thursday"}, 11: {"Thursday"},
}

// EALDays returns the weekdays an EAL child is taken for EAL lessons.
func EALDays(c Child) []string {
	if !c.HasEAL {
		return nil
	}
	n, ok := YearNumber(c.Year)
	if !ok {
		return nil
	}
	return ealDays[n]
}

// EALBlocked reports whether a non-EAL activity clashes with the child's
// EAL lessons.
func EALBlocked(a model.Activity, c Child) bool {
	if !c.HasEAL || EffectiveCategory(a) == model.CategoryEAL {
		return false
	}
	if a.Schedule.Time.Start == nil || *a.Schedule.Time.Start != ealStart {
		return false
	}
	blocked := EALDays(c)
	for _, d := range a.Schedule.Days {
		if slices.Contains(blocked, d) {
			return true
		}
	}
	return false
}

// Slot is a time-of-day filter.
type Slot string

const (
	SlotAll         Slot = "all"
	SlotAfterSchool Slot = "after-school"
	SlotExtended    Slot = "extended"
	SlotEarly       Slot = "early"
)

// MatchesSlot reports whether an activity starts in slot. Unknown slots match
// anything with a start time.
func MatchesSlot(a model.Activity, slot Slot) bool {
	if slot == SlotAll || slot == "" {
		return true
	}
	if a.Schedule.Time.Start == nil {
		return false
	}
	start := *a.Schedule.Time.Start
	switch slot {
	case SlotAfterSchool:
		return start == "15:30" || start == "15:10"
	case SlotExtended:
		return start >= "16:30"
	case SlotEarly:
		return start < "15:00"
	}
	return true
}

func minutes(hhmm *string) int {
	if hhmm == nil {
		return 0
	}
	h, m, _ := strings.Cut(*hhmm, ":")
	hi, _ := strconv.Atoi(h)
	mi, _ := strconv.Atoi(m)
	return hi*60 + mi
}

// Overlaps reports whether two activities share a day and their time
// windows intersect. Touching windows do not overlap.
func Overlaps(a, b model.Activity) bool {
	if a.ID == b.ID || a.Schedule.Time.Start == nil || b.Schedule.Time.Start == nil {
		return false
	}
	s1, e1 := minutes(a.Schedule.Time.Start), minutes(a.Schedule.Time.End)
	s2, e2 := minutes(b.Schedule.Time.Start), minutes(b.Schedule.Time.End)
	if e1 <= s2 || e2 <= s1 {
		return false
	}
	for _, d := range a.Schedule.Days {
		if slices.Contains(b.Schedule.Days, d) {
			return true
		}
	}
	return false
}

// HasConflict reports whether a overlaps any selected activity other than itself.
func HasConflict(a model.Activity, selected []model.Activity) bool {
	for _, s := range selected {
		if Overlaps(a, s) {
			return true
		}
	}
	return false
}
