package classify

import (
	"strings"

	"github.com/sells-group/eca-cli/internal/model"
)

// SectionLevelRules are checked against the section heading.
var SectionLevelRules = []Rule[model.Level]{
	{[]string{"foundation"}, model.LevelFoundation},
	{[]string{"primary"}, model.LevelPrimary},
	{[]string{"secondary"}, model.LevelSecondary},
}

// NameLevelRules are checked against the programme name.
var NameLevelRules = []Rule[model.Level]{
	{[]string{"early years", "preschool"}, model.LevelFoundation},
	{[]string{"reception"}, model.LevelFoundation},
}

// Level picks the school phase: section heading, then programme name, then
// the derived year-group range.
func Level(name, section string, yg model.YearGroups) model.Level {
	if l, ok := firstMatch(SectionLevelRules, strings.ToLower(section)); ok {
		return l
	}
	if l, ok := firstMatch(NameLevelRules, strings.ToLower(name)); ok {
		return l
	}
	return levelFromYears(yg)
}

func levelFromYears(yg model.YearGroups) model.Level {
	if yg.Min == nil {
		return model.LevelUnknown
	}
	lo := *yg.Min
	switch {
	case lo <= 0:
		return model.LevelFoundation
	case lo <= 6 && (yg.Max == nil || *yg.Max <= 6):
		return model.LevelPrimary
	case lo >= 7:
		return model.LevelSecondary
	default:
		return model.LevelMixed
	}
}
