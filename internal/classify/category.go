package classify

import (
	"strings"

	"github.com/sells-group/eca-cli/internal/model"
)

// SectionCategoryRules are checked against the section heading first.
var SectionCategoryRules = []Rule[model.Category]{
	{[]string{"dance"}, model.CategoryDance},
	{[]string{"lamda"}, model.CategoryLAMDA},
	{[]string{"robotics"}, model.CategoryRobotics},
	{[]string{"sport"}, model.CategorySports},
	{[]string{"booster"}, model.CategoryBoosters},
	{[]string{"vapp"}, model.CategoryVAPP},
	{[]string{"aen", "additional support"}, model.CategoryAEN},
	{[]string{"eal", "english as an additional"}, model.CategoryEAL},
	{[]string{"academ"}, model.CategoryAcademies},
	{[]string{"club"}, model.CategoryClubs},
	{[]string{"foundation"}, model.CategoryFoundation},
}

// NameCategoryRules are checked against the programme name when no section rule matched.
var NameCategoryRules = []Rule[model.Category]{
	{[]string{"dance", "ballet", "hip hop", "jazz", "cheer"}, model.CategoryDance},
	{[]string{"lamda"}, model.CategoryLAMDA},
	{[]string{"robot", "bee-bot"}, model.CategoryRobotics},
	{[]string{"coding", "roblox", "minecraft"}, model.CategoryCoding},
	{[]string{"chess"}, model.CategoryChess},
	{[]string{"judo", "jiu jitsu", "martial"}, model.CategoryMartialArts},
	{[]string{"tennis"}, model.CategoryTennis},
	{[]string{"football", "soccer"}, model.CategoryFootball},
	{[]string{"basketball"}, model.CategoryBasketball},
	{[]string{"swimming", "swim", "aqua"}, model.CategorySwimming},
	{[]string{"booster"}, model.CategoryBoosters},
	{[]string{"art"}, model.CategoryArt},
	{[]string{"music", "choir", "orchestra", "ukulele", "guitar"}, model.CategoryMusic},
	{[]string{"science"}, model.CategoryScience},
	{[]string{"thai"}, model.CategoryThai},
	{[]string{"mandarin", "chinese"}, model.CategoryMandarin},
	{[]string{"french"}, model.CategoryFrench},
	{[]string{"russian"}, model.CategoryRussian},
	{[]string{"lego"}, model.CategoryLego},
	{[]string{"book", "story"}, model.CategoryReading},
}

// Category picks the activity category from the section heading, then the
// programme name, defaulting to "other".
func Category(name, section string) model.Category {
	if c, ok := firstMatch(SectionCategoryRules, strings.ToLower(section)); ok {
		return c
	}
	if c, ok := firstMatch(NameCategoryRules, strings.ToLower(name)); ok {
		return c
	}
	return model.CategoryOther
}
