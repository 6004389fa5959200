package classify

import (
	"strings"

	"github.com/sells-group/eca-cli/internal/model"
)

const outsideProviderMarker = "outside provider"

// OutsideProviderRules name the external vendors behind "outside provider" sections.
// "table tennis" sits after "tennis" and so never wins; kept for output parity.
var OutsideProviderRules = []Rule[model.Provider]{
	{[]string{"cyberone", "coding", "roblox", "minecraft", "brain play"}, model.ProviderCyberOne},
	{[]string{"tennis", "dome"}, model.ProviderDomeTennis},
	{[]string{"judo"}, model.ProviderJudoSchool},
	{[]string{"jiu jitsu", "martial"}, model.ProviderBenRoyleBJJ},
	{[]string{"chess"}, model.ProviderChessClub},
	{[]string{"rush", "flag football"}, model.ProviderRushSports},
	{[]string{"formula", "karting"}, model.ProviderFormulaFun},
	{[]string{"table tennis"}, model.ProviderPhuketTableTennis},
	{[]string{"mind craft", "maximise"}, model.ProviderMaximise},
}

// Provider identifies the delivering organisation from the section heading.
func Provider(section string) model.Provider {
	lower := strings.ToLower(section)
	if !strings.Contains(lower, outsideProviderMarker) {
		return model.ProviderHeadStart
	}
	if p, ok := firstMatch(OutsideProviderRules, lower); ok {
		return p
	}
	return model.ProviderOutside
}
