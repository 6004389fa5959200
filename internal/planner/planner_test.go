package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/eca-cli/internal/model"
)

func ip(v int) *int       { return &v }
func sp(s string) *string { return &s }

func act(id string, opts ...func(*model.Activity)) model.Activity {
	a := model.Activity{
		ID: id, Name: id, Category: model.CategoryClubs, Level: model.LevelPrimary, IsFree: true,
		YearGroups: model.YearGroups{Labels: []string{}},
		Schedule:   model.Schedule{Days: []string{}},
		Teachers:   []string{},
	}
	for _, o := range opts {
		o(&a)
	}
	return a
}

func at(start, end string, days ...string) func(*model.Activity) {
	return func(a *model.Activity) {
		a.Schedule.Days = days
		a.Schedule.Time = model.TimeRange{Start: sp(start), End: sp(end)}
	}
}

func years(minY, maxY int, labels ...string) func(*model.Activity) {
	return func(a *model.Activity) {
		a.YearGroups = model.YearGroups{Min: ip(minY), Max: ip(maxY), Labels: labels}
	}
}

func paid(fee int) func(*model.Activity) {
	return func(a *model.Activity) { a.IsFree = false; a.Fee = fee }
}

func named(name string) func(*model.Activity) {
	return func(a *model.Activity) { a.Name = name }
}

func TestYearLabelAndNumber(t *testing.T) {
	tests := []struct {
		year  string
		label string
		num   int
		ok    bool
	}{
		{"-1", "Preschool", -1, true},
		{"0-ey", "Early Years", 0, true},
		{"0", "Reception", 0, true},
		{"7", "Year 7", 7, true},
		{"x", "Year x", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			assert.Equal(t, tt.label, YearLabel(tt.year))
			n, ok := YearNumber(tt.year)
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.num, n)
			}
		})
	}
}

func TestMatchesYear(t *testing.T) {
	ranged := act("A", years(3, 6, "Year 3", "Year 6"))
	ey := act("B", func(a *model.Activity) { a.YearGroups.Labels = []string{"Early Years"} })
	rec := act("C", years(0, 2, "Reception", "Year 2"))
	noRange := act("D")

	assert.True(t, MatchesYear(ranged, "4"))
	assert.True(t, MatchesYear(ranged, "6"))
	assert.False(t, MatchesYear(ranged, "7"))
	assert.False(t, MatchesYear(ranged, "x"))
	assert.True(t, MatchesYear(ey, "0-ey"))
	assert.False(t, MatchesYear(ey, "0"))
	assert.True(t, MatchesYear(rec, "0"))
	assert.True(t, MatchesYear(rec, "0-ey"), "numeric 0 falls within 0-2")
	assert.False(t, MatchesYear(noRange, "3"))
}

func TestEffectiveCategory(t *testing.T) {
	tests := []struct {
		id       string
		category model.Category
		want     model.Category
	}{
		{"PEAL1", model.CategoryClubs, model.CategoryEAL},
		{"SEAL2", model.CategorySports, model.CategoryEAL},
		{"BOS3", model.CategoryClubs, model.CategoryBoosters},
		{"VAPP1", model.CategoryMusic, model.CategoryVAPP},
		{"AEN7", model.CategoryClubs, model.CategoryAEN},
		{"P12", model.CategoryChess, model.CategoryChess},
		{"P13", "", model.CategoryOther},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			a := act(tt.id, func(a *model.Activity) { a.Category = tt.category })
			assert.Equal(t, tt.want, EffectiveCategory(a))
		})
	}
}

func TestGender(t *testing.T) {
	boys := act("F1", named("Football Boys U11"))
	girls := act("F2", named("Netball GIRLS"))
	mixed := act("F3", named("Swimming"))

	assert.Equal(t, GenderBoy, ActivityGender(boys))
	assert.Equal(t, GenderGirl, ActivityGender(girls))
	assert.Equal(t, GenderAny, ActivityGender(mixed))

	assert.True(t, GenderMismatch(boys, Child{Gender: GenderGirl}))
	assert.False(t, GenderMismatch(boys, Child{Gender: GenderBoy}))
	assert.False(t, GenderMismatch(boys, Child{}))
	assert.False(t, GenderMismatch(mixed, Child{Gender: GenderGirl}))
}

func TestHidden(t *testing.T) {
	child := Child{Year: "3"}
	assert.True(t, Hidden(act("PEAL1"), child))
	assert.True(t, Hidden(act("BOS1"), child))
	assert.True(t, Hidden(act("VAPP1"), child))
	assert.True(t, Hidden(act("AEN1"), child))
	assert.False(t, Hidden(act("P1"), child))

	child = Child{Year: "3", HasEAL: true, ShowBoosters: true, ShowVAPP: true, ShowAEN: true}
	for _, id := range []string{"PEAL1", "BOS1", "VAPP1", "AEN1"} {
		assert.False(t, Hidden(act(id), child), id)
	}
}

func TestEALBlocked(t *testing.T) {
	tests := []struct {
		name string
		year string
		eal  bool
		a    model.Activity
		want bool
		days []string
	}{
		{name: "primary monday", year: "3", eal: true, a: act("P1", at("15:30", "16:20", "Monday")), want: true, days: []string{"Monday", "Thursday"}},
		{name: "primary tuesday free", year: "3", eal: true, a: act("P1", at("15:30", "16:20", "Tuesday")), want: false, days: []string{"Monday", "Thursday"}},
		{name: "secondary tuesday", year: "8", eal: true, a: act("S1", at("15:30", "16:20", "Tuesday")), want: true, days: []string{"Monday", "Tuesday"}},
		{name: "year 10 thursday", year: "10", eal: true, a: act("S1", at("15:30", "16:20", "Thursday")), want: true, days: []string{"Thursday"}},
		{name: "later start", year: "3", eal: true, a: act("P1", at("16:30", "17:30", "Monday")), want: false, days: []string{"Monday", "Thursday"}},
		{name: "no eal", year: "3", eal: false, a: act("P1", at("15:30", "16:20", "Monday")), want: false},
		{name: "eal itself", year: "3", eal: true, a: act("PEAL1", at("15:30", "16:20", "Monday")), want: false, days: []string{"Monday", "Thursday"}},
		{name: "reception has none", year: "0", eal: true, a: act("P1", at("15:30", "16:20", "Monday")), want: false},
		{name: "no time", year: "3", eal: true, a: act("P1", func(a *model.Activity) { a.Schedule.Days = []string{"Monday"} }), want: false, days: []string{"Monday", "Thursday"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Child{Year: tt.year, HasEAL: tt.eal}
			assert.Equal(t, tt.want, EALBlocked(tt.a, c))
			assert.Equal(t, tt.days, EALDays(c))
		})
	}
}

func TestMatchesSlot(t *testing.T) {
	after := act("A", at("15:30", "16:20", "Monday"))
	friday := act("B", at("15:10", "16:00", "Friday"))
	late := act("C", at("16:30", "18:00", "Monday"))
	early := act("D", at("14:30", "15:15", "Monday"))
	noTime := act("E")

	assert.True(t, MatchesSlot(noTime, SlotAll))
	assert.False(t, MatchesSlot(noTime, SlotAfterSchool))

	assert.True(t, MatchesSlot(after, SlotAfterSchool))
	assert.True(t, MatchesSlot(friday, SlotAfterSchool))
	assert.False(t, MatchesSlot(late, SlotAfterSchool))

	assert.True(t, MatchesSlot(late, SlotExtended))
	assert.False(t, MatchesSlot(after, SlotExtended))

	assert.True(t, MatchesSlot(early, SlotEarly))
	assert.False(t, MatchesSlot(after, SlotEarly))

	assert.True(t, MatchesSlot(after, Slot("lunch")))
}

func TestOverlapsAndConflict(t *testing.T) {
	a := act("A", at("15:30", "16:30", "Monday", "Wednesday"))
	b := act("B", at("16:00", "17:00", "Wednesday"))
	touching := act("C", at("16:30", "17:30", "Monday"))
	otherDay := act("D", at("15:30", "16:30", "Tuesday"))
	noTime := act("E", func(a *model.Activity) { a.Schedule.Days = []string{"Monday"} })

	assert.True(t, Overlaps(a, b))
	assert.True(t, Overlaps(b, a))
	assert.False(t, Overlaps(a, touching))
	assert.False(t, Overlaps(a, otherDay))
	assert.False(t, Overlaps(a, noTime))
	assert.False(t, Overlaps(a, a))

	assert.True(t, HasConflict(a, []model.Activity{otherDay, b}))
	assert.False(t, HasConflict(a, []model.Activity{a, touching, otherDay}))
}

func TestCost(t *testing.T) {
	calc := NewCalculator(DefaultRates())

	tests := []struct {
		name     string
		selected []model.Activity
		want     Breakdown
	}{
		{name: "empty", want: Breakdown{}},
		{
			name:     "within free slots",
			selected: []model.Activity{act("A"), act("B"), act("C")},
			want:     Breakdown{FreeUsed: 3},
		},
		{
			name:     "extra free activities",
			selected: []model.Activity{act("A"), act("B"), act("C"), act("D"), act("E")},
			want:     Breakdown{FreeUsed: 3, ExtraCount: 2, ExtraCost: 13500, TotalCost: 13500},
		},
		{
			name:     "paid fees summed",
			selected: []model.Activity{act("A", paid(4500)), act("B", paid(3000)), act("C")},
			want:     Breakdown{FreeUsed: 1, FixedCost: 7500, TotalCost: 7500},
		},
		{
			name:     "eal flat fee without slot",
			selected: []model.Activity{act("PEAL1"), act("PEAL2"), act("A"), act("B"), act("C")},
			want:     Breakdown{FreeUsed: 3, EALCost: 25000, TotalCost: 25000},
		},
		{
			name:     "aen uses no slot",
			selected: []model.Activity{act("AEN1", paid(2000)), act("AEN2"), act("A"), act("B"), act("C"), act("D")},
			want:     Breakdown{FreeUsed: 3, ExtraCount: 1, FixedCost: 2000, ExtraCost: 6750, TotalCost: 8750},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calc.Cost(tt.selected))
		})
	}
}

func TestCost_CustomRates(t *testing.T) {
	calc := NewCalculator(Rates{FreeSlots: 1, ExtraFee: 100, EALFee: 50})
	got := calc.Cost([]model.Activity{act("A"), act("B"), act("SEAL1")})
	assert.Equal(t, Breakdown{FreeUsed: 1, ExtraCount: 1, ExtraCost: 100, EALCost: 50, TotalCost: 150}, got)
	assert.Equal(t, 1, calc.Rates().FreeSlots)
}
