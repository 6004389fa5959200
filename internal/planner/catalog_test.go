package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eca-cli/internal/model"
)

func testCatalog() *Catalog {
	return NewCatalog([]model.Activity{
		act("P1", years(1, 6, "Year 1", "Year 6"), at("15:30", "16:20", "Monday")),
		act("P2", years(1, 6, "Year 1", "Year 6"), at("16:00", "17:00", "Monday"), paid(4500)),
		act("S1", years(7, 13, "Year 7", "Year 13"), at("16:30", "18:00", "Tuesday"), func(a *model.Activity) { a.Level = model.LevelSecondary }),
		act("PEAL1", years(1, 6, "Year 1", "Year 6"), at("15:30", "16:20", "Monday", "Thursday")),
		act("F1", named("Football Boys"), years(3, 6, "Year 3", "Year 6"), at("15:30", "16:20", "Thursday")),
		act("P1", named("duplicate")),
	})
}

func TestCatalog_GetResolve(t *testing.T) {
	c := testCatalog()
	assert.Equal(t, 6, c.Len())

	a, ok := c.Get("P1")
	require.True(t, ok)
	assert.Equal(t, "P1", a.Name, "first occurrence wins")

	_, ok = c.Get("nope")
	assert.False(t, ok)

	found, unknown := c.Resolve([]string{"S1", "zz", "P2"})
	require.Len(t, found, 2)
	assert.Equal(t, "S1", found[0].ID)
	assert.Equal(t, "P2", found[1].ID)
	assert.Equal(t, []string{"zz"}, unknown)
}

func ids(acts []model.Activity) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.ID
	}
	return out
}

func TestCatalog_Select(t *testing.T) {
	c := testCatalog()
	yes, no := true, false

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "year", filter: Filter{Year: "8"}, want: []string{"S1"}},
		{name: "slot", filter: Filter{Slot: SlotExtended}, want: []string{"S1"}},
		{name: "day", filter: Filter{Day: "Thursday"}, want: []string{"PEAL1", "F1"}},
		{name: "effective category", filter: Filter{Category: model.CategoryEAL}, want: []string{"PEAL1"}},
		{name: "level", filter: Filter{Level: model.LevelSecondary}, want: []string{"S1"}},
		{name: "paid", filter: Filter{Free: &no}, want: []string{"P2"}},
		{name: "free year 2", filter: Filter{Free: &yes, Year: "2"}, want: []string{"P1", "PEAL1"}},
		{name: "child hides eal", filter: Filter{Year: "2", Child: &Child{Year: "2"}}, want: []string{"P1", "P2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(c.Select(tt.filter)))
		})
	}
	assert.Empty(t, c.Select(Filter{Year: "12", Day: "Monday"}))
	assert.NotNil(t, c.Select(Filter{Year: "12", Day: "Monday"}))
}

func TestEvaluate(t *testing.T) {
	calc := NewCalculator(DefaultRates())
	child := Child{Year: "4", Gender: GenderGirl, HasEAL: true}

	plan := calc.Evaluate(testCatalog(), Request{
		Child:    child,
		Selected: []string{"P1", "P2", "PEAL1", "F1", "S1", "missing"},
	})

	assert.Equal(t, []string{"P1", "P2", "PEAL1", "F1", "S1"}, plan.Selected)
	assert.Equal(t, []string{"missing"}, plan.Unknown)
	assert.Equal(t, []string{"P1", "P2", "PEAL1", "F1"}, plan.Conflicts)
	assert.Equal(t, []string{"P1", "F1"}, plan.EALBlocked)
	assert.Equal(t, []string{"F1"}, plan.Mismatched)
	assert.Equal(t, []string{"S1"}, plan.WrongYear)
	assert.Equal(t, Breakdown{FreeUsed: 3, FixedCost: 4500, EALCost: 25000, TotalCost: 29500}, plan.Cost)
	assert.False(t, plan.Valid())
}

func TestEvaluate_Valid(t *testing.T) {
	calc := NewCalculator(DefaultRates())
	plan := calc.Evaluate(testCatalog(), Request{Child: Child{Year: "3"}, Selected: []string{"P1"}})
	assert.True(t, plan.Valid())
	assert.Equal(t, Breakdown{FreeUsed: 1}, plan.Cost)
	assert.Empty(t, plan.Conflicts)
}
