package planner

import (
	"slices"

	"github.com/sells-group/eca-cli/internal/model"
)

// Catalog indexes a run's activities by ID.
type Catalog struct {
	activities []model.Activity
	byID       map[string]int
}

// NewCatalog builds a Catalog. On duplicate IDs the first activity wins.
func NewCatalog(acts []model.Activity) *Catalog {
	c := &Catalog{activities: acts, byID: make(map[string]int, len(acts))}
	for i, a := range acts {
		if _, ok := c.byID[a.ID]; !ok {
			c.byID[a.ID] = i
		}
	}
	return c
}

// Activities returns all activities in output order.
func (c *Catalog) Activities() []model.Activity { return c.activities }

// Len returns the number of activities.
func (c *Catalog) Len() int { return len(c.activities) }

// Get looks up an activity by ID.
func (c *Catalog) Get(id string) (model.Activity, bool) {
	i, ok := c.byID[id]
	if !ok {
		return model.Activity{}, false
	}
	return c.activities[i], true
}

// Resolve returns the activities for ids in the given order, and the ids that
// are not in the catalog.
func (c *Catalog) Resolve(ids []string) (found []model.Activity, unknown []string) {
	found = []model.Activity{}
	unknown = []string{}
	for _, id := range ids {
		if a, ok := c.Get(id); ok {
			found = append(found, a)
		} else {
			unknown = append(unknown, id)
		}
	}
	return found, unknown
}

// Filter narrows the catalog for a listing. Zero fields match everything.
type Filter struct {
	Year     string
	Slot     Slot
	Day      string
	Category model.Category
	Level    model.Level
	Free     *bool
	// Child hides activities the profile opts out of when set.
	Child *Child
}

// Match reports whether a passes every set criterion. Category compares
// against the effective category.
func (f Filter) Match(a model.Activity) bool {
	if f.Year != "" && !MatchesYear(a, f.Year) {
		return false
	}
	if !MatchesSlot(a, f.Slot) {
		return false
	}
	if f.Day != "" && !slices.Contains(a.Schedule.Days, f.Day) {
		return false
	}
	if f.Category != "" && EffectiveCategory(a) != f.Category {
		return false
	}
	if f.Level != "" && a.Level != f.Level {
		return false
	}
	if f.Free != nil && a.IsFree != *f.Free {
		return false
	}
	if f.Child != nil && Hidden(a, *f.Child) {
		return false
	}
	return true
}

// Select returns the activities matching f in output order.
func (c *Catalog) Select(f Filter) []model.Activity {
	out := []model.Activity{}
	for _, a := range c.activities {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}
