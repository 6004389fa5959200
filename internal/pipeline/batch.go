package pipeline

import (
	"slices"

	"github.com/sells-group/eca-cli/internal/model"
)

// Default payload labels.
const (
	DefaultSource = "HeadStart ECA Chaofah City Campus"
	DefaultTerm   = "Term 2&3 2025-2026"
)

// Result is the outcome of one batch pass.
type Result struct {
	// Activities are deduplicated by ID in first-seen order.
	Activities []model.Activity
	Stats      model.Stats
	// Decisions counts rows per interpreter decision.
	Decisions map[Decision]int
}

// Interpret folds Step over rows and returns every emitted activity in
// arrival order, duplicates included.
func Interpret(rows [][]string) ([]model.Activity, map[Decision]int) {
	var (
		st        State
		acts      = []model.Activity{}
		decisions = make(map[Decision]int)
	)
	for _, cells := range rows {
		var act *model.Activity
		var d Decision
		st, act, d = Step(st, cells)
		decisions[d]++
		if act != nil {
			acts = append(acts, *act)
		}
	}
	return acts, decisions
}

// Dedupe keeps the first activity seen for each ID and reports how many
// later ones were dropped.
func Dedupe(acts []model.Activity) ([]model.Activity, int) {
	seen := make(map[string]struct{}, len(acts))
	out := make([]model.Activity, 0, len(acts))
	dups := 0
	for _, a := range acts {
		if _, ok := seen[a.ID]; ok {
			dups++
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out, dups
}

// Run processes a whole export in one pass.
func Run(rows [][]string) Result {
	parsed, decisions := Interpret(rows)
	unique, dups := Dedupe(parsed)

	stats := Summarize(unique)
	stats.Rows = len(rows)
	stats.Parsed = len(parsed)
	stats.Duplicates = dups

	return Result{
		Activities: unique,
		Stats:      stats,
		Decisions:  decisions,
	}
}

// Summarize counts free/paid activities and activities per category and
// level. Counts are ordered by descending count, ties in first-seen order.
func Summarize(acts []model.Activity) model.Stats {
	cats := newCounter()
	levels := newCounter()
	stats := model.Stats{Unique: len(acts)}
	for _, a := range acts {
		cats.add(string(a.Category))
		levels.add(string(a.Level))
		if a.IsFree {
			stats.Free++
		} else {
			stats.Paid++
		}
	}
	stats.Categories = cats.sorted()
	stats.Levels = levels.sorted()
	return stats
}

type counter struct {
	idx    map[string]int
	counts []model.Count
}

func newCounter() *counter {
	return &counter{idx: make(map[string]int)}
}

func (c *counter) add(code string) {
	if i, ok := c.idx[code]; ok {
		c.counts[i].Count++
		return
	}
	c.idx[code] = len(c.counts)
	c.counts = append(c.counts, model.Count{Code: code, Count: 1})
}

func (c *counter) sorted() []model.Count {
	out := slices.Clone(c.counts)
	if out == nil {
		out = []model.Count{}
	}
	slices.SortStableFunc(out, func(a, b model.Count) int {
		return b.Count - a.Count
	})
	return out
}

// BuildPayload assembles the output document. Empty source or term labels
// fall back to the defaults.
func BuildPayload(meta model.Meta, res Result) *model.Payload {
	if meta.Source == "" {
		meta.Source = DefaultSource
	}
	if meta.Term == "" {
		meta.Term = DefaultTerm
	}
	meta.TotalActivities = len(res.Activities)
	meta.FreeActivities = res.Stats.Free
	meta.PaidActivities = res.Stats.Paid

	acts := res.Activities
	if acts == nil {
		acts = []model.Activity{}
	}
	return &model.Payload{
		Meta:       meta,
		Categories: model.CategoryLabels,
		Levels:     model.LevelLabels,
		Activities: acts,
	}
}
