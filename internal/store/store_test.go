package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/eca-cli/internal/model"
)

func newTestSQLite(t *testing.T) Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "eca.db")
	s, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func ip(v int) *int       { return &v }
func sp(s string) *string { return &s }

func testActivities() []model.Activity {
	return []model.Activity{
		{
			ID: "P2", Name: "Chess", NameOriginal: "Chess Year 1 to 6",
			Category: model.CategoryChess, Level: model.LevelPrimary, IsFree: true,
			YearGroups: model.YearGroups{Min: ip(1), Max: ip(6), Labels: []string{"Year 1", "Year 6"}},
			Schedule: model.Schedule{
				Days: []string{"Monday"},
				Time: model.TimeRange{Start: sp("15:30"), End: sp("16:30"), Raw: "15.30-16.30"},
			},
			Location: "Library", Teachers: []string{"Ms Lee"},
			Capacity: model.Capacity{Min: ip(8), Max: ip(16)},
			Provider: model.ProviderHeadStart, Section: "Primary Clubs",
		},
		{
			ID: "P1", Name: "Ballet", NameOriginal: "Ballet", Category: model.CategoryDance,
			Level: model.LevelUnknown, Fee: 4500,
			YearGroups: model.YearGroups{Labels: []string{}},
			Schedule:   model.Schedule{Days: []string{}},
			Teachers:   []string{}, Provider: model.ProviderHeadStart,
		},
	}
}

func testRun(id string, created time.Time) *model.Run {
	acts := testActivities()
	return &model.Run{
		ID:        id,
		Input:     "eca.csv",
		Meta:      model.Meta{Source: "Campus", Term: "Term 2", TotalActivities: 2, FreeActivities: 1, PaidActivities: 1},
		Stats:     model.Stats{Rows: 5, Parsed: 3, Duplicates: 1, Unique: 2, Free: 1, Paid: 1, Categories: []model.Count{{Code: "chess", Count: 1}, {Code: "dance", Count: 1}}, Levels: []model.Count{}},
		CreatedAt: created,
		Activities: acts,
	}
}

func storeTestSuite(t *testing.T, newStore func(t *testing.T) Store) {
	base := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	t.Run("SaveAndGetRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run := testRun("run-1", base)
		require.NoError(t, s.SaveRun(ctx, run))

		got, err := s.GetRun(ctx, "run-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "run-1", got.ID)
		assert.Equal(t, "eca.csv", got.Input)
		assert.Equal(t, run.Meta, got.Meta)
		assert.Equal(t, run.Stats, got.Stats)
		assert.True(t, base.Equal(got.CreatedAt))
		assert.Equal(t, run.Activities, got.Activities)
	})

	t.Run("ActivitiesKeepOutputOrder", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.SaveRun(ctx, testRun("run-1", base)))

		acts, err := s.ListActivities(ctx, "run-1")
		require.NoError(t, err)
		require.Len(t, acts, 2)
		assert.Equal(t, "P2", acts[0].ID)
		assert.Equal(t, "P1", acts[1].ID)
	})

	t.Run("AssignsIDAndTimestamp", func(t *testing.T) {
		s := newStore(t)
		run := testRun("", time.Time{})
		require.NoError(t, s.SaveRun(context.Background(), run))
		assert.NotEmpty(t, run.ID)
		assert.False(t, run.CreatedAt.IsZero())

		got, err := s.GetRun(context.Background(), run.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
	})

	t.Run("GetRunMissing", func(t *testing.T) {
		s := newStore(t)
		got, err := s.GetRun(context.Background(), "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("LatestRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		latest, err := s.LatestRun(ctx)
		require.NoError(t, err)
		assert.Nil(t, latest)

		require.NoError(t, s.SaveRun(ctx, testRun("old", base)))
		require.NoError(t, s.SaveRun(ctx, testRun("new", base.Add(time.Hour))))

		latest, err = s.LatestRun(ctx)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "new", latest.ID)
		assert.Len(t, latest.Activities, 2)
	})

	t.Run("ListRuns", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for i, id := range []string{"a", "b", "c"} {
			run := testRun(id, base.Add(time.Duration(i)*time.Hour))
			if id == "c" {
				run.Meta.Term = "Term 3"
			}
			require.NoError(t, s.SaveRun(ctx, run))
		}

		runs, err := s.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, "c", runs[0].ID)
		assert.Nil(t, runs[0].Activities)

		runs, err = s.ListRuns(ctx, RunFilter{Term: "Term 2"})
		require.NoError(t, err)
		assert.Len(t, runs, 2)

		runs, err = s.ListRuns(ctx, RunFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "b", runs[0].ID)

		runs, err = s.ListRuns(ctx, RunFilter{CreatedAfter: base.Add(30 * time.Minute)})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})

	t.Run("ResaveUpsertsActivities", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run := testRun("run-1", base)
		require.NoError(t, s.SaveRun(ctx, run))

		run.Activities[0].Name = "Chess Masters"
		run.Meta.Source = "Other"
		require.NoError(t, s.SaveRun(ctx, run))

		got, err := s.GetRun(ctx, "run-1")
		require.NoError(t, err)
		require.Len(t, got.Activities, 2)
		assert.Equal(t, "Chess Masters", got.Activities[0].Name)
		assert.Equal(t, "Other", got.Meta.Source)
	})

	t.Run("EmptyRun", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		run := testRun("empty", base)
		run.Activities = nil
		require.NoError(t, s.SaveRun(ctx, run))

		acts, err := s.ListActivities(ctx, "empty")
		require.NoError(t, err)
		assert.NotNil(t, acts)
		assert.Empty(t, acts)
	})

	t.Run("NilRun", func(t *testing.T) {
		s := newStore(t)
		require.Error(t, s.SaveRun(context.Background(), nil))
	})
}

func TestSQLiteStore(t *testing.T) {
	storeTestSuite(t, newTestSQLite)
}

func TestRunFilter_Limit(t *testing.T) {
	assert.Equal(t, defaultListLimit, RunFilter{}.limit())
	assert.Equal(t, defaultListLimit, RunFilter{Limit: -3}.limit())
	assert.Equal(t, 7, RunFilter{Limit: 7}.limit())
}

func TestActivityRecords(t *testing.T) {
	recs, err := activityRecords(testActivities())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "P2", recs[0].ActivityID)
	assert.Equal(t, 0, recs[0].Position)
	assert.Equal(t, "chess", recs[0].Category)
	assert.True(t, recs[0].IsFree)
	assert.Equal(t, 1, recs[1].Position)
	assert.Contains(t, string(recs[1].Data), `"fee":4500`)
}
