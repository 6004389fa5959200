// Package store persists parsed runs and their activities.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/eca-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Term         string    `json:"term,omitempty"`
	Input        string    `json:"input,omitempty"`
	CreatedAfter time.Time `json:"created_after,omitempty"`
	Limit        int       `json:"limit,omitempty"`
	Offset       int       `json:"offset,omitempty"`
}

const defaultListLimit = 100

func (f RunFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store defines the persistence interface for parse runs.
type Store interface {
	// SaveRun writes the run and its activities. A missing ID or creation
	// time is filled in. Saving an existing run replaces its header and
	// upserts its activities.
	SaveRun(ctx context.Context, run *model.Run) error
	// GetRun returns the run with its activities, or nil when absent.
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	// LatestRun returns the most recent run with its activities, or nil.
	LatestRun(ctx context.Context) (*model.Run, error)
	// ListRuns returns run headers, newest first, without activities.
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
	// ListActivities returns a run's activities in output order.
	ListActivities(ctx context.Context, runID string) ([]model.Activity, error)

	Migrate(ctx context.Context) error
	Close() error
}

// prepareRun assigns identity and timestamp to a new run.
func prepareRun(run *model.Run) error {
	if run == nil {
		return eris.New("store: nil run")
	}
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	return nil
}

// activityRecord is the column set stored per activity.
type activityRecord struct {
	ActivityID string
	Position   int
	Category   string
	Level      string
	IsFree     bool
	Data       []byte
}

func activityRecords(acts []model.Activity) ([]activityRecord, error) {
	out := make([]activityRecord, len(acts))
	for i, a := range acts {
		data, err := json.Marshal(a)
		if err != nil {
			return nil, eris.Wrapf(err, "store: marshal activity %s", a.ID)
		}
		out[i] = activityRecord{
			ActivityID: a.ID,
			Position:   i,
			Category:   string(a.Category),
			Level:      string(a.Level),
			IsFree:     a.IsFree,
			Data:       data,
		}
	}
	return out, nil
}

func decodeActivity(data []byte) (model.Activity, error) {
	var a model.Activity
	if err := json.Unmarshal(data, &a); err != nil {
		return a, eris.Wrap(err, "store: unmarshal activity")
	}
	return a, nil
}

func encodeHeader(run *model.Run) (meta, stats []byte, err error) {
	meta, err = json.Marshal(run.Meta)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal meta")
	}
	stats, err = json.Marshal(run.Stats)
	if err != nil {
		return nil, nil, eris.Wrap(err, "store: marshal stats")
	}
	return meta, stats, nil
}

func decodeHeader(run *model.Run, meta, stats []byte) error {
	if err := json.Unmarshal(meta, &run.Meta); err != nil {
		return eris.Wrap(err, "store: unmarshal meta")
	}
	if err := json.Unmarshal(stats, &run.Stats); err != nil {
		return eris.Wrap(err, "store: unmarshal stats")
	}
	return nil
}
