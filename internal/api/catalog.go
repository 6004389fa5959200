package api

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/eca-cli/internal/model"
	"github.com/sells-group/eca-cli/internal/planner"
	"github.com/sells-group/eca-cli/internal/store"
)

// Catalog is the activity set the API serves.
type Catalog struct {
	RunID      string
	Meta       model.Meta
	Categories model.LabelTable
	Levels     model.LabelTable
	index      *planner.Catalog
}

// NewCatalog wraps a payload. Missing label tables fall back to the defaults.
func NewCatalog(runID string, p *model.Payload) *Catalog {
	c := &Catalog{
		RunID:      runID,
		Meta:       p.Meta,
		Categories: p.Categories,
		Levels:     p.Levels,
		index:      planner.NewCatalog(p.Activities),
	}
	if len(c.Categories) == 0 {
		c.Categories = model.CategoryLabels
	}
	if len(c.Levels) == 0 {
		c.Levels = model.LevelLabels
	}
	return c
}

// Index returns the planner view of the catalog.
func (c *Catalog) Index() *planner.Catalog { return c.index }

// LoadCatalog builds a catalog from the newest stored run. It returns nil
// when the store holds no runs.
func LoadCatalog(ctx context.Context, st store.Store) (*Catalog, error) {
	run, err := st.LatestRun(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "api: load latest run")
	}
	if run == nil {
		return nil, nil
	}
	return NewCatalog(run.ID, run.Payload()), nil
}

// LoadCatalogFile builds a catalog from a published JSON payload.
func LoadCatalogFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "api: read payload %s", path)
	}
	var p model.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "api: decode payload %s", path)
	}
	if p.Activities == nil {
		p.Activities = []model.Activity{}
	}
	return NewCatalog("", &p), nil
}
