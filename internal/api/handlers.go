package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/sells-group/eca-cli/internal/model"
	"github.com/sells-group/eca-cli/internal/planner"
)

// HealthResponse reports liveness and whether a catalog is loaded.
type HealthResponse struct {
	Status     string `json:"status"`
	RunID      string `json:"runId,omitempty"`
	Activities int    `json:"activities"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}
	if cat := s.Catalog(); cat != nil {
		resp.RunID = cat.RunID
		resp.Activities = cat.Index().Len()
	}
	render.JSON(w, r, resp)
}

// MetaResponse is the payload header with its label tables.
type MetaResponse struct {
	RunID      string           `json:"runId,omitempty"`
	Meta       model.Meta       `json:"meta"`
	Categories model.LabelTable `json:"categories"`
	Levels     model.LabelTable `json:"levels"`
	Rates      planner.Rates    `json:"rates"`
}

func (s *Server) meta(w http.ResponseWriter, r *http.Request) {
	cat := s.Catalog()
	render.JSON(w, r, MetaResponse{
		RunID:      cat.RunID,
		Meta:       cat.Meta,
		Categories: cat.Categories,
		Levels:     cat.Levels,
		Rates:      s.calc.Rates(),
	})
}

// ListResponse is a filtered activity listing.
type ListResponse struct {
	Count      int              `json:"count"`
	Activities []model.Activity `json:"activities"`
}

var knownSlots = map[planner.Slot]bool{
	planner.SlotAll:         true,
	planner.SlotAfterSchool: true,
	planner.SlotExtended:    true,
	planner.SlotEarly:       true,
}

// parseFilter reads listing filters from the query string.
func parseFilter(r *http.Request) (planner.Filter, string) {
	q := r.URL.Query()
	f := planner.Filter{
		Year:     q.Get("year"),
		Slot:     planner.Slot(q.Get("slot")),
		Day:      q.Get("day"),
		Category: model.Category(q.Get("category")),
		Level:    model.Level(q.Get("level")),
	}
	if f.Slot != "" && !knownSlots[f.Slot] {
		return f, "unknown slot " + strconv.Quote(string(f.Slot))
	}
	if v := q.Get("free"); v != "" {
		free, err := strconv.ParseBool(v)
		if err != nil {
			return f, "free must be true or false"
		}
		f.Free = &free
	}
	return f, ""
}

func (s *Server) listActivities(w http.ResponseWriter, r *http.Request) {
	f, problem := parseFilter(r)
	if problem != "" {
		writeError(w, r, http.StatusBadRequest, problem)
		return
	}
	acts := s.Catalog().Index().Select(f)
	render.JSON(w, r, ListResponse{Count: len(acts), Activities: acts})
}

func (s *Server) getActivity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := s.Catalog().Index().Get(id)
	if !ok {
		writeError(w, r, http.StatusNotFound, "activity "+strconv.Quote(id)+" not found")
		return
	}
	render.JSON(w, r, a)
}

func (s *Server) plan(w http.ResponseWriter, r *http.Request) {
	var req planner.Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Selected) == 0 {
		req.Selected = []string{}
	}
	render.JSON(w, r, s.calc.Evaluate(s.Catalog().Index(), req))
}
