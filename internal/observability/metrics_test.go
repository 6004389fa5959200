package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/sells-group/eca-cli/internal/model"
)

func TestRecordRun(t *testing.T) {
	emitBefore := testutil.ToFloat64(rowsTotal.WithLabelValues("emit"))
	parsedBefore := testutil.ToFloat64(parsedTotal)
	dupBefore := testutil.ToFloat64(duplicatesTotal)

	at := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	RecordRun(model.Stats{
		Parsed: 5, Duplicates: 1,
		Categories: []model.Count{{Code: "chess", Count: 3}, {Code: "dance", Count: 1}},
		Levels:     []model.Count{{Code: "primary", Count: 4}},
	}, map[string]int{"emit": 5, "header": 1}, at)

	assert.Equal(t, emitBefore+5, testutil.ToFloat64(rowsTotal.WithLabelValues("emit")))
	assert.Equal(t, parsedBefore+5, testutil.ToFloat64(parsedTotal))
	assert.Equal(t, dupBefore+1, testutil.ToFloat64(duplicatesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(activitiesGauge.WithLabelValues("category", "chess")))
	assert.Equal(t, 4.0, testutil.ToFloat64(activitiesGauge.WithLabelValues("level", "primary")))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(lastRunGauge))

	// A later run replaces the per-code gauges.
	RecordRun(model.Stats{Categories: []model.Count{{Code: "art", Count: 2}}}, nil, time.Time{})
	assert.Equal(t, 1, testutil.CollectAndCount(activitiesGauge))
	assert.Equal(t, float64(at.Unix()), testutil.ToFloat64(lastRunGauge))
}

func TestMiddleware(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/api/activities/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	before := testutil.ToFloat64(requestsTotal.WithLabelValues("/api/activities/{id}", "404"))
	okBefore := testutil.ToFloat64(requestsTotal.WithLabelValues("/health", "200"))

	for _, path := range []string{"/api/activities/P1", "/api/activities/P2", "/health"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, before+2, testutil.ToFloat64(requestsTotal.WithLabelValues("/api/activities/{id}", "404")))
	assert.Equal(t, okBefore+1, testutil.ToFloat64(requestsTotal.WithLabelValues("/health", "200")))
}
