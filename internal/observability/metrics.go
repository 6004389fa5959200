// Package observability exposes Prometheus metrics for parse runs and the API.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sells-group/eca-cli/internal/model"
)

const namespace = "eca"

var (
	rowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "rows_total",
		Help:      "Input rows read, by interpreter decision.",
	}, []string{"decision"})
	parsedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "activities_parsed_total",
		Help:      "Activities emitted before de-duplication.",
	})
	duplicatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "duplicates_dropped_total",
		Help:      "Activities dropped because their ID was already seen.",
	})
	activitiesGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "activities",
		Help:      "Unique activities in the last run, by category and level dimension.",
	}, []string{"dimension", "code"})
	lastRunGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the most recent successful run.",
	})

	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "API requests by route pattern and status code.",
	}, []string{"route", "status"})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "API request latency by route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(
		rowsTotal, parsedTotal, duplicatesTotal, activitiesGauge, lastRunGauge,
		requestsTotal, requestDuration,
	)
}

// RecordRun records a finished batch run. decisions maps decision names to
// row counts.
func RecordRun(stats model.Stats, decisions map[string]int, at time.Time) {
	for d, n := range decisions {
		rowsTotal.WithLabelValues(d).Add(float64(n))
	}
	parsedTotal.Add(float64(stats.Parsed))
	duplicatesTotal.Add(float64(stats.Duplicates))

	activitiesGauge.Reset()
	for _, c := range stats.Categories {
		activitiesGauge.WithLabelValues("category", c.Code).Set(float64(c.Count))
	}
	for _, c := range stats.Levels {
		activitiesGauge.WithLabelValues("level", c.Code).Set(float64(c.Count))
	}
	if !at.IsZero() {
		lastRunGauge.Set(float64(at.Unix()))
	}
}

// Middleware counts requests by chi route pattern and status.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
