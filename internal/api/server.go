// Package api serves parsed activities and selection planning over HTTP.
package api

import (
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sells-group/eca-cli/internal/observability"
	"github.com/sells-group/eca-cli/internal/planner"
)

// Options configures the HTTP surface.
type Options struct {
	RateLimit   float64
	RateBurst   int
	CORSOrigins []string
	Rates       planner.Rates
}

// Server holds the catalog being served.
type Server struct {
	opts    Options
	calc    *planner.Calculator
	catalog atomic.Pointer[Catalog]
}

// NewServer creates a Server. cat may be nil until a run is available.
func NewServer(cat *Catalog, opts Options) *Server {
	s := &Server{opts: opts, calc: planner.NewCalculator(opts.Rates)}
	s.catalog.Store(cat)
	return s
}

// SetCatalog swaps the served catalog.
func (s *Server) SetCatalog(cat *Catalog) {
	s.catalog.Store(cat)
}

// Catalog returns the served catalog, or nil.
func (s *Server) Catalog() *Catalog {
	return s.catalog.Load()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(observability.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.opts.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(s.opts.RateLimit, s.opts.RateBurst))
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(s.requireCatalog)

		r.Get("/meta", s.meta)
		r.Get("/activities", s.listActivities)
		r.Get("/activities/{id}", s.getActivity)
		r.Post("/plan", s.plan)
	})

	return r
}

func (s *Server) requireCatalog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.Catalog() == nil {
			writeError(w, r, http.StatusServiceUnavailable, "no parsed run available")
			return
		}
		next.ServeHTTP(w, r)
	})
}
