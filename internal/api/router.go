// Package api wires the HTTP surface: campaign and integration CRUD, the
// analyze endpoints, run history, health probes and Prometheus metrics.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marketpulse/app"
	"marketpulse/internal"
)

// Deps is everything the router needs
type Deps struct {
	Campaigns    *app.CampaignService
	Integrations *app.IntegrationService
	Analysis     *app.AnalysisService
	Metrics      *Metrics
	Logger       *internal.Logger
}

// NewRouter builds the chi router with all routes and middleware
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = internal.DefaultLogger
	}
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}

	ch := &campaignHandlers{svc: d.Campaigns}
	ih := &integrationHandlers{svc: d.Integrations}
	ah := &analysisHandlers{svc: d.Analysis, metrics: d.Metrics}

	mux := chi.NewRouter()
	mux.Use(chimiddleware.RequestID)
	mux.Use(chimiddleware.RealIP)
	mux.Use(requestLogger(d.Logger))
	mux.Use(instrument(d.Metrics))
	mux.Use(chimiddleware.Recoverer)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	mux.Route("/api", func(r chi.Router) {
		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", ch.create)
			r.Get("/", ch.list)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", ch.get)
				r.Put("/", ch.update)
				r.Delete("/", ch.delete)
				r.Post("/analyze", ah.analyze)
				r.Post("/analyze/table", ah.analyzeTable)
				r.Get("/runs", ah.history)
			})
		})
		r.Route("/integrations", func(r chi.Router) {
			r.Post("/", ih.create)
			r.Get("/", ih.list)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", ih.get)
				r.Put("/", ih.update)
				r.Delete("/", ih.delete)
			})
		})
	})

	return mux
}
