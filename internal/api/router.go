// Package api assembles the ingestion API router.
package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/api/handlers"
	"github.com/drfirst/go-x12/internal/api/middleware"
	"github.com/drfirst/go-x12/internal/observability/metrics"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// Deps are the collaborators the router needs
type Deps struct {
	ServiceName  string
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	APIKeys      map[string]string
	CORSOrigins  []string
	MaxBodyBytes int64
	X12          *handlers.X12Handler
	Interchanges *handlers.InterchangeHandler
	// Ready reports whether dependencies are reachable; nil means always ready
	Ready func(ctx context.Context) error
}

// NewRouter builds the HTTP handler for the ingestion API
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(middleware.Recover(d.Logger))
	r.Use(middleware.Logger(d.Logger))
	r.Use(middleware.Tracing(d.ServiceName))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"` + d.ServiceName + `","version":"` + Version + `"}`))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				d.Logger.Warn("readiness check failed", zap.Error(err))
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ready"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(d.APIKeys))
		r.Use(middleware.MaxBodyBytes(d.MaxBodyBytes))
		if d.X12 != nil {
			r.Mount("/x12", d.X12.Routes())
		}
		if d.Interchanges != nil {
			r.Mount("/interchanges", d.Interchanges.Routes())
		}
	})

	return r
}
