package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/leasecheck/verifier/internal/ingestion"
	"github.com/leasecheck/verifier/internal/verification"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	verifier *verification.Validator,
	ingestionSvc *ingestion.Service,
	log *zap.SugaredLogger,
) http.Handler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	h := &Handlers{
		verifier:     verifier,
		ingestionSvc: ingestionSvc,
		log:          log,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Get("/healthz", h.Health)

		r.Route("/api/v1", func(r chi.Router) {
			// Verification.
			r.Post("/verify/identity", h.VerifyIdentity)
			r.Post("/verify/income", h.VerifyIncome)
			r.Post("/verify/address", h.VerifyAddress)
			r.Post("/verify/application", h.VerifyApplication)

			// Statement import.
			r.Post("/statements/ingest", h.IngestStatement)
		})
	})

	return r
}
