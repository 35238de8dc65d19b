package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/leasecheck/verifier/internal/api"
	"github.com/leasecheck/verifier/internal/config"
	"github.com/leasecheck/verifier/internal/ingestion"
	"github.com/leasecheck/verifier/internal/logger"
	"github.com/leasecheck/verifier/internal/reconciliation"
	"github.com/leasecheck/verifier/internal/verification"
)

func main() {
	log := logger.GetLogger()
	defer logger.Close()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Create services.
	reconSvc := reconciliation.NewService(cfg.Reconciliation.Tolerances(), logger.Named("reconciliation"))
	verifier := verification.NewValidator(reconSvc,
		verification.WithLogger(logger.Named("verification")),
		verification.WithConfidenceThreshold(cfg.Review.ConfidenceThreshold),
	)
	ingestionSvc := ingestion.NewService(logger.Named("ingestion"))

	// Create router.
	router := api.NewRouter(verifier, ingestionSvc, logger.Named("api"))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Infow("Applicant verification service listening",
			"addr", "http://localhost:"+cfg.Server.Port,
			"api_base", "/api/v1",
			"environment", cfg.Server.Environment,
		)
		log.Info("Endpoints: POST /api/v1/verify/{identity,income,address,application}, " +
			"POST /api/v1/statements/ingest, GET /healthz, GET /metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Graceful shutdown failed", "error", err)
	}
}
