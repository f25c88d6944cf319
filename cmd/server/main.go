package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"awardsreport/internal/platform/config"
	"awardsreport/internal/platform/httpserver"
	"awardsreport/internal/platform/logger"
	"awardsreport/internal/platform/postgres"
	summaryhandler "awardsreport/internal/summary/handler"
	summarymetrics "awardsreport/internal/summary/metrics"
	summaryservice "awardsreport/internal/summary/service"
	"awardsreport/internal/topline"
	"awardsreport/pkg/platform/middleware/request"
	"awardsreport/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	db, err := postgres.Open(cfg.DatabaseURL, cfg.MigrationsDir)
	if err != nil {
		log.Error("database setup failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	summarySvc, err := summaryservice.New(db, log)
	if err != nil {
		log.Error("summary service setup failed", "error", err)
		os.Exit(1)
	}
	toplineSvc, err := topline.New(db)
	if err != nil {
		log.Error("topline service setup failed", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	router.Use(request.ID)
	router.Use(requesttime.Middleware)

	summaryhandler.New(summarySvc, log, summarymetrics.New()).Register(router)
	topline.NewHandler(toplineSvc, log).Register(router)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting awardsreport", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
