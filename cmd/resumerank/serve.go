package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/domain/ranking/weight"
	"github.com/kailas-cloud/resumerank/internal/metrics"
	chiTransport "github.com/kailas-cloud/resumerank/internal/transport/chi"
	"github.com/kailas-cloud/resumerank/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

var servePort int

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Override http.port from the config")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger := &app.cfg, app.logger
	if servePort > 0 {
		cfg.HTTP.Port = servePort
	}

	logger.Info("Starting resumerank API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", app.env),
		zap.Int("http_port", cfg.HTTP.Port),
	)

	ctx := cmd.Context()
	svc, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.store.Close()

	// Startup snapshot load. On failure ranking answers 503 until a refresh succeeds.
	if n, err := svc.snapshot.Load(ctx); err != nil {
		logger.Error("Initial snapshot load failed", zap.Error(err))
	} else {
		logger.Info("Candidate snapshot loaded", zap.Int("candidates", n))
	}

	defaults, err := weight.New(cfg.Ranking.KeywordWeight, cfg.Ranking.SemanticWeight)
	if err != nil {
		return fmt.Errorf("ranking defaults: %w", err)
	}
	server := chiTransport.NewServer(svc.ranking, svc.candidates, svc.snapshot, svc.health, logger).
		WithDefaults(defaults, cfg.Ranking.DefaultLimit)

	metrics.RegisterHTTPMetrics()
	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-quit:
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}
