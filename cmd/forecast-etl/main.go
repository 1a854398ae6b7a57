package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/couchcryptid/metno-forecast-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/metno-forecast-etl/internal/adapter/kafka"
	"github.com/couchcryptid/metno-forecast-etl/internal/adapter/metno"
	"github.com/couchcryptid/metno-forecast-etl/internal/config"
	"github.com/couchcryptid/metno-forecast-etl/internal/observability"
	"github.com/couchcryptid/metno-forecast-etl/internal/pipeline"
	"github.com/couchcryptid/metno-forecast-etl/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := metno.NewClient(cfg.MetnoBaseURL, cfg.MetnoUserAgent, cfg.MetnoTimeout, metrics, logger)
	logger.Info("metno client configured", "base_url", cfg.MetnoBaseURL, "timeout", cfg.MetnoTimeout)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(client, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	requests := kafkaadapter.NewRequestWriter(cfg, logger)
	sched := scheduler.New(cfg.SchedulePoints, cfg.ScheduleInterval, requests, metrics, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, client, logger,
		httpadapter.Check{Name: "pipeline", Checker: p},
		httpadapter.Check{Name: "metno", Checker: client},
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return p.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		sched.Stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("service error", "error", err)
	}

	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}
	if err := requests.Close(); err != nil {
		logger.Error("kafka request writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
