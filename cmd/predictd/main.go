package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/beaconx/disaster-predict/internal/adapter/httpapi"
	kafkaadapter "github.com/beaconx/disaster-predict/internal/adapter/kafka"
	"github.com/beaconx/disaster-predict/internal/artifact"
	"github.com/beaconx/disaster-predict/internal/config"
	"github.com/beaconx/disaster-predict/internal/observability"
	"github.com/beaconx/disaster-predict/internal/predictor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	store := artifact.NewFileStore(cfg.ModelDir)
	registry := artifact.NewRegistry(store, logger, metrics)

	if cfg.ModelPreload {
		if err := registry.Preload(); err != nil {
			logger.Error("model preload failed", "model_dir", cfg.ModelDir, "error", err)
			os.Exit(1)
		}
		logger.Info("models preloaded", "model_dir", cfg.ModelDir)
	}

	// Prediction event publishing is feature-flagged via KAFKA_ENABLED.
	var publisher predictor.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("prediction event publishing enabled", "topic", cfg.KafkaPredictionsTopic)
	} else {
		logger.Info("prediction event publishing disabled")
	}

	p := predictor.New(registry, publisher, logger, metrics, clock)
	srv := httpapi.NewServer(cfg.HTTPAddr, p, cfg.RequestTimeout, clock, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
