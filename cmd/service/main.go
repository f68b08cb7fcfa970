package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/aqi-dashboard/internal/artifacts"
	"github.com/kjstillabower/aqi-dashboard/internal/config"
	"github.com/kjstillabower/aqi-dashboard/internal/dashboard"
	httphandler "github.com/kjstillabower/aqi-dashboard/internal/http"
	"github.com/kjstillabower/aqi-dashboard/internal/lifecycle"
	"github.com/kjstillabower/aqi-dashboard/internal/observability"
	"github.com/kjstillabower/aqi-dashboard/internal/service"
	"github.com/kjstillabower/aqi-dashboard/internal/validation"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	bundle, vocab, artifactsDir, err := loadArtifacts(cfg.ArtifactsDir)
	if err != nil {
		logger.Fatal("artifacts", zap.String("dir", artifactsDir), zap.Error(err))
	}
	for _, name := range []string{artifacts.ModelFile, artifacts.ScalerFile, artifacts.CityEncoderFile, artifacts.LocationEncoderFile} {
		observability.ArtifactsLoaded.WithLabelValues(name).Set(1)
	}
	logger.Info("artifacts loaded",
		zap.String("dir", artifactsDir),
		zap.String("model_type", bundle.ModelType),
		zap.Int("cities", len(vocab.Cities)),
		zap.Int("locations", len(vocab.Locations)))

	renderer, err := dashboard.NewRenderer()
	if err != nil {
		logger.Fatal("dashboard template", zap.Error(err))
	}

	predictionService := service.NewPredictionService(bundle.Builder, bundle.Predictor)

	healthConfig := &httphandler.HealthConfig{
		OverloadWindow:       cfg.OverloadWindow,
		OverloadThresholdPct: cfg.OverloadThresholdPct,
		RateLimitRPS:         cfg.RateLimitRPS,
		RateLimitBurst:       cfg.RateLimitBurst,
		DegradedWindow:       cfg.DegradedWindow,
		DegradedErrorPct:     cfg.DegradedErrorPct,
	}

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	handler := httphandler.NewHandler(predictionService, vocab, bundle.ModelType, renderer, cfg.DashboardTitle, healthConfig, logger)

	observability.RegisterRateLimitGauges(cfg.OverloadWindow)
	if len(cfg.TrackedCities) > 0 {
		observability.SetTrackedCities(cfg.TrackedCities)
	}

	router := httphandler.NewRouter(handler, limiter, cfg.RequestTimeout, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	lifecycle.MarkReady(time.Now())
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	inFlight := httphandler.InFlightCount()
	logger.Info("waiting for in-flight requests", zap.Int64("count", inFlight))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	logger.Info("shutdown complete")
}

// loadArtifacts resolves dir against the executable and loads the bundle from it.
// The resolved directory is returned even on error so startup failures can name it.
func loadArtifacts(dir string) (*artifacts.Bundle, validation.Vocabulary, string, error) {
	resolved, err := artifacts.ResolveDir(dir)
	if err != nil {
		return nil, validation.Vocabulary{}, dir, err
	}
	bundle, err := artifacts.Load(resolved)
	if err != nil {
		return nil, validation.Vocabulary{}, resolved, err
	}
	vocab := validation.Vocabulary{
		Cities:    bundle.CityEncoder.Classes(),
		Locations: bundle.LocationEncoder.Classes(),
	}
	return bundle, vocab, resolved, nil
}
