// Package main provides the entry point for the publication metadata
// service HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/helixir/publication-metadata-service/internal/cache"
	"github.com/helixir/publication-metadata-service/internal/config"
	"github.com/helixir/publication-metadata-service/internal/observability"
	"github.com/helixir/publication-metadata-service/internal/pipeline"
	"github.com/helixir/publication-metadata-service/internal/providers/altmetric"
	"github.com/helixir/publication-metadata-service/internal/providers/crossref"
	"github.com/helixir/publication-metadata-service/internal/providers/openalex"
	httpserver "github.com/helixir/publication-metadata-service/internal/server/http"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Set up structured logging.
	logger := observability.NewLogger(observability.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		Output:     cfg.Logging.Output,
		AddSource:  cfg.Logging.AddSource,
		TimeFormat: cfg.Logging.TimeFormat,
	})
	logger = logger.With().Str("component", "server").Logger()
	logger.Info().Msg("publication-metadata-service starting")

	// Set up context with graceful shutdown via OS signals.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
	}

	// Set up the enrichment cache store.
	var store cache.Store
	switch strings.ToLower(cfg.Cache.Backend) {
	case config.CacheBackendSQLite:
		store, err = cache.NewSQLiteStore(cfg.Cache.Path, cfg.Cache.TTL)
		if err != nil {
			return fmt.Errorf("open cache store: %w", err)
		}
		logger.Info().Str("path", cfg.Cache.Path).Msg("sqlite cache store opened")
	default:
		store = cache.NewMemoryStore(cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	defer store.Close()

	var cacheStats cache.StatsRecorder
	if metrics != nil {
		cacheStats = metrics
	}
	enrichmentCache := cache.New(store, logger, cacheStats)

	// Create provider clients.
	openalexClient := openalex.New(openalex.Config{
		BaseURL:   cfg.Providers.OpenAlex.BaseURL,
		Email:     cfg.Providers.OpenAlex.Email,
		Timeout:   cfg.Providers.OpenAlex.Timeout,
		RateLimit: cfg.Providers.OpenAlex.RateLimit,
		PageSize:  cfg.Providers.OpenAlex.PageSize,
	}, logger)

	crossrefClient := crossref.New(crossref.Config{
		BaseURL:   cfg.Providers.Crossref.BaseURL,
		Email:     cfg.Providers.Crossref.Email,
		Timeout:   cfg.Providers.Crossref.Timeout,
		RateLimit: cfg.Providers.Crossref.RateLimit,
	}, logger)

	altmetricClient := altmetric.New(altmetric.Config{
		BaseURL:   cfg.Providers.Altmetric.BaseURL,
		Timeout:   cfg.Providers.Altmetric.Timeout,
		RateLimit: cfg.Providers.Altmetric.RateLimit,
	}, logger)

	// Assemble the aggregation pipeline.
	agg := pipeline.New(pipeline.Config{
		Concurrency:       cfg.Pipeline.Concurrency,
		DefaultMaxResults: cfg.Pipeline.MaxResults,
	}, openalexClient, crossrefClient, altmetricClient, enrichmentCache, metrics, logger)

	httpCfg := httpserver.Config{
		Address:         cfg.Server.HTTPAddress(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		RequestTimeout:  cfg.Pipeline.RequestTimeout,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsPath:     cfg.Metrics.Path,
	}
	httpSrv := httpserver.NewServer(httpCfg, agg, logger)

	errCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info().
		Str("http_address", httpCfg.Address).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("publication-metadata-service is ready")

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info().Msg("received shutdown signal")
	case err := <-errCh:
		logger.Error().Err(err).Msg("server error")
		return err
	}

	logger.Info().Msg("shutting down publication-metadata-service")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("HTTP server shutdown error")
	}

	logger.Info().Msg("publication-metadata-service shutdown complete")
	return nil
}
