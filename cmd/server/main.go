// Package main is the entry point for the fare discovery engine.
//
// The engine harvests cheap destination candidates per origin, expands the
// best routes across the rolling booking horizon, and serves the results
// over HTTP. Pacing, pool sizes and the optional deal store are configured
// through the environment; see internal/config.
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

	"github.com/labstack/echo/v4"

	"github.com/faredrop/fare-discovery-engine/internal/adapter/airports"
	"github.com/faredrop/fare-discovery-engine/internal/adapter/browser"
	apihttp "github.com/faredrop/fare-discovery-engine/internal/adapter/http"
	"github.com/faredrop/fare-discovery-engine/internal/adapter/http/middleware"
	"github.com/faredrop/fare-discovery-engine/internal/adapter/storage/postgres"
	"github.com/faredrop/fare-discovery-engine/internal/adapter/travelapi"
	"github.com/faredrop/fare-discovery-engine/internal/config"
	"github.com/faredrop/fare-discovery-engine/internal/expand"
	"github.com/faredrop/fare-discovery-engine/internal/harvest"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/logger"
	"github.com/faredrop/fare-discovery-engine/internal/infrastructure/timeutil"
	"github.com/faredrop/fare-discovery-engine/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.MustLoad()

	logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	log := logger.Global

	log.Info().
		Str("env", cfg.App.Env).
		Int("port", cfg.Server.Port).
		Bool("renderer", cfg.Renderer.Enabled).
		Bool("storage", cfg.Storage.PostgresDSN != "").
		Msg("Configuration loaded")

	// Airport code resolution for rendered-fallback results.
	resolver := airports.NewResolver()
	if cfg.App.AirportTablePath != "" {
		if err := resolver.LoadExtra(cfg.App.AirportTablePath); err != nil {
			log.Warn().Err(err).Str("path", cfg.App.AirportTablePath).
				Msg("Failed to load extra airport table, using built-ins only")
		}
	}

	// Remote clients for the two surfaces.
	fetchTimeout := travelapi.WithFetchTimeout(cfg.Engine.FetchTimeout)
	exploreClient := travelapi.NewExploreClient(log, fetchTimeout)
	calendarClient := travelapi.NewCalendarClient(log, fetchTimeout)

	// Rendered fallback is optional; a nil renderer disables it and the
	// harvester relies on the structured-payload strategies alone.
	var renderer harvest.Renderer
	if cfg.Renderer.Enabled {
		r := browser.NewRenderer(browser.Options{
			Headless: cfg.Renderer.Headless,
			Timeout:  cfg.Renderer.Timeout,
		}, log)
		defer r.Close()
		renderer = r
	}

	harvester := harvest.NewHarvester(exploreClient, renderer, resolver, log,
		harvest.WithFallbackMinResults(cfg.Engine.FallbackMinResults))

	expander := expand.NewExpander(
		travelapi.CalendarWindowFetcher{Client: calendarClient},
		timeutil.NewRealClock(),
		timeutil.NewRealSleeper(),
		log,
	)

	// Optional deal store. An empty DSN runs the engine storage-free;
	// results are still returned to HTTP callers.
	var store usecase.DealStore
	if cfg.Storage.PostgresDSN != "" {
		pool, err := postgres.NewPool(context.Background(), cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to postgres")
		}
		defer pool.Close()

		dealStore, err := postgres.NewDealStore(pool)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create deal store")
		}
		if err := dealStore.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure storage schema")
		}
		store = dealStore
	}

	discovery := usecase.NewDiscoveryUseCase(
		harvester,
		expander,
		store,
		usecase.Config{
			HarvestWorkers:  cfg.Engine.HarvestWorkers,
			ExpandWorkers:   cfg.Engine.ExpandWorkers,
			MajorBatchSize:  cfg.Pacing.MajorBatchSize,
			MiniBatchSize:   cfg.Pacing.MiniBatchSize,
			MajorCooldown:   cfg.Pacing.MajorCooldown,
			MiniPause:       cfg.Pacing.MiniPause,
			WorkerStagger:   cfg.Pacing.WorkerStagger,
			EmptyRetryDelay: cfg.Pacing.EmptyRetryDelay,
			BatchDeadline:   cfg.Pacing.BatchDeadline,
			Threshold:       cfg.Engine.Threshold,
			TopK:            cfg.Engine.TopK,
			RequestsPerSec:  cfg.Pacing.RequestsPerSec,
		},
		timeutil.NewRealClock(),
		timeutil.NewRealSleeper(),
		log,
	)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	// Zero by default: a run response is written only when the run ends.
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	middleware.Setup(e, log.Logger)
	apihttp.RegisterRoutes(e, apihttp.NewDiscoveryHandler(harvester, expander, discovery))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		log.Info().Str("address", addr).Msg("Starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	gracefulShutdown(e, log)
}

// gracefulShutdown blocks until an interrupt signal, then drains the server.
func gracefulShutdown(e *echo.Echo, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
