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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/fillytrckr-backend/api/routes"
	"github.com/angelmondragon/fillytrckr-backend/internal/catalogs"
	"github.com/angelmondragon/fillytrckr-backend/internal/rolls"
	"github.com/angelmondragon/fillytrckr-backend/pkg/config"
	"github.com/angelmondragon/fillytrckr-backend/pkg/db"
	"github.com/angelmondragon/fillytrckr-backend/pkg/logger"
	"github.com/angelmondragon/fillytrckr-backend/pkg/metrics"
	"github.com/angelmondragon/fillytrckr-backend/pkg/migrate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	err = migrate.MaybeRun(ctx, cfg, logg, dbClient)
	requireResource(ctx, logg, "migrations", err)

	catalogService, err := catalogs.NewService(catalogs.NewRepository(dbClient.DB()), dbClient, logg)
	requireResource(ctx, logg, "catalog service", err)

	if cfg.FeatureFlags.SeedDefaults {
		added, err := catalogService.Seed(ctx)
		requireResource(ctx, logg, "catalog seed", err)
		logg.Info(logg.WithField(ctx, "added", added), "default catalogs seeded")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	rollService, err := rolls.NewService(rolls.NewRepository(dbClient), metrics.NewRollMetrics(registry), logg)
	requireResource(ctx, logg, "roll service", err)

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Driver(),
	})

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, registry, metrics.NewHTTPMetrics(registry), rollService, catalogService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-runCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	case runErr = <-serveErr:
		logg.Error(ctx, "api server stopped unexpectedly", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	runErr = multierr.Combine(
		runErr,
		server.Shutdown(shutdownCtx),
		dbClient.Close(),
	)
	if runErr != nil {
		logg.Error(ctx, "api shutdown finished with errors", runErr)
		os.Exit(1)
	}
	logg.Info(ctx, "api server stopped")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
