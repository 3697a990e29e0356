package app

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fxdeals/internal/adapters/cache"
	"fxdeals/internal/adapters/postgres"
	"fxdeals/internal/api"
	"fxdeals/internal/config"
	"fxdeals/internal/deal"
	"fxdeals/internal/deal/handler"
	"fxdeals/internal/platform/db"
	httpserver "fxdeals/internal/platform/http"

	"github.com/sirupsen/logrus"
)

// Run wires the application components, starts HTTP server and scheduler
func Run() error {
	appCfg, err := config.Init()
	if err != nil {
		return err
	}
	setupLogger(appCfg.Logging)
	logrus.Info("✅ Config initialization successful")

	// Root context bound to OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Bounded context for startup operations (DB connect, migrations)
	startupCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	// DB pool
	pool, err := db.CreatePoolAndPing(startupCtx, appCfg.DbServer)
	if err != nil {
		logrus.WithError(err).Error("Error connecting to db")
		return err
	}
	defer pool.Close()
	logrus.Info("✅ Postgres connection successful")

	if err = db.Migrate(startupCtx, pool); err != nil {
		logrus.WithError(err).Error("Failed to apply migrations")
		return err
	}

	// Known deal ids cache
	knownDeals, err := cache.NewKnownDealCache(appCfg.Cache.KnownDealsMaxItems)
	if err != nil {
		logrus.WithError(err).Error("Failed to create known deals cache")
		return err
	}
	defer knownDeals.Close()

	// Repositories
	dealRepo := postgres.NewDealRepository(pool)
	importRunRepo := postgres.NewImportRunRepository(pool)

	// Services
	store := deal.NewStore(dealRepo, knownDeals, appCfg.Import.StoreTimeout())
	importer := deal.NewImporter(store, appCfg.Import.ValidationWorkers)
	dealService := deal.NewService(store, importer, dealRepo, importRunRepo)

	scheduler := deal.NewRetentionScheduler(importRunRepo, appCfg.Retention.ImportRunsTTL(), appCfg.Retention.JobInterval())
	// Ensure scheduler stops before DB pool closes
	defer func() {
		if shutDownErr := scheduler.Shutdown(); shutDownErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", shutDownErr)
		}
	}()
	if startErr := scheduler.Start(ctx); startErr != nil {
		logrus.WithError(startErr).Error("Failed to start scheduler")
		return startErr
	}
	logrus.Info("✅ Scheduler activation successful")

	// Handlers and router
	dealHandler := handler.NewDealHandler(dealService, appCfg.Import.MaxFileBytes)
	router := api.NewRouter(dealHandler)

	logrus.Info("Starting http server")
	// Block until context is canceled, then perform graceful shutdown.
	if serverErr := httpserver.Start(ctx, appCfg.HTTPServer, router); serverErr != nil {
		stop()
		logrus.Errorf("HTTP server error: %v", serverErr)
		return serverErr
	}
	return nil
}

func setupLogger(cfg config.Logging) {
	logrus.SetOutput(os.Stdout)
	if parsedLvl, parseErr := logrus.ParseLevel(cfg.Level); parseErr != nil {
		logrus.SetLevel(logrus.InfoLevel)
	} else {
		logrus.SetLevel(parsedLvl)
	}
	if strings.EqualFold(cfg.Format, "json") {
		logrus.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}
