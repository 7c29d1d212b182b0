package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"marketpulse/adapters/postgres"
	"marketpulse/adapters/postgres/migrations"
	"marketpulse/adapters/registry"
	"marketpulse/adapters/tabular"
	"marketpulse/app"
	"marketpulse/domain/schema"
	"marketpulse/internal"
	"marketpulse/internal/api"
	"marketpulse/internal/config"
	"marketpulse/internal/refresh"
)

func main() {
	logger := internal.NewDefaultLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("configuration error: %v", err)
		os.Exit(1)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := migrations.NewMigrator(db.DB).Up(ctx); err != nil {
		logger.Error("migrations failed: %v", err)
		os.Exit(1)
	}

	reg, err := registry.Load(cfg.Pipeline.RegistryFile)
	if err != nil {
		logger.Error("field registry failed to load: %v", err)
		os.Exit(1)
	}

	pipeline, err := app.NewPipelineService(reg, schema.Config{
		SampleSize:          cfg.Pipeline.SampleSize,
		TypeThreshold:       cfg.Pipeline.TypeThreshold,
		TimeSeriesThreshold: cfg.Pipeline.TimeSeriesThreshold,
	})
	if err != nil {
		logger.Error("pipeline setup failed: %v", err)
		os.Exit(1)
	}

	campaignRepo := postgres.NewCampaignRepository(db)
	integrationRepo := postgres.NewIntegrationRepository(db)
	runRepo := postgres.NewRunRepository(db)
	source := tabular.NewDirectorySource(cfg.Source.DataDir)

	campaignSvc := app.NewCampaignService(campaignRepo, logger)
	integrationSvc := app.NewIntegrationService(integrationRepo, logger)
	analysisSvc := app.NewAnalysisService(campaignRepo, integrationRepo, runRepo, source, pipeline, logger)

	router := api.NewRouter(api.Deps{
		Campaigns:    campaignSvc,
		Integrations: integrationSvc,
		Analysis:     analysisSvc,
		Logger:       logger,
	})

	if cfg.Refresh.Enabled {
		scheduler := refresh.NewScheduler(
			campaignRepo, integrationRepo, analysisSvc,
			cfg.Refresh.Interval, cfg.Refresh.Workers, logger)
		go func() {
			if err := scheduler.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("refresh scheduler exited: %v", err)
			}
		}()
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error: %v", err)
		}
	}()

	logger.Info("marketpulse api listening on :%s (registry %s)", cfg.Server.Port, reg.Version)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error: %v", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
