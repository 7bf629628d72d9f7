package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/database"
	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/search"
	"github.com/dkswoans/2307-fastapiProjects/internal/application/services"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/typesense"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	"github.com/dkswoans/2307-fastapiProjects/pkg/config"
)

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the trails collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger("trail-indexer", cfg.App.Env)
	logger := observability.GetLogger()

	if cfg.Typesense.URL == "" {
		logger.Fatal().Msg("TYPESENSE_URL is not set")
	}

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil {
			logger.Fatal().Err(err).Str("interval", intervalValue).Msg("Invalid interval")
		}
		if interval <= 0 {
			logger.Fatal().Msg("Interval must be greater than zero")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset); err != nil {
			logger.Error().Err(err).Msg("Reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		logger.Info().Dur("next_run_in", interval).Msg("Reindex complete")

		select {
		case <-ctx.Done():
			logger.Info().Msg("Reindexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	logger := observability.GetLogger()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		logger.Info().Str("collection", typesense.TrailsCollection).Msg("Deleting collection before reindex")
		if _, err := tsClient.Client().Collection(typesense.TrailsCollection).Delete(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to delete collection")
		}
	}

	if err := tsClient.InitSchema(ctx); err != nil {
		return err
	}

	trails := services.NewTrailService(database.NewTrailAdapter(pgClient), search.NewTypesenseAdapter(tsClient))
	indexed, err := trails.Reindex(ctx)
	if err != nil {
		return err
	}

	logger.Info().Int("indexed", indexed).Msg("Indexed trails")
	return nil
}
