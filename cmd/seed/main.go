package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/database"
	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/search"
	"github.com/dkswoans/2307-fastapiProjects/internal/application/services"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/typesense"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	"github.com/dkswoans/2307-fastapiProjects/pkg/config"
)

func main() {
	var withFacilities bool
	flag.BoolVar(&withFacilities, "facilities", true, "seed demo facilities into an empty facilities table")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger("seed", cfg.App.Env)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	var trailIndex repositories.TrailSearchRepository
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err == nil {
			err = tsClient.InitSchema(ctx)
		}
		if err != nil {
			logger.Warn().Err(err).Msg("Seeding without the search index")
		} else {
			trailIndex = search.NewTypesenseAdapter(tsClient)
		}
	}

	var facilities repositories.FacilityRepository
	if withFacilities {
		facilities = database.NewFacilityAdapter(pgClient)
	}

	bootstrap := services.NewBootstrapService(
		database.NewUserAdapter(pgClient),
		services.NewTrailService(database.NewTrailAdapter(pgClient), trailIndex),
		facilities,
	)

	result, err := bootstrap.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("Seed failed")
	}

	logger.Info().
		Bool("user_created", result.UserCreated).
		Int("trails_seeded", result.TrailsSeeded).
		Int("facilities_seeded", result.FacilitiesSeeded).
		Msg("Seed complete")
}
