package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/cache"
	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/database"
	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/events"
	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/search"
	"github.com/dkswoans/2307-fastapiProjects/internal/api/handlers"
	"github.com/dkswoans/2307-fastapiProjects/internal/api/middleware"
	"github.com/dkswoans/2307-fastapiProjects/internal/api/routes"
	"github.com/dkswoans/2307-fastapiProjects/internal/application/services"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/providers"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/redis"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/typesense"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	"github.com/dkswoans/2307-fastapiProjects/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.GetLogger().Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.App.Env)
	logger := observability.GetLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			logger.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	healthChecks := map[string]handlers.Pinger{"postgres": pgClient}

	// Redis backs the schedule cache, the HTTP cache and the event bus. The API runs without it.
	var cacheProvider providers.CacheProvider
	var eventBus providers.EventBus
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Warn().Err(err).Msg("Continuing without Redis")
		} else {
			defer redisClient.Close()
			cacheProvider = cache.NewRedisAdapter(redisClient)
			eventBus = events.NewRedisEventBus(redisClient)
			healthChecks["redis"] = redisClient
		}
	}

	var trailIndex repositories.TrailSearchRepository
	if cfg.Typesense.URL != "" {
		typesenseClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			logger.Warn().Err(err).Msg("Trail search falls back to the database")
		} else if err := typesenseClient.InitSchema(ctx); err != nil {
			logger.Warn().Err(err).Msg("Failed to init Typesense schema; trail search falls back to the database")
		} else {
			trailIndex = search.NewTypesenseAdapter(typesenseClient)
		}
	}

	// Adapters
	var facilityRepo repositories.FacilityRepository = database.NewFacilityAdapter(pgClient)
	if cacheProvider != nil {
		facilityRepo = database.NewCachedFacilityAdapter(facilityRepo, cacheProvider, metrics)
	}
	reservationRepo := database.NewReservationAdapter(pgClient)
	trailRepo := database.NewTrailAdapter(pgClient)
	reviewRepo := database.NewReviewAdapter(pgClient)
	recordRepo := database.NewWalkRecordAdapter(pgClient)
	userRepo := database.NewUserAdapter(pgClient)
	badgeRepo := database.NewBadgeAdapter(pgClient)

	// Services
	reservationService := services.NewReservationService(reservationRepo, facilityRepo, cacheProvider, eventBus, metrics, cfg.Reservation)
	facilityService := services.NewFacilityService(facilityRepo, reservationService)
	trailService := services.NewTrailService(trailRepo, trailIndex)
	reviewService := services.NewReviewService(reviewRepo, trailRepo)
	recordService := services.NewWalkRecordService(recordRepo, trailRepo)
	userService := services.NewUserService(userRepo, badgeRepo, recordRepo, reviewRepo, trailRepo, facilityRepo, reservationRepo)

	if cfg.App.SeedOnStart {
		result, err := services.NewBootstrapService(userRepo, trailService, facilityRepo).Run(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to seed database")
		}
		logger.Info().
			Bool("user_created", result.UserCreated).
			Int("trails_seeded", result.TrailsSeeded).
			Int("facilities_seeded", result.FacilitiesSeeded).
			Msg("Seed complete")
	}

	var invalidation *services.CacheInvalidationService
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, metrics)

		if eventBus != nil {
			invalidation = services.NewCacheInvalidationService(cacheProvider, eventBus)
			if err := invalidation.Start(); err != nil {
				logger.Warn().Err(err).Msg("Failed to start cache invalidation service")
				invalidation = nil
			}
		}

		warming := services.NewCacheWarmingService(facilityRepo, reservationService)
		go warming.StartPeriodicWarming(ctx, 5*time.Minute)
	}

	h := routes.Handlers{
		Reservation: handlers.NewReservationHandler(reservationService, facilityService),
		Facility:    handlers.NewFacilityHandler(facilityService),
		Trail:       handlers.NewTrailHandler(trailService, reviewService),
		Record:      handlers.NewRecordHandler(recordService, trailService),
		User:        handlers.NewUserHandler(userService),
		Health:      handlers.NewHealthHandler(healthChecks),
	}
	if eventBus != nil {
		h.SSE = handlers.NewSSEHandler(eventBus)
	}

	router := routes.NewRouter(h, facilityRepo, cacheMiddleware, metrics, cfg.Server.AllowedOrigins)

	// No WriteTimeout: facility event streams stay open
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Error during server shutdown")
	}

	if invalidation != nil {
		invalidation.Stop()
	}
	if eventBus != nil {
		if err := eventBus.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing event bus")
		}
	}

	logger.Info().Msg("Server stopped")
}
