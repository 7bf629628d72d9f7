package services

import (
	"context"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
)

const warmFacilityLimit = 50

// CacheWarmingService preloads the schedules of the busiest facilities
type CacheWarmingService struct {
	facilityRepo repositories.FacilityRepository
	reservations *ReservationService
}

// NewCacheWarmingService creates a new cache warming service
func NewCacheWarmingService(facilityRepo repositories.FacilityRepository, reservations *ReservationService) *CacheWarmingService {
	return &CacheWarmingService{
		facilityRepo: facilityRepo,
		reservations: reservations,
	}
}

// WarmCache loads the schedule of the first facilities so the cache holds them. It returns the number warmed.
func (s *CacheWarmingService) WarmCache(ctx context.Context) (int, error) {
	logger := observability.LoggerFromContext(ctx)

	facilities, err := s.facilityRepo.List(ctx, repositories.FacilityFilter{Limit: warmFacilityLimit})
	if err != nil {
		return 0, err
	}

	warmed := 0
	for _, facility := range facilities {
		if _, err := s.reservations.ListByFacility(ctx, facility.ID); err != nil {
			logger.Warn().Err(err).Int64("facility_id", facility.ID).Msg("Failed to warm facility schedule")
			continue
		}
		warmed++
	}

	logger.Info().Int("facilities", warmed).Msg("Cache warming completed")
	return warmed, nil
}

// StartPeriodicWarming warms the cache now and then on every interval until ctx is done
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	logger := observability.LoggerFromContext(ctx)

	if _, err := s.WarmCache(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial cache warming failed")
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("Stopping cache warming service")
				return
			case <-ticker.C:
				if _, err := s.WarmCache(ctx); err != nil {
					logger.Warn().Err(err).Msg("Periodic cache warming failed")
				}
			}
		}
	}()
	logger.Info().Dur("interval", interval).Msg("Started periodic cache warming")
}
