package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/providers"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
)

// CacheInvalidationService drops cached facility schedules when another instance publishes
// a reservation change
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelReservationUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to reservation updates: %w", err)
	}

	go s.processEvents(eventChan)
	observability.GetLogger().Info().Msg("Cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service and waits for the worker to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	<-s.done
	observability.GetLogger().Info().Msg("Cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.ReservationEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.ReservationEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, facilityID := range event.AffectedFacilities() {
		if err := s.InvalidateFacilitySchedule(ctx, facilityID); err != nil {
			observability.GetLogger().Warn().Err(err).
				Str("event_id", event.ID).
				Int64("facility_id", facilityID).
				Msg("Failed to invalidate facility schedule")
		}
	}
}

// InvalidateFacilitySchedule drops the cached schedule of a facility
func (s *CacheInvalidationService) InvalidateFacilitySchedule(ctx context.Context, facilityID int64) error {
	if err := s.cache.Delete(ctx, ScheduleCacheKey(facilityID)); err != nil {
		return fmt.Errorf("failed to invalidate schedule of facility %d: %w", facilityID, err)
	}
	return nil
}

// InvalidateAllSchedules drops every cached facility schedule. Used after bulk imports.
func (s *CacheInvalidationService) InvalidateAllSchedules(ctx context.Context) error {
	if err := s.cache.DeletePattern(ctx, "facility:*:schedule"); err != nil {
		return fmt.Errorf("failed to invalidate facility schedules: %w", err)
	}
	return nil
}
