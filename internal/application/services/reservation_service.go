package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/providers"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	"github.com/dkswoans/2307-fastapiProjects/pkg/config"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
)

// ConflictMessage is returned to the caller when a booking overlaps an existing reservation
const ConflictMessage = "facility already has a reservation in that time range"

// ScheduleCacheKey is the cache key of a facility's reservation schedule
func ScheduleCacheKey(facilityID int64) string {
	return fmt.Sprintf("facility:%d:schedule", facilityID)
}

// ReservationService manages the reservation lifecycle
type ReservationService struct {
	reservations repositories.ReservationRepository
	facilities   repositories.FacilityRepository
	checker      *ConflictChecker
	cache        providers.CacheProvider
	eventBus     providers.EventBus
	metrics      *observability.Metrics
	cfg          config.ReservationConfig
}

// NewReservationService creates a new reservation service. cache, eventBus and metrics may be nil.
func NewReservationService(
	reservations repositories.ReservationRepository,
	facilities repositories.FacilityRepository,
	cache providers.CacheProvider,
	eventBus providers.EventBus,
	metrics *observability.Metrics,
	cfg config.ReservationConfig,
) *ReservationService {
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 100
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &ReservationService{
		reservations: reservations,
		facilities:   facilities,
		checker:      NewConflictChecker(),
		cache:        cache,
		eventBus:     eventBus,
		metrics:      metrics,
		cfg:          cfg,
	}
}

// Create books a reservation after validating it against the facility and its schedule
func (s *ReservationService) Create(ctx context.Context, reservation *entities.Reservation) (*entities.Reservation, error) {
	ctx, span := observability.StartSpan(ctx, "ReservationService.Create")
	defer span.End()
	span.SetAttributes(attribute.Int64("facility.id", reservation.FacilityID))

	if err := entities.Validate(reservation); err != nil {
		return nil, err
	}

	facility, err := s.facilities.GetByID(ctx, reservation.FacilityID)
	if err != nil {
		return nil, err
	}
	if err := checkCapacity(facility, reservation); err != nil {
		return nil, err
	}

	err = s.reservations.WithinFacilityLock(ctx, func(ctx context.Context, store repositories.ReservationStore) error {
		conflict, err := s.checker.HasConflict(ctx, store, reservation.FacilityID, reservation.StartTime, reservation.EndTime, 0)
		if err != nil {
			return err
		}
		if conflict {
			return apperrors.NewConflictError(ConflictMessage)
		}
		return store.Create(ctx, reservation)
	}, reservation.FacilityID)
	if err != nil {
		if apperrors.IsConflict(err) {
			observability.RecordReservationConflict(ctx, s.metrics, reservation.FacilityID)
		}
		observability.RecordError(span, err)
		return nil, err
	}

	observability.RecordReservationCreated(ctx, s.metrics, reservation.FacilityID)
	observability.LoggerFromContext(ctx).Info().
		Int64("reservation_id", reservation.ID).
		Int64("facility_id", reservation.FacilityID).
		Time("start_time", reservation.StartTime).
		Time("end_time", reservation.EndTime).
		Msg("Reservation created")

	s.afterCommit(ctx, entities.NewReservationEvent(entities.ReservationEventCreated, reservation))
	return reservation, nil
}

// Get returns a reservation by id
func (s *ReservationService) Get(ctx context.Context, id int64) (*entities.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// List returns a page of reservations in id order. A zero limit selects the default page size.
func (s *ReservationService) List(ctx context.Context, offset, limit int) ([]*entities.Reservation, error) {
	if offset < 0 {
		return nil, apperrors.NewFieldValidationError(map[string]string{"skip": "must be at least 0"}, []string{"skip"})
	}
	if limit < 0 {
		return nil, apperrors.NewFieldValidationError(map[string]string{"limit": "must be at least 0"}, []string{"limit"})
	}
	if limit == 0 {
		limit = s.cfg.DefaultPageSize
	}
	if limit > s.cfg.MaxPageSize {
		limit = s.cfg.MaxPageSize
	}

	return s.reservations.List(ctx, repositories.ReservationFilter{Offset: offset, Limit: limit})
}

// Count returns the number of reservations
func (s *ReservationService) Count(ctx context.Context) (int64, error) {
	return s.reservations.Count(ctx)
}

// ListByFacility returns a facility's schedule ordered by start time
func (s *ReservationService) ListByFacility(ctx context.Context, facilityID int64) ([]*entities.Reservation, error) {
	if _, err := s.facilities.GetByID(ctx, facilityID); err != nil {
		return nil, err
	}

	key := ScheduleCacheKey(facilityID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil && cached != nil {
			var schedule []*entities.Reservation
			if err := json.Unmarshal(cached, &schedule); err == nil {
				observability.RecordCacheHit(ctx, s.metrics, key)
				return schedule, nil
			}
		}
		observability.RecordCacheMiss(ctx, s.metrics, key)
	}

	schedule, err := s.reservations.ListByFacility(ctx, facilityID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(schedule); err == nil {
			if err := s.cache.Set(ctx, key, data, s.cfg.ScheduleTTL); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).Str("key", key).Msg("Failed to cache facility schedule")
			}
		}
	}
	return schedule, nil
}

// maxUpdateAttempts bounds how often Update re-reads a reservation whose facility moved before its lock was taken
const maxUpdateAttempts = 3

// errFacilityMoved aborts an update whose reservation changed facility between the read and the lock
var errFacilityMoved = errors.New("reservation moved to another facility")

// Update applies a partial update. The reservation is re-read under the lock of both the
// previous and the new facility, so the patch always applies to the committed row. The
// schedule is re-checked when the facility or time range changes.
func (s *ReservationService) Update(ctx context.Context, id int64, patch *entities.ReservationPatch) (*entities.Reservation, error) {
	ctx, span := observability.StartSpan(ctx, "ReservationService.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("reservation.id", id))

	for attempt := 1; ; attempt++ {
		current, err := s.reservations.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		updated, err := s.updateLocked(ctx, id, current.FacilityID, patch)
		if errors.Is(err, errFacilityMoved) && attempt < maxUpdateAttempts {
			continue
		}
		if errors.Is(err, errFacilityMoved) {
			err = apperrors.NewConflictError("reservation changed while updating, retry the request")
		}
		if err != nil {
			if apperrors.IsConflict(err) {
				observability.RecordReservationConflict(ctx, s.metrics, targetFacility(patch, current.FacilityID))
			}
			observability.RecordError(span, err)
			return nil, err
		}

		event := entities.NewReservationEvent(entities.ReservationEventUpdated, updated)
		event.PreviousFacilityID = current.FacilityID
		s.afterCommit(ctx, event)
		return updated, nil
	}
}

// updateLocked applies patch to the row as stored once facilityID and the patch's target facility are locked
func (s *ReservationService) updateLocked(ctx context.Context, id, facilityID int64, patch *entities.ReservationPatch) (*entities.Reservation, error) {
	var updated *entities.Reservation
	err := s.reservations.WithinFacilityLock(ctx, func(ctx context.Context, store repositories.ReservationStore) error {
		locked, err := store.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if locked.FacilityID != facilityID {
			return errFacilityMoved
		}

		scheduleChanged := patch.Apply(locked)
		if err := entities.Validate(locked); err != nil {
			return err
		}

		if locked.FacilityID != facilityID || patch.Capacity != nil {
			facility, err := s.facilities.GetByID(ctx, locked.FacilityID)
			if err != nil {
				return err
			}
			if err := checkCapacity(facility, locked); err != nil {
				return err
			}
		}

		if scheduleChanged {
			conflict, err := s.checker.HasConflict(ctx, store, locked.FacilityID, locked.StartTime, locked.EndTime, locked.ID)
			if err != nil {
				return err
			}
			if conflict {
				return apperrors.NewConflictError(ConflictMessage)
			}
		}

		updated = locked
		return store.Update(ctx, locked)
	}, facilityID, targetFacility(patch, facilityID))
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func targetFacility(patch *entities.ReservationPatch, fallback int64) int64 {
	if patch.FacilityID != nil {
		return *patch.FacilityID
	}
	return fallback
}

// Delete removes a reservation
func (s *ReservationService) Delete(ctx context.Context, id int64) error {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		return err
	}

	s.afterCommit(ctx, entities.NewReservationEvent(entities.ReservationEventDeleted, current))
	return nil
}

// afterCommit drops the cached schedules the event touched and publishes it for other instances
func (s *ReservationService) afterCommit(ctx context.Context, event *entities.ReservationEvent) {
	logger := observability.LoggerFromContext(ctx)

	if s.cache != nil {
		for _, facilityID := range event.AffectedFacilities() {
			if err := s.cache.Delete(ctx, ScheduleCacheKey(facilityID)); err != nil {
				logger.Warn().Err(err).Int64("facility_id", facilityID).Msg("Failed to invalidate facility schedule")
			}
		}
	}

	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelReservationUpdates, event); err != nil {
		logger.Warn().Err(err).Str("event_type", string(event.Type)).Msg("Failed to publish reservation event")
		return
	}
	for _, facilityID := range event.AffectedFacilities() {
		if err := s.eventBus.Publish(ctx, providers.GetFacilityChannel(facilityID), event); err != nil {
			logger.Warn().Err(err).Int64("facility_id", facilityID).Msg("Failed to publish facility reservation event")
		}
	}
	observability.RecordReservationEvent(ctx, s.metrics, string(event.Type))
}

func checkCapacity(facility *entities.Facility, reservation *entities.Reservation) error {
	if reservation.Capacity == nil || facility.AdmitsParty(*reservation.Capacity) {
		return nil
	}
	return apperrors.NewFieldValidationError(
		map[string]string{"capacity": fmt.Sprintf("must be at most %d", *facility.Capacity)},
		[]string{"capacity"},
	)
}
