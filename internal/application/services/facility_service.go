package services

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
)

// FacilityService handles business logic for facilities
type FacilityService struct {
	repo         repositories.FacilityRepository
	reservations *ReservationService
	pageSize     int
	maxPageSize  int
}

// NewFacilityService creates a new facility service. reservations serves facility schedules and may be nil.
func NewFacilityService(repo repositories.FacilityRepository, reservations *ReservationService) *FacilityService {
	s := &FacilityService{
		repo:         repo,
		reservations: reservations,
		pageSize:     100,
		maxPageSize:  500,
	}
	if reservations != nil {
		s.pageSize = reservations.cfg.DefaultPageSize
		s.maxPageSize = reservations.cfg.MaxPageSize
	}
	return s
}

// Create validates and stores a new facility
func (s *FacilityService) Create(ctx context.Context, facility *entities.Facility) (*entities.Facility, error) {
	if err := entities.Validate(facility); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, facility); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("facility_id", facility.ID).
		Str("type", string(facility.Type)).
		Msg("Facility created")
	return facility, nil
}

// GetByID retrieves a facility by ID
func (s *FacilityService) GetByID(ctx context.Context, id int64) (*entities.Facility, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves a page of facilities, optionally restricted to one type
func (s *FacilityService) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	if filter.Offset < 0 {
		return nil, apperrors.NewFieldValidationError(map[string]string{"skip": "must be at least 0"}, []string{"skip"})
	}
	if filter.Limit < 0 {
		return nil, apperrors.NewFieldValidationError(map[string]string{"limit": "must be at least 0"}, []string{"limit"})
	}
	if filter.Limit == 0 {
		filter.Limit = s.pageSize
	}
	if filter.Limit > s.maxPageSize {
		filter.Limit = s.maxPageSize
	}
	return s.repo.List(ctx, filter)
}

// Update applies a partial update and re-validates the merged facility
func (s *FacilityService) Update(ctx context.Context, id int64, patch *entities.FacilityPatch) (*entities.Facility, error) {
	facility, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(facility)
	if err := entities.Validate(facility); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, facility); err != nil {
		return nil, err
	}
	return facility, nil
}

// Delete removes a facility. Facilities that still have reservations are kept and a conflict is returned.
func (s *FacilityService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	observability.LoggerFromContext(ctx).Info().Int64("facility_id", id).Msg("Facility deleted")
	return nil
}

// Schedule returns the reservations of a facility ordered by start time
func (s *FacilityService) Schedule(ctx context.Context, id int64) ([]*entities.Reservation, error) {
	if s.reservations == nil {
		return nil, apperrors.NewInternalError("reservation service is not configured", nil)
	}
	return s.reservations.ListByFacility(ctx, id)
}

// Count returns the number of facilities
func (s *FacilityService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
