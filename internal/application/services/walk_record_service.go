package services

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
)

// WalkRecordService handles the walks users log against trails
type WalkRecordService struct {
	records repositories.WalkRecordRepository
	trails  repositories.TrailRepository
}

// NewWalkRecordService creates a new walk record service
func NewWalkRecordService(records repositories.WalkRecordRepository, trails repositories.TrailRepository) *WalkRecordService {
	return &WalkRecordService{
		records: records,
		trails:  trails,
	}
}

// ListMine returns the walk records of the caller in ctx
func (s *WalkRecordService) ListMine(ctx context.Context, limit, offset int) ([]*entities.WalkRecord, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	return s.records.ListByUser(ctx, caller.UserID, limit, offset)
}

// Create logs a walk for the caller in ctx. The trail must exist.
func (s *WalkRecordService) Create(ctx context.Context, record *entities.WalkRecord) (*entities.WalkRecord, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	record.UserID = caller.UserID

	if err := entities.Validate(record); err != nil {
		return nil, err
	}
	if _, err := s.trails.GetByID(ctx, record.TrailID); err != nil {
		return nil, err
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("trail_id", record.TrailID).
		Int64("user_id", record.UserID).
		Msg("Walk record created")
	return record, nil
}

// ListByTrail returns the walks logged against a trail
func (s *WalkRecordService) ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.WalkRecord, error) {
	if _, err := s.trails.GetByID(ctx, trailID); err != nil {
		return nil, err
	}
	return s.records.ListByTrail(ctx, trailID, limit, offset)
}

// Count returns the number of walk records
func (s *WalkRecordService) Count(ctx context.Context) (int64, error) {
	return s.records.Count(ctx)
}
