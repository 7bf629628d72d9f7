package services

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
)

// ReviewService handles trail reviews
type ReviewService struct {
	reviews repositories.ReviewRepository
	trails  repositories.TrailRepository
}

// NewReviewService creates a new review service
func NewReviewService(reviews repositories.ReviewRepository, trails repositories.TrailRepository) *ReviewService {
	return &ReviewService{
		reviews: reviews,
		trails:  trails,
	}
}

// Create stores a review written by the caller in ctx
func (s *ReviewService) Create(ctx context.Context, review *entities.TrailReview) (*entities.TrailReview, error) {
	caller, err := requireCaller(ctx)
	if err != nil {
		return nil, err
	}
	review.UserID = caller.UserID

	if err := entities.Validate(review); err != nil {
		return nil, err
	}
	if _, err := s.trails.GetByID(ctx, review.TrailID); err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	observability.LoggerFromContext(ctx).Info().
		Int64("trail_id", review.TrailID).
		Int64("user_id", review.UserID).
		Int("rating", review.Rating).
		Msg("Trail review created")
	return review, nil
}

// ListByTrail returns the reviews of a trail, newest first
func (s *ReviewService) ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.TrailReview, error) {
	if _, err := s.trails.GetByID(ctx, trailID); err != nil {
		return nil, err
	}
	return s.reviews.ListByTrail(ctx, trailID, limit, offset)
}

// requireCaller returns the caller identity or an UNAUTHORIZED error
func requireCaller(ctx context.Context) (entities.Caller, error) {
	caller, ok := entities.CallerFrom(ctx)
	if !ok {
		return entities.Caller{}, apperrors.NewUnauthorizedError("caller identity is required")
	}
	return caller, nil
}
