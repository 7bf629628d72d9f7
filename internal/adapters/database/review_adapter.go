package database

import (
	"context"
	"fmt"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/doug-martin/goqu/v9"
)

const reviewsTable = "trail_reviews"

var reviewColumns = []interface{}{"id", "user_id", "trail_id", "rating", "comment", "created_at"}

// ReviewAdapter implements the ReviewRepository interface
type ReviewAdapter struct {
	client *postgres.Client
}

// NewReviewAdapter creates a new review adapter
func NewReviewAdapter(client *postgres.Client) repositories.ReviewRepository {
	return &ReviewAdapter{client: client}
}

// Create creates a new review
func (a *ReviewAdapter) Create(ctx context.Context, review *entities.TrailReview) error {
	stamp := now()
	record := goqu.Record{
		"user_id":    review.UserID,
		"trail_id":   review.TrailID,
		"rating":     review.Rating,
		"comment":    nullableString(review.Comment),
		"created_at": stamp,
	}

	query, args, err := dialect.Insert(reviewsTable).Rows(record).Returning("id").Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowxContext(ctx, query, args...).Scan(&review.ID); err != nil {
		return mapWriteError(err, "failed to create review", func() error {
			return apperrors.NewNotFoundError(fmt.Sprintf("trail with id %d or user with id %d not found", review.TrailID, review.UserID))
		})
	}
	review.CreatedAt = stamp
	return nil
}

// ListByTrail lists reviews of a trail, newest first
func (a *ReviewAdapter) ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.TrailReview, error) {
	return a.list(ctx, goqu.Ex{"trail_id": trailID}, limit, offset)
}

// ListByUser lists reviews written by a user, newest first
func (a *ReviewAdapter) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.TrailReview, error) {
	return a.list(ctx, goqu.Ex{"user_id": userID}, limit, offset)
}

func (a *ReviewAdapter) list(ctx context.Context, where goqu.Ex, limit, offset int) ([]*entities.TrailReview, error) {
	query, args, err := dialect.Select(reviewColumns...).
		From(reviewsTable).
		Where(where).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(pageLimit(limit)).
		Offset(pageOffset(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reviews := []*entities.TrailReview{}
	if err := a.client.DB().SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list reviews", err)
	}
	return reviews, nil
}
