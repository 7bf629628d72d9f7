package repositories

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
)

// TrailRepository defines the interface for trail data operations
type TrailRepository interface {
	Create(ctx context.Context, trail *entities.Trail) error
	GetByID(ctx context.Context, id int64) (*entities.Trail, error)
	List(ctx context.Context, limit, offset int) ([]*entities.Trail, error)

	// Search matches the query against trail name and location
	Search(ctx context.Context, query string, limit int) ([]*entities.Trail, error)

	Count(ctx context.Context) (int64, error)
}

// TrailSearchRepository defines the interface for a full-text trail index (e.g. Typesense)
type TrailSearchRepository interface {
	// Search returns the ids of matching trails, best match first
	Search(ctx context.Context, query string, limit int) ([]int64, error)

	// Index upserts a trail document
	Index(ctx context.Context, trail *entities.Trail) error
}

// ReviewRepository defines the interface for trail review operations
type ReviewRepository interface {
	Create(ctx context.Context, review *entities.TrailReview) error
	ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.TrailReview, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.TrailReview, error)
}

// WalkRecordRepository defines the interface for walk record operations
type WalkRecordRepository interface {
	Create(ctx context.Context, record *entities.WalkRecord) error
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.WalkRecord, error)
	ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.WalkRecord, error)
	Count(ctx context.Context) (int64, error)
}
