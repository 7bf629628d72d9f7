package services

import (
	"context"
	"strings"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/observability"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
)

const (
	defaultTrailSearchLimit = 20
	reindexBatchSize        = 100
)

// TrailService handles trail discovery
type TrailService struct {
	repo       repositories.TrailRepository
	searchRepo repositories.TrailSearchRepository
}

// NewTrailService creates a new trail service. searchRepo may be nil, in which case search runs on the database.
func NewTrailService(repo repositories.TrailRepository, searchRepo repositories.TrailSearchRepository) *TrailService {
	return &TrailService{
		repo:       repo,
		searchRepo: searchRepo,
	}
}

// Create creates a new trail and indexes it
func (s *TrailService) Create(ctx context.Context, trail *entities.Trail) (*entities.Trail, error) {
	if err := entities.Validate(trail); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, trail); err != nil {
		return nil, err
	}

	if s.searchRepo != nil {
		if err := s.searchRepo.Index(ctx, trail); err != nil {
			// The index catches up on the next reindex
			observability.LoggerFromContext(ctx).Warn().Err(err).Int64("trail_id", trail.ID).Msg("Failed to index trail")
		}
	}
	return trail, nil
}

// GetByID retrieves a trail by ID
func (s *TrailService) GetByID(ctx context.Context, id int64) (*entities.Trail, error) {
	return s.repo.GetByID(ctx, id)
}

// List retrieves trails in id order. A zero limit selects the default page size.
func (s *TrailService) List(ctx context.Context, limit, offset int) ([]*entities.Trail, error) {
	return s.repo.List(ctx, limit, offset)
}

// Search matches trails by name, location and tags using the search engine if available, falling back to database
func (s *TrailService) Search(ctx context.Context, query string, limit int) ([]*entities.Trail, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.NewFieldValidationError(map[string]string{"q": "is required"}, []string{"q"})
	}
	if limit <= 0 {
		limit = defaultTrailSearchLimit
	}

	if s.searchRepo != nil {
		trails, err := s.searchIndex(ctx, query, limit)
		if err == nil {
			return trails, nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("query", query).Msg("Trail search index unavailable, falling back to database")
	}
	return s.repo.Search(ctx, query, limit)
}

func (s *TrailService) searchIndex(ctx context.Context, query string, limit int) ([]*entities.Trail, error) {
	ids, err := s.searchRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	trails := make([]*entities.Trail, 0, len(ids))
	for _, id := range ids {
		trail, err := s.repo.GetByID(ctx, id)
		if apperrors.IsNotFound(err) {
			// stale index entry
			continue
		}
		if err != nil {
			return nil, err
		}
		trails = append(trails, trail)
	}
	return trails, nil
}

// Reindex upserts every stored trail into the search index
func (s *TrailService) Reindex(ctx context.Context) (int, error) {
	if s.searchRepo == nil {
		return 0, nil
	}

	indexed := 0
	for {
		trails, err := s.repo.List(ctx, reindexBatchSize, indexed)
		if err != nil {
			return indexed, err
		}
		for _, trail := range trails {
			if err := s.searchRepo.Index(ctx, trail); err != nil {
				return indexed, apperrors.NewExternalError("failed to index trails", err)
			}
			indexed++
		}
		if len(trails) < reindexBatchSize {
			return indexed, nil
		}
	}
}

// Count returns the number of trails
func (s *TrailService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}
