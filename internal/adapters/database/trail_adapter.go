package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/doug-martin/goqu/v9"
)

const trailsTable = "trails"

var trailColumns = []interface{}{
	"id", "name", "type", "location", "distance_km", "description", "image_url",
}

// TrailAdapter implements the TrailRepository interface
type TrailAdapter struct {
	client *postgres.Client
}

// NewTrailAdapter creates a new trail adapter
func NewTrailAdapter(client *postgres.Client) repositories.TrailRepository {
	return &TrailAdapter{client: client}
}

// Create creates a new trail
func (a *TrailAdapter) Create(ctx context.Context, trail *entities.Trail) error {
	record := goqu.Record{
		"name":        trail.Name,
		"type":        string(trail.Type),
		"location":    trail.Location,
		"distance_km": trail.DistanceKm,
		"description": nullableString(trail.Description),
		"image_url":   nullableString(trail.ImageURL),
	}

	query, args, err := dialect.Insert(trailsTable).Rows(record).Returning("id").Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowxContext(ctx, query, args...).Scan(&trail.ID); err != nil {
		return mapWriteError(err, "failed to create trail", nil)
	}
	return nil
}

// GetByID retrieves a trail by ID
func (a *TrailAdapter) GetByID(ctx context.Context, id int64) (*entities.Trail, error) {
	query, args, err := dialect.Select(trailColumns...).
		From(trailsTable).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	trail := &entities.Trail{}
	err = a.client.DB().GetContext(ctx, trail, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("trail with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get trail", err)
	}
	return trail, nil
}

// List retrieves trails in id order
func (a *TrailAdapter) List(ctx context.Context, limit, offset int) ([]*entities.Trail, error) {
	query, args, err := dialect.Select(trailColumns...).
		From(trailsTable).
		Order(goqu.I("id").Asc()).
		Limit(pageLimit(limit)).
		Offset(pageOffset(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	trails := []*entities.Trail{}
	if err := a.client.DB().SelectContext(ctx, &trails, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list trails", err)
	}
	return trails, nil
}

// Search matches the query case-insensitively against name and location
func (a *TrailAdapter) Search(ctx context.Context, q string, limit int) ([]*entities.Trail, error) {
	pattern := "%" + q + "%"
	query, args, err := dialect.Select(trailColumns...).
		From(trailsTable).
		Where(goqu.Or(
			goqu.I("name").ILike(pattern),
			goqu.I("location").ILike(pattern),
		)).
		Order(goqu.I("id").Asc()).
		Limit(pageLimit(limit)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	trails := []*entities.Trail{}
	if err := a.client.DB().SelectContext(ctx, &trails, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to search trails", err)
	}
	return trails, nil
}

// Count returns the number of trails
func (a *TrailAdapter) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, a.client.DB(), trailsTable)
}
