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

const facilitiesTable = "facilities"

var facilityColumns = []interface{}{
	"id", "name", "type", "location", "capacity", "description", "created_at", "updated_at",
}

// FacilityAdapter implements the FacilityRepository interface
type FacilityAdapter struct {
	client *postgres.Client
}

// NewFacilityAdapter creates a new facility adapter
func NewFacilityAdapter(client *postgres.Client) repositories.FacilityRepository {
	return &FacilityAdapter{
		client: client,
	}
}

// Create creates a new facility
func (a *FacilityAdapter) Create(ctx context.Context, facility *entities.Facility) error {
	stamp := now()
	record := goqu.Record{
		"name":        facility.Name,
		"type":        string(facility.Type),
		"location":    facility.Location,
		"capacity":    nullableInt(facility.Capacity),
		"description": nullableString(facility.Description),
		"created_at":  stamp,
		"updated_at":  stamp,
	}

	query, args, err := dialect.Insert(facilitiesTable).
		Rows(record).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	var id int64
	if err := a.client.DB().QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return mapWriteError(err, "failed to create facility", nil)
	}

	facility.ID = id
	facility.CreatedAt = stamp
	facility.UpdatedAt = stamp
	return nil
}

// GetByID retrieves a facility by ID
func (a *FacilityAdapter) GetByID(ctx context.Context, id int64) (*entities.Facility, error) {
	query, args, err := dialect.Select(facilityColumns...).
		From(facilitiesTable).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	facility := &entities.Facility{}
	err = a.client.DB().GetContext(ctx, facility, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get facility", err)
	}

	return facility, nil
}

// GetByIDs retrieves multiple facilities by their IDs
func (a *FacilityAdapter) GetByIDs(ctx context.Context, ids []int64) ([]*entities.Facility, error) {
	if len(ids) == 0 {
		return []*entities.Facility{}, nil
	}

	query, args, err := dialect.Select(facilityColumns...).
		From(facilitiesTable).
		Where(goqu.Ex{"id": ids}).
		Order(goqu.I("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	facilities := []*entities.Facility{}
	if err := a.client.DB().SelectContext(ctx, &facilities, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to get facilities", err)
	}
	return facilities, nil
}

// Update updates a facility
func (a *FacilityAdapter) Update(ctx context.Context, facility *entities.Facility) error {
	stamp := now()
	record := goqu.Record{
		"name":        facility.Name,
		"type":        string(facility.Type),
		"location":    facility.Location,
		"capacity":    nullableInt(facility.Capacity),
		"description": nullableString(facility.Description),
		"updated_at":  stamp,
	}

	query, args, err := dialect.Update(facilitiesTable).
		Set(record).
		Where(goqu.Ex{"id": facility.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update facility", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", facility.ID))
	}

	facility.UpdatedAt = stamp
	return nil
}

// Delete deletes a facility. The reservations foreign key is ON DELETE RESTRICT.
func (a *FacilityAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(facilitiesTable).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to delete facility", func() error {
			return apperrors.NewConflictError(fmt.Sprintf("facility with id %d still has reservations", id))
		})
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", id))
	}

	return nil
}

// List retrieves facilities with filters
func (a *FacilityAdapter) List(ctx context.Context, filter repositories.FacilityFilter) ([]*entities.Facility, error) {
	ds := dialect.Select(facilityColumns...).From(facilitiesTable)
	if filter.Type != "" {
		ds = ds.Where(goqu.Ex{"type": string(filter.Type)})
	}

	query, args, err := ds.
		Order(goqu.I("id").Asc()).
		Limit(pageLimit(filter.Limit)).
		Offset(pageOffset(filter.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	facilities := []*entities.Facility{}
	if err := a.client.DB().SelectContext(ctx, &facilities, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list facilities", err)
	}
	return facilities, nil
}

// Count returns the number of facilities
func (a *FacilityAdapter) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, a.client.DB(), facilitiesTable)
}
