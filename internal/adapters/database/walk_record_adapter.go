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

const walkRecordsTable = "walk_records"

var walkRecordColumns = []interface{}{"id", "user_id", "trail_id", "walked_at", "memo", "photo_url"}

// WalkRecordAdapter implements the WalkRecordRepository interface
type WalkRecordAdapter struct {
	client *postgres.Client
}

// NewWalkRecordAdapter creates a new walk record adapter
func NewWalkRecordAdapter(client *postgres.Client) repositories.WalkRecordRepository {
	return &WalkRecordAdapter{client: client}
}

// Create creates a walk record; a zero walked_at defaults to now
func (a *WalkRecordAdapter) Create(ctx context.Context, record *entities.WalkRecord) error {
	if record.WalkedAt.IsZero() {
		record.WalkedAt = now()
	}

	row := goqu.Record{
		"user_id":   record.UserID,
		"trail_id":  record.TrailID,
		"walked_at": record.WalkedAt,
		"memo":      nullableString(record.Memo),
		"photo_url": nullableString(record.PhotoURL),
	}

	query, args, err := dialect.Insert(walkRecordsTable).Rows(row).Returning("id").Prepared(true).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowxContext(ctx, query, args...).Scan(&record.ID); err != nil {
		return mapWriteError(err, "failed to create walk record", func() error {
			return apperrors.NewNotFoundError(fmt.Sprintf("trail with id %d or user with id %d not found", record.TrailID, record.UserID))
		})
	}
	return nil
}

// ListByUser lists a user's walk records, most recent walk first
func (a *WalkRecordAdapter) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.WalkRecord, error) {
	return a.list(ctx, goqu.Ex{"user_id": userID}, limit, offset)
}

// ListByTrail lists walk records on a trail, most recent walk first
func (a *WalkRecordAdapter) ListByTrail(ctx context.Context, trailID int64, limit, offset int) ([]*entities.WalkRecord, error) {
	return a.list(ctx, goqu.Ex{"trail_id": trailID}, limit, offset)
}

// Count returns the number of walk records
func (a *WalkRecordAdapter) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, a.client.DB(), walkRecordsTable)
}

func (a *WalkRecordAdapter) list(ctx context.Context, where goqu.Ex, limit, offset int) ([]*entities.WalkRecord, error) {
	query, args, err := dialect.Select(walkRecordColumns...).
		From(walkRecordsTable).
		Where(where).
		Order(goqu.I("walked_at").Desc(), goqu.I("id").Desc()).
		Limit(pageLimit(limit)).
		Offset(pageOffset(offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	records := []*entities.WalkRecord{}
	if err := a.client.DB().SelectContext(ctx, &records, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list walk records", err)
	}
	return records, nil
}
