package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"
)

const reservationsTable = "reservations"

var reservationColumns = []interface{}{
	"id", "facility_id", "user_name", "user_phone", "start_time", "end_time",
	"purpose", "capacity", "created_at", "updated_at",
}

// ReservationAdapter implements the ReservationRepository interface
type ReservationAdapter struct {
	*reservationStore
	client *postgres.Client
}

// NewReservationAdapter creates a new reservation adapter
func NewReservationAdapter(client *postgres.Client) repositories.ReservationRepository {
	return &ReservationAdapter{
		reservationStore: &reservationStore{q: client.DB()},
		client:           client,
	}
}

// reservationStore runs reservation statements against either the pool or a transaction.
// Inside a transaction reads take row locks.
type reservationStore struct {
	q        sqlx.ExtContext
	lockRows bool
}

// GetByID retrieves a reservation by ID
func (s *reservationStore) GetByID(ctx context.Context, id int64) (*entities.Reservation, error) {
	ds := dialect.Select(reservationColumns...).
		From(reservationsTable).
		Where(goqu.Ex{"id": id})
	if s.lockRows {
		ds = ds.ForUpdate(exp.Wait)
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservation := &entities.Reservation{}
	err = sqlx.GetContext(ctx, s.q, reservation, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get reservation", err)
	}

	return reservation, nil
}

// ListByFacility retrieves every reservation of a facility ordered by start time
func (s *reservationStore) ListByFacility(ctx context.Context, facilityID int64) ([]*entities.Reservation, error) {
	query, args, err := dialect.Select(reservationColumns...).
		From(reservationsTable).
		Where(goqu.Ex{"facility_id": facilityID}).
		Order(goqu.I("start_time").Asc(), goqu.I("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservations := []*entities.Reservation{}
	if err := sqlx.SelectContext(ctx, s.q, &reservations, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list facility reservations", err)
	}
	return reservations, nil
}

// Create inserts a reservation and stamps its id and timestamps
func (s *reservationStore) Create(ctx context.Context, reservation *entities.Reservation) error {
	stamp := now()
	record := goqu.Record{
		"facility_id": reservation.FacilityID,
		"user_name":   reservation.UserName,
		"user_phone":  reservation.UserPhone,
		"start_time":  reservation.StartTime,
		"end_time":    reservation.EndTime,
		"purpose":     nullableString(reservation.Purpose),
		"capacity":    nullableInt(reservation.Capacity),
		"created_at":  stamp,
		"updated_at":  stamp,
	}

	query, args, err := dialect.Insert(reservationsTable).
		Rows(record).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	var id int64
	if err := s.q.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return mapWriteError(err, "failed to create reservation", func() error {
			return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", reservation.FacilityID))
		})
	}

	reservation.ID = id
	reservation.CreatedAt = stamp
	reservation.UpdatedAt = stamp
	return nil
}

// Update persists every mutable column and refreshes updated_at
func (s *reservationStore) Update(ctx context.Context, reservation *entities.Reservation) error {
	stamp := now()
	record := goqu.Record{
		"facility_id": reservation.FacilityID,
		"user_name":   reservation.UserName,
		"user_phone":  reservation.UserPhone,
		"start_time":  reservation.StartTime,
		"end_time":    reservation.EndTime,
		"purpose":     nullableString(reservation.Purpose),
		"capacity":    nullableInt(reservation.Capacity),
		"updated_at":  stamp,
	}

	query, args, err := dialect.Update(reservationsTable).
		Set(record).
		Where(goqu.Ex{"id": reservation.ID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return mapWriteError(err, "failed to update reservation", func() error {
			return apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", reservation.FacilityID))
		})
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %d not found", reservation.ID))
	}

	reservation.UpdatedAt = stamp
	return nil
}

// List retrieves a page of reservations in id order
func (a *ReservationAdapter) List(ctx context.Context, filter repositories.ReservationFilter) ([]*entities.Reservation, error) {
	query, args, err := dialect.Select(reservationColumns...).
		From(reservationsTable).
		Order(goqu.I("id").Asc()).
		Limit(pageLimit(filter.Limit)).
		Offset(pageOffset(filter.Offset)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	reservations := []*entities.Reservation{}
	if err := a.client.DB().SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list reservations", err)
	}
	return reservations, nil
}

// Delete removes a reservation
func (a *ReservationAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := dialect.Delete(reservationsTable).
		Where(goqu.Ex{"id": id}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete reservation", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("reservation with id %d not found", id))
	}

	return nil
}

// Count returns the number of reservations
func (a *ReservationAdapter) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, a.client.DB(), reservationsTable)
}

// WithinFacilityLock runs fn in a transaction holding pg_advisory_xact_lock for each facility.
// Locks are taken in ascending id order so that two schedules are never locked in opposite order.
func (a *ReservationAdapter) WithinFacilityLock(ctx context.Context, fn func(ctx context.Context, store repositories.ReservationStore) error, facilityIDs ...int64) (err error) {
	tx, err := a.client.DB().BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, id := range lockOrder(facilityIDs) {
		if _, err = tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", id); err != nil {
			return apperrors.NewInternalError("failed to lock facility schedule", err)
		}
	}

	if err = fn(ctx, &reservationStore{q: tx, lockRows: true}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return mapWriteError(err, "failed to commit transaction", nil)
	}
	return nil
}

// lockOrder sorts and deduplicates facility ids, dropping zero values
func lockOrder(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	ordered := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })
	return ordered
}

func countRows(ctx context.Context, db sqlx.QueryerContext, table string) (int64, error) {
	query, args, err := dialect.Select(goqu.COUNT("*")).From(table).Prepared(true).ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int64
	if err := sqlx.GetContext(ctx, db, &count, query, args...); err != nil {
		return 0, apperrors.NewInternalError(fmt.Sprintf("failed to count %s", table), err)
	}
	return count, nil
}
