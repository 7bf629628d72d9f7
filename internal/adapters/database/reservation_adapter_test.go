package database_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dkswoans/2307-fastapiProjects/internal/adapters/database"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reservationRowColumns = []string{
	"id", "facility_id", "user_name", "user_phone", "start_time", "end_time",
	"purpose", "capacity", "created_at", "updated_at",
}

func newMockClient(t *testing.T) (*postgres.Client, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return postgres.NewClientFromDB(sqlx.NewDb(mockDB, "postgres")), mock
}

func slot(hour int) time.Time {
	return time.Date(2025, 5, 1, hour, 0, 0, 0, time.UTC)
}

func TestReservationAdapter_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the stored reservation", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "reservations" WHERE \("id" = \$1\)`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(reservationRowColumns).
				AddRow(5, 1, "Kim", "010-1234-5678", slot(10), slot(11), "badminton", nil, slot(9), slot(9)))

		r, err := adapter.GetByID(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, int64(5), r.ID)
		assert.Equal(t, int64(1), r.FacilityID)
		require.NotNil(t, r.Purpose)
		assert.Equal(t, "badminton", *r.Purpose)
		assert.Nil(t, r.Capacity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row is not found", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectQuery(`SELECT .* FROM "reservations"`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(reservationRowColumns))

		_, err := adapter.GetByID(ctx, 99)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestReservationAdapter_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps id and timestamps", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectQuery(`INSERT INTO "reservations" .* RETURNING "id"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

		r := &entities.Reservation{FacilityID: 1, UserName: "Kim", UserPhone: "010", StartTime: slot(10), EndTime: slot(11)}
		require.NoError(t, adapter.Create(ctx, r))

		assert.Equal(t, int64(12), r.ID)
		assert.False(t, r.CreatedAt.IsZero())
		assert.Equal(t, r.CreatedAt, r.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("exclusion violation is a conflict", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectQuery(`INSERT INTO "reservations"`).
			WillReturnError(&pq.Error{Code: "23P01", Message: "conflicting key value violates exclusion constraint"})

		err := adapter.Create(ctx, &entities.Reservation{FacilityID: 1, UserName: "Kim", UserPhone: "010", StartTime: slot(10), EndTime: slot(11)})
		assert.True(t, apperrors.IsConflict(err))
	})

	t.Run("unknown facility is not found", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectQuery(`INSERT INTO "reservations"`).
			WillReturnError(&pq.Error{Code: "23503"})

		err := adapter.Create(ctx, &entities.Reservation{FacilityID: 42, UserName: "Kim", UserPhone: "010", StartTime: slot(10), EndTime: slot(11)})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestReservationAdapter_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("update of a missing row is not found", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectExec(`UPDATE "reservations" SET .* WHERE \("id" = \$\d+\)`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := adapter.Update(ctx, &entities.Reservation{ID: 3, FacilityID: 1, UserName: "Kim", UserPhone: "010", StartTime: slot(10), EndTime: slot(11)})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("delete removes the row", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectExec(`DELETE FROM "reservations" WHERE \("id" = \$1\)`).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, adapter.Delete(ctx, 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete of a missing row is not found", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectExec(`DELETE FROM "reservations"`).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.True(t, apperrors.IsNotFound(adapter.Delete(ctx, 3)))
	})
}

func TestReservationAdapter_WithinFacilityLock(t *testing.T) {
	ctx := context.Background()

	t.Run("locks sorted facility ids and commits", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectBegin()
		mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).WithArgs(int64(2)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`SELECT pg_advisory_xact_lock\(\$1\)`).WithArgs(int64(9)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM "reservations" WHERE \("facility_id" = \$1\) ORDER BY "start_time" ASC`).
			WithArgs(int64(9)).
			WillReturnRows(sqlmock.NewRows(reservationRowColumns).
				AddRow(1, 9, "Lee", "010", slot(8), slot(9), nil, 4, slot(7), slot(7)))
		mock.ExpectCommit()

		var seen []*entities.Reservation
		err := adapter.WithinFacilityLock(ctx, func(ctx context.Context, store repositories.ReservationStore) error {
			var err error
			seen, err = store.ListByFacility(ctx, 9)
			return err
		}, 9, 2, 9)

		require.NoError(t, err)
		require.Len(t, seen, 1)
		require.NotNil(t, seen[0].Capacity)
		assert.Equal(t, 4, *seen[0].Capacity)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reads inside the lock take a row lock", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectBegin()
		mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT .* FROM "reservations" WHERE \("id" = \$1\) FOR UPDATE`).
			WithArgs(int64(5)).
			WillReturnRows(sqlmock.NewRows(reservationRowColumns).
				AddRow(5, 1, "Kim", "010", slot(13), slot(14), nil, nil, slot(9), slot(9)))
		mock.ExpectCommit()

		var locked *entities.Reservation
		err := adapter.WithinFacilityLock(ctx, func(ctx context.Context, store repositories.ReservationStore) error {
			var err error
			locked, err = store.GetByID(ctx, 5)
			return err
		}, 1)

		require.NoError(t, err)
		assert.Equal(t, slot(13), locked.StartTime)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectBegin()
		mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		conflict := apperrors.NewConflictError("overlap")
		err := adapter.WithinFacilityLock(ctx, func(ctx context.Context, store repositories.ReservationStore) error {
			return conflict
		}, 1)

		assert.True(t, errors.Is(err, conflict))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert inside the lock surfaces the exclusion conflict", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectBegin()
		mock.ExpectExec(`pg_advisory_xact_lock`).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`INSERT INTO "reservations"`).WillReturnError(&pq.Error{Code: "23P01"})
		mock.ExpectRollback()

		err := adapter.WithinFacilityLock(ctx, func(ctx context.Context, store repositories.ReservationStore) error {
			return store.Create(ctx, &entities.Reservation{FacilityID: 1, UserName: "Kim", UserPhone: "010", StartTime: slot(10), EndTime: slot(11)})
		}, 1)

		assert.True(t, apperrors.IsConflict(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure is internal", func(t *testing.T) {
		client, mock := newMockClient(t)
		adapter := database.NewReservationAdapter(client)

		mock.ExpectBegin().WillReturnError(errors.New("connection reset"))

		err := adapter.WithinFacilityLock(ctx, func(ctx context.Context, store repositories.ReservationStore) error {
			t.Fatal("fn must not run")
			return nil
		}, 1)

		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
	})
}

func TestReservationAdapter_Count(t *testing.T) {
	client, mock := newMockClient(t)
	adapter := database.NewReservationAdapter(client)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "reservations"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(17))

	count, err := adapter.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(17), count)
}
