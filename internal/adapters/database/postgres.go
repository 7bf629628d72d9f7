package database

import (
	"errors"
	"time"

	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"
)

// SQLSTATE codes surfaced by the schema constraints
const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqExclusionViolation  = "23P01"
)

var dialect = goqu.Dialect("postgres")

// now returns the store timestamp. Postgres keeps microseconds.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// mapWriteError turns constraint violations into domain errors
func mapWriteError(err error, msg string, fkMissing func() error) error {
	switch pqCode(err) {
	case pqExclusionViolation:
		return apperrors.NewConflictError("facility already has a reservation in that time range")
	case pqUniqueViolation:
		return apperrors.NewConflictError("record already exists")
	case pqForeignKeyViolation:
		if fkMissing != nil {
			return fkMissing()
		}
	}
	return apperrors.NewInternalError(msg, err)
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableInt(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

// pageLimit maps a non-positive limit to 0, which goqu renders as no LIMIT clause.
// Page-size defaults belong to the services.
func pageLimit(limit int) uint {
	if limit <= 0 {
		return 0
	}
	return uint(limit)
}

func pageOffset(offset int) uint {
	if offset < 0 {
		return 0
	}
	return uint(offset)
}
