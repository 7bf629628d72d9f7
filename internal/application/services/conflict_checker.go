package services

import (
	"context"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
)

// ConflictChecker detects overlapping reservations on a facility.
// Reservation volume per facility is small, so it scans the schedule linearly.
type ConflictChecker struct{}

// NewConflictChecker creates a new conflict checker
func NewConflictChecker() *ConflictChecker {
	return &ConflictChecker{}
}

// HasConflict reports whether any reservation of facilityID other than excludeID overlaps [start, end].
// Touching boundaries count as an overlap. excludeID 0 excludes nothing.
func (c *ConflictChecker) HasConflict(ctx context.Context, store repositories.ReservationStore, facilityID int64, start, end time.Time, excludeID int64) (bool, error) {
	existing, err := store.ListByFacility(ctx, facilityID)
	if err != nil {
		return false, err
	}

	for _, r := range existing {
		if excludeID != 0 && r.ID == excludeID {
			continue
		}
		if r.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}
