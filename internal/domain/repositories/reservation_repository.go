package repositories

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
)

// ReservationStore is the subset of reservation operations available inside a facility lock
type ReservationStore interface {
	// GetByID retrieves a reservation by ID. Inside a facility lock the row stays locked until commit.
	GetByID(ctx context.Context, id int64) (*entities.Reservation, error)

	// ListByFacility retrieves every reservation of a facility ordered by start time
	ListByFacility(ctx context.Context, facilityID int64) ([]*entities.Reservation, error)

	// Create creates a new reservation and fills in its generated id and timestamps
	Create(ctx context.Context, reservation *entities.Reservation) error

	// Update persists every column of the reservation and refreshes updated_at
	Update(ctx context.Context, reservation *entities.Reservation) error
}

// ReservationRepository defines the interface for reservation data operations
type ReservationRepository interface {
	ReservationStore

	// List retrieves a page of reservations in id order
	List(ctx context.Context, filter ReservationFilter) ([]*entities.Reservation, error)

	// Delete removes a reservation
	Delete(ctx context.Context, id int64) error

	// Count returns the number of reservations
	Count(ctx context.Context) (int64, error)

	// WithinFacilityLock runs fn in a single transaction that holds an exclusive lock on the
	// schedule of every given facility. The store passed to fn is bound to that transaction.
	// If fn returns an error the transaction is rolled back.
	WithinFacilityLock(ctx context.Context, fn func(ctx context.Context, store ReservationStore) error, facilityIDs ...int64) error
}

// ReservationFilter defines paging for listing reservations
type ReservationFilter struct {
	Limit  int
	Offset int
}
