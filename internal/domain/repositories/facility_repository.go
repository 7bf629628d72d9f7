package repositories

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
)

// FacilityRepository defines the interface for facility data operations
type FacilityRepository interface {
	// Create creates a new facility and fills in its generated id and timestamps
	Create(ctx context.Context, facility *entities.Facility) error

	// GetByID retrieves a facility by ID
	GetByID(ctx context.Context, id int64) (*entities.Facility, error)

	// GetByIDs retrieves multiple facilities by their IDs; missing ids are skipped
	GetByIDs(ctx context.Context, ids []int64) ([]*entities.Facility, error)

	// Update updates a facility and refreshes updated_at
	Update(ctx context.Context, facility *entities.Facility) error

	// Delete deletes a facility. Facilities that still have reservations cannot be deleted.
	Delete(ctx context.Context, id int64) error

	// List retrieves facilities with filters
	List(ctx context.Context, filter FacilityFilter) ([]*entities.Facility, error)

	// Count returns the number of facilities
	Count(ctx context.Context) (int64, error)
}

// FacilityFilter defines filters for listing facilities
type FacilityFilter struct {
	Type   entities.FacilityType
	Limit  int
	Offset int
}
