package loaders

import (
	"context"
	"fmt"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/graph-gophers/dataloader/v7"
)

type ctxKey string

const loadersKey ctxKey = "dataloaders"

// Loaders contains the per-request dataloaders
type Loaders struct {
	FacilityLoader *dataloader.Loader[int64, *entities.Facility]
}

// NewLoaders creates a new instance of Loaders
func NewLoaders(facilityRepo repositories.FacilityRepository) *Loaders {
	return &Loaders{
		FacilityLoader: dataloader.NewBatchedLoader(func(ctx context.Context, keys []int64) []*dataloader.Result[*entities.Facility] {
			results := make([]*dataloader.Result[*entities.Facility], len(keys))
			facilities, err := facilityRepo.GetByIDs(ctx, keys)

			facilityMap := make(map[int64]*entities.Facility, len(facilities))
			if err == nil {
				for _, f := range facilities {
					facilityMap[f.ID] = f
				}
			}

			for i, key := range keys {
				if err != nil {
					results[i] = &dataloader.Result[*entities.Facility]{Error: err}
				} else if f, ok := facilityMap[key]; ok {
					results[i] = &dataloader.Result[*entities.Facility]{Data: f}
				} else {
					results[i] = &dataloader.Result[*entities.Facility]{Error: apperrors.NewNotFoundError(fmt.Sprintf("facility with id %d not found", key))}
				}
			}
			return results
		}),
	}
}

// For returns the loaders for a given context, or nil when none are attached
func For(ctx context.Context) *Loaders {
	l, _ := ctx.Value(loadersKey).(*Loaders)
	return l
}

// WithLoaders returns a new context with the loaders attached
func WithLoaders(ctx context.Context, loaders *Loaders) context.Context {
	return context.WithValue(ctx, loadersKey, loaders)
}

// ReservationViews attaches facility names to reservations, batching the facility lookups into one query.
// Reservations whose facility cannot be loaded keep an empty name.
func (l *Loaders) ReservationViews(ctx context.Context, reservations []*entities.Reservation) []*entities.ReservationView {
	thunks := make([]dataloader.Thunk[*entities.Facility], len(reservations))
	for i, r := range reservations {
		thunks[i] = l.FacilityLoader.Load(ctx, r.FacilityID)
	}

	views := make([]*entities.ReservationView, len(reservations))
	for i, r := range reservations {
		view := &entities.ReservationView{Reservation: r}
		if facility, err := thunks[i](); err == nil && facility != nil {
			view.FacilityName = facility.Name
		}
		views[i] = view
	}
	return views
}
