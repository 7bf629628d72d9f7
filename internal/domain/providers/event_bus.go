package providers

import (
	"context"
	"strconv"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to reservation events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ReservationEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ReservationEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for different event types
const (
	// EventChannelReservationUpdates is the channel for all reservation changes
	EventChannelReservationUpdates = "reservations:updates"

	// EventChannelFacilityPrefix is the prefix for facility-specific channels
	EventChannelFacilityPrefix = "facility:"
)

// GetFacilityChannel returns the channel name for a specific facility
func GetFacilityChannel(facilityID int64) string {
	return EventChannelFacilityPrefix + strconv.FormatInt(facilityID, 10) + ":reservations"
}
