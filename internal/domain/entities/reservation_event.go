package entities

import (
	"time"

	"github.com/google/uuid"
)

// ReservationEventType represents what happened to a reservation
type ReservationEventType string

const (
	ReservationEventCreated ReservationEventType = "reservation.created"
	ReservationEventUpdated ReservationEventType = "reservation.updated"
	ReservationEventDeleted ReservationEventType = "reservation.deleted"
)

// ReservationEvent is published after a reservation mutation has been committed
type ReservationEvent struct {
	ID                 string               `json:"id"`
	Type               ReservationEventType `json:"type"`
	ReservationID      int64                `json:"reservation_id"`
	FacilityID         int64                `json:"facility_id"`
	PreviousFacilityID int64                `json:"previous_facility_id,omitempty"`
	StartTime          time.Time            `json:"start_time"`
	EndTime            time.Time            `json:"end_time"`
	Timestamp          time.Time            `json:"timestamp"`
}

// NewReservationEvent creates an event for r
func NewReservationEvent(eventType ReservationEventType, r *Reservation) *ReservationEvent {
	return &ReservationEvent{
		ID:            uuid.NewString(),
		Type:          eventType,
		ReservationID: r.ID,
		FacilityID:    r.FacilityID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Timestamp:     time.Now().UTC(),
	}
}

// AffectedFacilities lists every facility whose schedule changed because of the event
func (e *ReservationEvent) AffectedFacilities() []int64 {
	if e.PreviousFacilityID != 0 && e.PreviousFacilityID != e.FacilityID {
		return []int64{e.PreviousFacilityID, e.FacilityID}
	}
	return []int64{e.FacilityID}
}
