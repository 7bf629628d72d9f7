package entities

import (
	"time"
)

// Reservation is a time-bounded booking of one facility by one named requester.
// Times are naive wall-clock timestamps.
type Reservation struct {
	ID         int64     `json:"id" db:"id"`
	FacilityID int64     `json:"facility_id" db:"facility_id" validate:"required,gt=0"`
	UserName   string    `json:"user_name" db:"user_name" validate:"required,max=100"`
	UserPhone  string    `json:"user_phone" db:"user_phone" validate:"required,max=20"`
	StartTime  time.Time `json:"start_time" db:"start_time" validate:"required"`
	EndTime    time.Time `json:"end_time" db:"end_time" validate:"required,gtfield=StartTime"`
	Purpose    *string   `json:"purpose,omitempty" db:"purpose" validate:"omitempty,max=200"`
	Capacity   *int      `json:"capacity,omitempty" db:"capacity" validate:"omitempty,gte=1"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Overlaps reports whether the reservation collides with [start, end].
// Both ends are inclusive, so back-to-back bookings sharing a boundary instant collide.
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return !r.StartTime.After(end) && !r.EndTime.Before(start)
}

// ReservationPatch carries the fields of a partial reservation update; nil means "leave unchanged".
// The optional fields are cleared only through ClearPurpose and ClearCapacity.
type ReservationPatch struct {
	FacilityID    *int64
	UserName      *string
	UserPhone     *string
	StartTime     *time.Time
	EndTime       *time.Time
	Purpose       *string
	Capacity      *int
	ClearPurpose  bool
	ClearCapacity bool
}

// Apply overwrites the supplied fields on r and reports whether the booked slot
// (facility, start or end) changed.
func (p *ReservationPatch) Apply(r *Reservation) (scheduleChanged bool) {
	if p.FacilityID != nil && *p.FacilityID != r.FacilityID {
		r.FacilityID = *p.FacilityID
		scheduleChanged = true
	}
	if p.StartTime != nil && !p.StartTime.Equal(r.StartTime) {
		r.StartTime = *p.StartTime
		scheduleChanged = true
	}
	if p.EndTime != nil && !p.EndTime.Equal(r.EndTime) {
		r.EndTime = *p.EndTime
		scheduleChanged = true
	}
	if p.UserName != nil {
		r.UserName = *p.UserName
	}
	if p.UserPhone != nil {
		r.UserPhone = *p.UserPhone
	}
	if p.Purpose != nil {
		r.Purpose = p.Purpose
	} else if p.ClearPurpose {
		r.Purpose = nil
	}
	if p.Capacity != nil {
		r.Capacity = p.Capacity
	} else if p.ClearCapacity {
		r.Capacity = nil
	}
	return scheduleChanged
}

// ReservationView is a reservation enriched for list rendering
type ReservationView struct {
	*Reservation
	FacilityName string `json:"facility_name,omitempty"`
}
