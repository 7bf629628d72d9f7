package entities_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 5, 1, hour, minute, 0, 0, time.UTC)
}

func TestReservation_Overlaps(t *testing.T) {
	existing := &entities.Reservation{StartTime: at(10, 0), EndTime: at(11, 0)}

	tests := []struct {
		name       string
		start, end time.Time
		want       bool
	}{
		{"partial overlap at the end", at(10, 30), at(11, 30), true},
		{"partial overlap at the start", at(9, 0), at(10, 30), true},
		{"contained", at(10, 15), at(10, 45), true},
		{"containing", at(9, 0), at(12, 0), true},
		{"touching the end boundary", at(11, 0), at(12, 0), true},
		{"touching the start boundary", at(9, 0), at(10, 0), true},
		{"one minute after", at(11, 1), at(12, 0), false},
		{"entirely before", at(8, 0), at(9, 59), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, existing.Overlaps(tt.start, tt.end))
		})
	}
}

func TestReservationPatch_Apply(t *testing.T) {
	purpose := "badminton"
	r := &entities.Reservation{
		FacilityID: 1,
		UserName:   "Kim",
		UserPhone:  "010-1234-5678",
		StartTime:  at(10, 0),
		EndTime:    at(11, 0),
	}

	t.Run("purpose only leaves the slot alone", func(t *testing.T) {
		changed := (&entities.ReservationPatch{Purpose: &purpose}).Apply(r)

		assert.False(t, changed)
		assert.Equal(t, "badminton", *r.Purpose)
		assert.Equal(t, at(10, 0), r.StartTime)
		assert.Equal(t, "Kim", r.UserName)
	})

	t.Run("same start time is not a schedule change", func(t *testing.T) {
		start := at(10, 0)
		assert.False(t, (&entities.ReservationPatch{StartTime: &start}).Apply(r))
	})

	t.Run("moving the end time is a schedule change", func(t *testing.T) {
		end := at(11, 30)
		assert.True(t, (&entities.ReservationPatch{EndTime: &end}).Apply(r))
		assert.Equal(t, at(11, 30), r.EndTime)
	})

	t.Run("clear flags drop the optional fields", func(t *testing.T) {
		capacity := 4
		r.Capacity = &capacity

		changed := (&entities.ReservationPatch{ClearPurpose: true, ClearCapacity: true}).Apply(r)

		assert.False(t, changed)
		assert.Nil(t, r.Purpose)
		assert.Nil(t, r.Capacity)
		assert.Equal(t, "Kim", r.UserName)
	})
}

func TestFacilityPatch_Apply(t *testing.T) {
	capacity := 30
	description := "indoor courts"
	f := &entities.Facility{Name: "Gym", Capacity: &capacity, Description: &description}

	(&entities.FacilityPatch{ClearDescription: true}).Apply(f)
	assert.Nil(t, f.Description)
	assert.Equal(t, 30, *f.Capacity)

	(&entities.FacilityPatch{ClearCapacity: true}).Apply(f)
	assert.Nil(t, f.Capacity)
	assert.Equal(t, "Gym", f.Name)
}

func TestValidate_Reservation(t *testing.T) {
	t.Run("valid reservation", func(t *testing.T) {
		r := &entities.Reservation{FacilityID: 1, UserName: "Kim", UserPhone: "010", StartTime: at(9, 0), EndTime: at(10, 0)}
		assert.NoError(t, entities.Validate(r))
	})

	t.Run("end before start and missing name", func(t *testing.T) {
		r := &entities.Reservation{FacilityID: 1, UserPhone: "010", StartTime: at(10, 0), EndTime: at(9, 0)}

		err := entities.Validate(r)
		require.Error(t, err)

		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
		assert.Equal(t, "is required", appErr.Fields["user_name"])
		assert.Equal(t, "must be after start_time", appErr.Fields["end_time"])
	})

	t.Run("zero length interval is rejected", func(t *testing.T) {
		r := &entities.Reservation{FacilityID: 1, UserName: "Kim", UserPhone: "010", StartTime: at(10, 0), EndTime: at(10, 0)}
		assert.True(t, apperrors.IsValidation(entities.Validate(r)))
	})

	t.Run("phone longer than 20 characters", func(t *testing.T) {
		r := &entities.Reservation{FacilityID: 1, UserName: "Kim", UserPhone: "010-1234-5678-9999-0000", StartTime: at(9, 0), EndTime: at(10, 0)}

		appErr, _ := apperrors.As(entities.Validate(r))
		require.NotNil(t, appErr)
		assert.Equal(t, "must be at most 20 characters", appErr.Fields["user_phone"])
	})
}

func TestFacilityType_UnmarshalJSON(t *testing.T) {
	var f entities.Facility
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Hall","type":"COMMUNITY_CENTER","location":"Mapo"}`), &f))
	assert.Equal(t, entities.FacilityTypeCommunityCenter, f.Type)
	assert.NoError(t, entities.Validate(&f))

	require.NoError(t, json.Unmarshal([]byte(`{"name":"Hall","type":"POOL","location":"Mapo"}`), &f))
	assert.True(t, apperrors.IsValidation(entities.Validate(&f)))
}

func TestFacility_AdmitsParty(t *testing.T) {
	capacity := 10
	assert.True(t, (&entities.Facility{}).AdmitsParty(500))
	assert.True(t, (&entities.Facility{Capacity: &capacity}).AdmitsParty(10))
	assert.False(t, (&entities.Facility{Capacity: &capacity}).AdmitsParty(11))
}
