package entities

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FacilityType is the kind of bookable public facility
type FacilityType string

const (
	FacilityTypeSports          FacilityType = "sports"
	FacilityTypeLibrary         FacilityType = "library"
	FacilityTypeCommunityCenter FacilityType = "community_center"
)

// ParseFacilityType accepts both the stored value ("community_center") and the enum name ("COMMUNITY_CENTER").
func ParseFacilityType(s string) (FacilityType, error) {
	t := FacilityType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case FacilityTypeSports, FacilityTypeLibrary, FacilityTypeCommunityCenter:
		return t, nil
	}
	return "", fmt.Errorf("unknown facility type %q", s)
}

// UnmarshalJSON normalizes enum names to stored values. Unknown values are kept so validation can report them.
func (t *FacilityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if parsed, err := ParseFacilityType(s); err == nil {
		*t = parsed
		return nil
	}
	*t = FacilityType(s)
	return nil
}

// Facility represents a bookable physical resource (court, reading room, hall)
type Facility struct {
	ID          int64        `json:"id" db:"id"`
	Name        string       `json:"name" db:"name" validate:"required,max=100"`
	Type        FacilityType `json:"type" db:"type" validate:"required,oneof=sports library community_center"`
	Location    string       `json:"location" db:"location" validate:"required,max=200"`
	Capacity    *int         `json:"capacity,omitempty" db:"capacity" validate:"omitempty,gte=0"`
	Description *string      `json:"description,omitempty" db:"description" validate:"omitempty,max=500"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// FacilityPatch carries the fields of a partial facility update; nil means "leave unchanged".
// Capacity and description are cleared only through ClearCapacity and ClearDescription.
type FacilityPatch struct {
	Name             *string
	Type             *FacilityType
	Location         *string
	Capacity         *int
	Description      *string
	ClearCapacity    bool
	ClearDescription bool
}

// Apply overwrites the supplied fields on f.
func (p *FacilityPatch) Apply(f *Facility) {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Location != nil {
		f.Location = *p.Location
	}
	if p.Capacity != nil {
		f.Capacity = p.Capacity
	} else if p.ClearCapacity {
		f.Capacity = nil
	}
	if p.Description != nil {
		f.Description = p.Description
	} else if p.ClearDescription {
		f.Description = nil
	}
}

// AdmitsParty reports whether a party of the given size fits. Facilities without a declared capacity admit any party.
func (f *Facility) AdmitsParty(size int) bool {
	return f.Capacity == nil || size <= *f.Capacity
}
