package entities

import (
	"time"
)

// TrailType classifies walking trails
type TrailType string

const (
	TrailTypeRiver  TrailType = "RIVER"
	TrailTypePark   TrailType = "PARK"
	TrailTypeForest TrailType = "FOREST"
	TrailTypeCity   TrailType = "CITY"
	TrailTypeEtc    TrailType = "ETC"
)

// Trail is a walking trail that can be discovered, walked and reviewed
type Trail struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name" validate:"required,max=100"`
	Type        TrailType `json:"type" db:"type" validate:"required,oneof=RIVER PARK FOREST CITY ETC"`
	Location    string    `json:"location" db:"location" validate:"required,max=200"`
	DistanceKm  float64   `json:"distance_km" db:"distance_km" validate:"gt=0"`
	Description *string   `json:"description,omitempty" db:"description"`
	ImageURL    *string   `json:"image_url,omitempty" db:"image_url" validate:"omitempty,max=255,url"`
}

// TrailReview is a user's rating of a trail
type TrailReview struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id" validate:"required,gt=0"`
	TrailID   int64     `json:"trail_id" db:"trail_id" validate:"required,gt=0"`
	Rating    int       `json:"rating" db:"rating" validate:"gte=1,lte=5"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// WalkRecord records that a user walked a trail
type WalkRecord struct {
	ID       int64     `json:"id" db:"id"`
	UserID   int64     `json:"user_id" db:"user_id" validate:"required,gt=0"`
	TrailID  int64     `json:"trail_id" db:"trail_id" validate:"required,gt=0"`
	WalkedAt time.Time `json:"walked_at" db:"walked_at"`
	Memo     *string   `json:"memo,omitempty" db:"memo"`
	PhotoURL *string   `json:"photo_url,omitempty" db:"photo_url" validate:"omitempty,max=255"`
}
