package entities

import "context"

// User represents a user in the system
type User struct {
	ID       int64  `json:"id" db:"id"`
	Username string `json:"username" db:"username" validate:"required,max=50"`
	Password string `json:"-" db:"password" validate:"required,max=128"`
}

// Badge is an achievement shown on a user's page
type Badge struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name" validate:"required,max=50"`
	Description *string `json:"description,omitempty" db:"description" validate:"omitempty,max=200"`
	ImageURL    *string `json:"image_url,omitempty" db:"image_url" validate:"omitempty,max=255"`
}

// Caller identifies who issued a request. There is no authentication layer;
// the identity is supplied by the transport and threaded through every operation that needs it.
type Caller struct {
	UserID int64
}

type callerKey struct{}

// WithCaller attaches the caller identity to ctx
func WithCaller(ctx context.Context, caller Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFrom returns the caller identity stored in ctx, if any
func CallerFrom(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(Caller)
	return caller, ok && caller.UserID > 0
}
