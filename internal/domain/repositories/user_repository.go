package repositories

import (
	"context"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByUsername retrieves a user by username
	GetByUsername(ctx context.Context, username string) (*entities.User, error)

	// Count returns the number of users
	Count(ctx context.Context) (int64, error)
}

// BadgeRepository defines the interface for badge operations
type BadgeRepository interface {
	List(ctx context.Context) ([]*entities.Badge, error)
}
