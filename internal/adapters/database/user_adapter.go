package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dkswoans/2307-fastapiProjects/internal/domain/entities"
	"github.com/dkswoans/2307-fastapiProjects/internal/domain/repositories"
	"github.com/dkswoans/2307-fastapiProjects/internal/infrastructure/clients/postgres"
	apperrors "github.com/dkswoans/2307-fastapiProjects/pkg/errors"
	"github.com/doug-martin/goqu/v9"
)

const (
	usersTable  = "users"
	badgesTable = "badges"
)

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{client: client}
}

// Create creates a new user; a taken username is a conflict
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	query, args, err := dialect.Insert(usersTable).
		Rows(goqu.Record{"username": user.Username, "password": user.Password}).
		Returning("id").
		Prepared(true).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowxContext(ctx, query, args...).Scan(&user.ID); err != nil {
		return mapWriteError(err, "failed to create user", nil)
	}
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"id": id}, fmt.Sprintf("user with id %d not found", id))
}

// GetByUsername retrieves a user by username
func (a *UserAdapter) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return a.getOne(ctx, goqu.Ex{"username": username}, fmt.Sprintf("user %q not found", username))
}

// Count returns the number of users
func (a *UserAdapter) Count(ctx context.Context) (int64, error) {
	return countRows(ctx, a.client.DB(), usersTable)
}

func (a *UserAdapter) getOne(ctx context.Context, where goqu.Ex, notFound string) (*entities.User, error) {
	query, args, err := dialect.Select("id", "username", "password").
		From(usersTable).
		Where(where).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user := &entities.User{}
	err = a.client.DB().GetContext(ctx, user, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(notFound)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// BadgeAdapter implements the BadgeRepository interface
type BadgeAdapter struct {
	client *postgres.Client
}

// NewBadgeAdapter creates a new badge adapter
func NewBadgeAdapter(client *postgres.Client) repositories.BadgeRepository {
	return &BadgeAdapter{client: client}
}

// List returns every badge in id order
func (a *BadgeAdapter) List(ctx context.Context) ([]*entities.Badge, error) {
	query, args, err := dialect.Select("id", "name", "description", "image_url").
		From(badgesTable).
		Order(goqu.I("id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	badges := []*entities.Badge{}
	if err := a.client.DB().SelectContext(ctx, &badges, query, args...); err != nil {
		return nil, apperrors.NewInternalError("failed to list badges", err)
	}
	return badges, nil
}
