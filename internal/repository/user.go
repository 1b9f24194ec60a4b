package repository

import (
	"context"

	"catalogapi/internal/model"
)

// UserRepository defines data access for user accounts.
type UserRepository interface {
	// Create inserts a new user. ErrDuplicate if the username is taken.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByUsername returns a user by username, or sql.ErrNoRows.
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByID returns a user by ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, id string) (*model.User, error)
}
