package repository

import (
	"context"

	"research-samples/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	// Create inserts the user only if the username is free. A taken username
	// yields ErrConflict and leaves the store unchanged.
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
}
