package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
// Create must enforce username uniqueness atomically at the storage layer and
// return ErrDuplicate on conflict.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
