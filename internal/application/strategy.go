package application

import (
	"context"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	"github.com/oksasatya/socialgram-api/internal/domain/repository"
	"github.com/oksasatya/socialgram-api/pkg/helpers"
)

// Credentials is the input to a login strategy.
type Credentials struct {
	Username string
	Password string
}

// LoginStrategy verifies credentials and resolves them to a user. Strategies
// are registered by name so alternate verification schemes can be added
// without touching callers; "local" is the default.
type LoginStrategy interface {
	Authenticate(ctx context.Context, creds Credentials) (*entity.User, error)
}

// LocalStrategy verifies a username/password pair against the credential
// store. Unknown user and wrong password both collapse into
// ErrInvalidCredentials so the caller cannot tell which check failed.
type LocalStrategy struct {
	Users repository.UserRepository
}

func NewLocalStrategy(users repository.UserRepository) *LocalStrategy {
	return &LocalStrategy{Users: users}
}

func (s *LocalStrategy) Authenticate(ctx context.Context, creds Credentials) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, creds.Username)
	if err != nil || u == nil {
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, creds.Password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

var _ LoginStrategy = (*LocalStrategy)(nil)
