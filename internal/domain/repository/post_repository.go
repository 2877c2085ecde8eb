package repository

import (
	"context"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
)

// PostRepository defines database operations for posts. List returns posts
// newest first with the author username joined in.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	List(ctx context.Context) ([]*entity.Post, error)
}
