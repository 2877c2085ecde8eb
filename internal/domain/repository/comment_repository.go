package repository

import (
	"context"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
)

// CommentRepository defines database operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, c *entity.Comment) error
	ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error)
}
