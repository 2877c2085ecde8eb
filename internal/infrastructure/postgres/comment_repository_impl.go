package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	"github.com/oksasatya/socialgram-api/internal/domain/repository"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a comment. post_id carries no foreign key on purpose, so a
// comment on a nonexistent post persists.
func (r *CommentRepository) Create(ctx context.Context, c *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO comments (author_id, post_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, c.AuthorID, c.PostID, c.Content)

	return row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.author_id, c.post_id, c.content, c.created_at, c.updated_at, u.username
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*entity.Comment, 0)
	for rows.Next() {
		cm := &entity.Comment{}
		if err := rows.Scan(&cm.ID, &cm.AuthorID, &cm.PostID, &cm.Content,
			&cm.CreatedAt, &cm.UpdatedAt, &cm.Username); err != nil {
			return nil, err
		}
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

var _ repository.CommentRepository = (*CommentRepository)(nil)
