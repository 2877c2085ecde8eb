package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	"github.com/oksasatya/socialgram-api/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (author_id, caption, image_key)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.AuthorID, p.Caption, p.ImageKey)

	return row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// List returns all posts newest first with the author username joined in.
func (r *PostRepository) List(ctx context.Context) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.author_id, p.caption, p.image_key, p.created_at, p.updated_at, u.username
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]*entity.Post, 0)
	for rows.Next() {
		p := &entity.Post{}
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Caption, &p.ImageKey,
			&p.CreatedAt, &p.UpdatedAt, &p.Username); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

var _ repository.PostRepository = (*PostRepository)(nil)
