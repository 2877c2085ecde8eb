package application

import (
	"context"
	"errors"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	repo "github.com/oksasatya/socialgram-api/internal/domain/repository"
)

var ErrEmptyComment = errors.New("comment content is required")

// CommentService creates and lists comments. PostID is taken as given: the
// store performs no referential check, so commenting on an unknown post id
// still persists.
type CommentService struct {
	Comments repo.CommentRepository
}

func NewCommentService(comments repo.CommentRepository) *CommentService {
	return &CommentService{Comments: comments}
}

func (s *CommentService) Create(ctx context.Context, authorID, postID, content string) (*entity.Comment, error) {
	if content == "" {
		return nil, ErrEmptyComment
	}
	c := &entity.Comment{AuthorID: authorID, PostID: postID, Content: content}
	if err := s.Comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string) ([]*entity.Comment, error) {
	return s.Comments.ListByPost(ctx, postID)
}
