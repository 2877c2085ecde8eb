package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	repo "github.com/oksasatya/socialgram-api/internal/domain/repository"
)

var ErrEmptyPost = errors.New("caption or image required")

// EventNewPost is the event name emitted to realtime subscribers when a post
// is published.
const EventNewPost = "newPost"

// ObjectSigner issues pre-signed object-storage URLs. The download URL is
// recomputed on every call; it is never stored.
type ObjectSigner interface {
	SignUpload(fileName, contentType string) (url string, key string, err error)
	SignDownload(key string) (string, error)
}

// Publisher fans an event out to realtime subscribers. Best-effort: callers
// treat publish failures as fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, event string, payload any) error
}

// PostPayload is the enriched post shape returned to clients and broadcast to
// subscribers. ImageURL is transient and derived per read.
type PostPayload struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Username  string    `json:"username"`
	Caption   string    `json:"caption,omitempty"`
	ImageKey  string    `json:"image_key,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PresignResult is the response of an upload pre-sign request.
type PresignResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PostService orchestrates post publication: validate, persist, enrich with a
// signed download URL, and broadcast to connected subscribers.
type PostService struct {
	Posts  repo.PostRepository
	Users  repo.UserRepository
	Signer ObjectSigner
	Pub    Publisher
	Logger *logrus.Logger
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, signer ObjectSigner, pub Publisher, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Users: users, Signer: signer, Pub: pub, Logger: logger}
}

// Publish runs the publication flow in order: validate, persist, enrich,
// then broadcast. The broadcast never fails the request; errors are logged
// and swallowed.
func (s *PostService) Publish(ctx context.Context, authorID, caption, imageKey string) (*PostPayload, error) {
	if caption == "" && imageKey == "" {
		return nil, ErrEmptyPost
	}

	p := &entity.Post{AuthorID: authorID, Caption: caption, ImageKey: imageKey}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}

	author, err := s.Users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}
	p.Username = author.Username

	payload, err := s.enrich(p)
	if err != nil {
		return nil, err
	}

	if s.Pub != nil {
		if err := s.Pub.Publish(ctx, EventNewPost, payload); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("post_id", p.ID).Warn("broadcast failed")
		}
	}
	return payload, nil
}

// List returns all posts enriched with author username and a freshly signed
// download URL per post. URLs are recomputed on every read so clients never
// receive one that was signed on a previous request.
func (s *PostService) List(ctx context.Context) ([]*PostPayload, error) {
	posts, err := s.Posts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*PostPayload, 0, len(posts))
	for _, p := range posts {
		payload, err := s.enrich(p)
		if err != nil {
			return nil, err
		}
		out = append(out, payload)
	}
	return out, nil
}

// PresignUpload issues a short-lived direct-upload URL and the storage key
// the client should send back as image_key when publishing.
func (s *PostService) PresignUpload(fileName, fileType string) (*PresignResult, error) {
	url, key, err := s.Signer.SignUpload(fileName, fileType)
	if err != nil {
		return nil, err
	}
	return &PresignResult{URL: url, Key: key}, nil
}

func (s *PostService) enrich(p *entity.Post) (*PostPayload, error) {
	payload := &PostPayload{
		ID:        p.ID,
		AuthorID:  p.AuthorID,
		Username:  p.Username,
		Caption:   p.Caption,
		ImageKey:  p.ImageKey,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.ImageKey != "" {
		url, err := s.Signer.SignDownload(p.ImageKey)
		if err != nil {
			return nil, err
		}
		payload.ImageURL = url
	}
	return payload, nil
}
