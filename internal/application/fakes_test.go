package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	"github.com/oksasatya/socialgram-api/internal/domain/repository"
	"github.com/oksasatya/socialgram-api/pkg/helpers"
)

func testJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("test-secret", time.Hour)
}

type memUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*entity.User // by id
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

type memPostRepo struct {
	mu    sync.Mutex
	seq   int
	posts []*entity.Post
	users *memUserRepo
}

func newMemPostRepo(users *memUserRepo) *memPostRepo {
	return &memPostRepo{users: users}
}

func (r *memPostRepo) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p.ID = fmt.Sprintf("post-%d", r.seq)
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *memPostRepo) List(ctx context.Context) ([]*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Post, 0, len(r.posts))
	for i := len(r.posts) - 1; i >= 0; i-- {
		cp := *r.posts[i]
		if u, err := r.users.GetByID(ctx, cp.AuthorID); err == nil {
			cp.Username = u.Username
		}
		out = append(out, &cp)
	}
	return out, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	seq      int
	comments []*entity.Comment
}

func newMemCommentRepo() *memCommentRepo { return &memCommentRepo{} }

func (r *memCommentRepo) Create(_ context.Context, c *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	c.ID = fmt.Sprintf("comment-%d", r.seq)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.comments = append(r.comments, &cp)
	return nil
}

func (r *memCommentRepo) ListByPost(_ context.Context, postID string) ([]*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Comment, 0)
	for _, c := range r.comments {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

// fakeSigner mints deterministic URLs with a per-call counter so tests can
// observe that download URLs are recomputed on every read.
type fakeSigner struct {
	mu    sync.Mutex
	calls int
}

func (s *fakeSigner) SignUpload(fileName, contentType string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	key := fmt.Sprintf("posts/%s-%d", fileName, s.calls)
	return fmt.Sprintf("https://storage.test/upload/%s?sig=%d&type=%s", key, s.calls, contentType), key, nil
}

func (s *fakeSigner) SignDownload(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return fmt.Sprintf("https://storage.test/%s?sig=%d", key, s.calls), nil
}

type published struct {
	event   string
	payload any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *fakePublisher) Publish(_ context.Context, event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, published{event: event, payload: payload})
	return nil
}

func (p *fakePublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]published(nil), p.events...)
}
