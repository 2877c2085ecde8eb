package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/socialgram-api/internal/application"
	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	"github.com/oksasatya/socialgram-api/internal/domain/repository"
	"github.com/oksasatya/socialgram-api/internal/interface/middleware"
	"github.com/oksasatya/socialgram-api/pkg/helpers"
	"github.com/oksasatya/socialgram-api/pkg/response"
)

// In-memory stores standing in for Postgres; same contracts as the
// repository interfaces, including atomic duplicate detection.

type memUsers struct {
	mu    sync.Mutex
	seq   int
	users []*entity.User
}

func (r *memUsers) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.users {
		if e.Username == u.Username {
			return repository.ErrDuplicate
		}
	}
	r.seq++
	u.ID = fmt.Sprintf("user-%d", r.seq)
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) GetByUsername(_ context.Context, username string) (*entity.User, error) {
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

type memPosts struct {
	mu    sync.Mutex
	seq   int
	posts []*entity.Post
	users *memUsers
}

func (r *memPosts) Create(_ context.Context, p *entity.Post) error {
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

func (r *memPosts) List(ctx context.Context) ([]*entity.Post, error) {
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

func (r *memPosts) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.posts)
}

type memComments struct {
	mu       sync.Mutex
	seq      int
	comments []*entity.Comment
}

func (r *memComments) Create(_ context.Context, c *entity.Comment) error {
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

func (r *memComments) ListByPost(_ context.Context, postID string) ([]*entity.Comment, error) {
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

type seqSigner struct {
	mu    sync.Mutex
	calls int
}

func (s *seqSigner) SignUpload(fileName, contentType string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	key := fmt.Sprintf("posts/%d-%s", s.calls, fileName)
	return "https://storage.test/upload/" + key, key, nil
}

func (s *seqSigner) SignDownload(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return fmt.Sprintf("https://storage.test/%s?sig=%d", key, s.calls), nil
}

type recPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recPublisher) Publish(_ context.Context, event string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func newTestLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type apiFixture struct {
	router   *gin.Engine
	users    *memUsers
	posts    *memPosts
	comments *memComments
	pub      *recPublisher
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUsers{}
	posts := &memPosts{users: users}
	comments := &memComments{}
	pub := &recPublisher{}
	jwt := helpers.NewJWTManager("test-secret", time.Hour)

	authSvc := application.NewAuthService(users, jwt, nil, nil, "")
	postSvc := application.NewPostService(posts, users, &seqSigner{}, pub, nil)
	commentSvc := application.NewCommentService(comments)

	r := gin.New()
	api := r.Group("/api/v1")

	api.POST("/auth/register", NewAuthHandler(authSvc, newTestLogger()).Register)
	api.POST("/auth/login", NewAuthHandler(authSvc, newTestLogger()).Login)

	ph := NewPostHandler(postSvc, newTestLogger())
	api.POST("/posts/upload-presign", ph.PresignUpload)
	api.POST("/posts", middleware.Auth(jwt), ph.Create)
	api.GET("/posts", middleware.Auth(jwt), ph.List)

	ch := NewCommentHandler(commentSvc, newTestLogger())
	api.POST("/comments/:postId", middleware.Auth(jwt), ch.Create)
	api.GET("/comments/:postId", ch.List)

	r.NoRoute(func(c *gin.Context) {
		response.Error[any](c, http.StatusNotFound, "route not found", nil)
	})

	return &apiFixture{router: r, users: users, posts: posts, comments: comments, pub: pub}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	f.router.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, resp.Body.String())
	}
	return envelope.Data
}

func decodeList(t *testing.T, resp *httptest.ResponseRecorder) []map[string]any {
	t.Helper()
	var envelope struct {
		Data []map[string]any `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, resp.Body.String())
	}
	return envelope.Data
}

func (f *apiFixture) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()
	if resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": username, "password": password}); resp.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	resp := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": username, "password": password})
	if resp.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	token, _ := decodeData(t, resp)["token"].(string)
	if token == "" {
		t.Fatal("expected token in login response")
	}
	return token
}

func TestRegisterDuplicateConflict(t *testing.T) {
	f := newAPIFixture(t)

	if resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "alice", "password": "pw123456"}); resp.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", resp.Code)
	}
	if resp := f.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"username": "alice", "password": "other-pw"}); resp.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d", resp.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "alice", "pw123456")

	resp := f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "alice", "password": "wrong"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
	// Same status for an unknown username.
	resp = f.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "ghost", "password": "wrong"})
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", resp.Code)
	}
}

func TestUnauthenticatedPostsRejectedWithoutSideEffects(t *testing.T) {
	f := newAPIFixture(t)

	if resp := f.do(t, http.MethodPost, "/api/v1/posts", "", gin.H{"caption": "hello"}); resp.Code != http.StatusUnauthorized {
		t.Fatalf("create: expected 401, got %d", resp.Code)
	}
	if resp := f.do(t, http.MethodGet, "/api/v1/posts", "", nil); resp.Code != http.StatusUnauthorized {
		t.Fatalf("list: expected 401, got %d", resp.Code)
	}
	if n := f.posts.count(); n != 0 {
		t.Fatalf("expected no post written, got %d", n)
	}
}

func TestPostPublicationEndToEnd(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "alice", "pw123456")

	if resp := f.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{}); resp.Code != http.StatusBadRequest {
		t.Fatalf("empty post: expected 400, got %d", resp.Code)
	}

	resp := f.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{"caption": "hello"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	created := decodeData(t, resp)
	if created["username"] != "alice" || created["caption"] != "hello" {
		t.Fatalf("unexpected post payload: %v", created)
	}

	listResp := f.do(t, http.MethodGet, "/api/v1/posts", token, nil)
	if listResp.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", listResp.Code)
	}
	listed := decodeList(t, listResp)
	if len(listed) != 1 || listed[0]["caption"] != "hello" || listed[0]["username"] != "alice" {
		t.Fatalf("unexpected listing: %v", listed)
	}

	if len(f.pub.events) != 1 || f.pub.events[0] != application.EventNewPost {
		t.Fatalf("expected one newPost broadcast, got %v", f.pub.events)
	}
}

func TestListResignsImageURLs(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "alice", "pw123456")

	if resp := f.do(t, http.MethodPost, "/api/v1/posts", token, gin.H{"image_key": "posts/cat.png"}); resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d", resp.Code)
	}

	first := decodeList(t, f.do(t, http.MethodGet, "/api/v1/posts", token, nil))
	second := decodeList(t, f.do(t, http.MethodGet, "/api/v1/posts", token, nil))
	if first[0]["image_url"] == second[0]["image_url"] {
		t.Fatal("image_url should differ between reads")
	}
}

func TestPresignUploadEndpoint(t *testing.T) {
	f := newAPIFixture(t)

	resp := f.do(t, http.MethodPost, "/api/v1/posts/upload-presign", "", gin.H{"file_name": "cat.png", "file_type": "image/png"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	data := decodeData(t, resp)
	if data["url"] == "" || data["key"] == "" {
		t.Fatalf("expected url and key, got %v", data)
	}

	if resp := f.do(t, http.MethodPost, "/api/v1/posts/upload-presign", "", gin.H{"file_name": "cat.png"}); resp.Code != http.StatusBadRequest {
		t.Fatalf("missing file_type: expected 400, got %d", resp.Code)
	}
}

func TestCommentsRoundTripOnUnknownPost(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "alice", "pw123456")

	if resp := f.do(t, http.MethodPost, "/api/v1/comments/no-such-post", token, gin.H{}); resp.Code != http.StatusBadRequest {
		t.Fatalf("missing content: expected 400, got %d", resp.Code)
	}

	resp := f.do(t, http.MethodPost, "/api/v1/comments/no-such-post", token, gin.H{"content": "first!"})
	if resp.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	listed := decodeList(t, f.do(t, http.MethodGet, "/api/v1/comments/no-such-post", "", nil))
	if len(listed) != 1 || listed[0]["content"] != "first!" {
		t.Fatalf("expected round-trip comment, got %v", listed)
	}
}

func TestUnknownRoute(t *testing.T) {
	f := newAPIFixture(t)
	if resp := f.do(t, http.MethodGet, "/api/v1/nope", "", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
