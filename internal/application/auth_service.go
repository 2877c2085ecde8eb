package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/socialgram-api/internal/domain/entity"
	repo "github.com/oksasatya/socialgram-api/internal/domain/repository"
	"github.com/oksasatya/socialgram-api/pkg/helpers"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrUnknownStrategy    = errors.New("unknown login strategy")
)

// DefaultStrategy is the strategy used when the caller does not name one.
const DefaultStrategy = "local"

// AuthService owns registration and login. Login is polymorphic over named
// strategies; registration hashes the password, persists the user, and
// best-effort indexes the profile for search.
type AuthService struct {
	Users        repo.UserRepository
	JWT          *helpers.JWTManager
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string

	strategies map[string]LoginStrategy
}

func NewAuthService(users repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, es *elasticsearch.Client, esUsersIndex string) *AuthService {
	s := &AuthService{
		Users:        users,
		JWT:          jwt,
		Logger:       logger,
		ES:           es,
		ESUsersIndex: esUsersIndex,
		strategies:   map[string]LoginStrategy{},
	}
	s.RegisterStrategy(DefaultStrategy, NewLocalStrategy(users))
	return s
}

// RegisterStrategy adds or replaces a named login strategy.
func (s *AuthService) RegisterStrategy(name string, strategy LoginStrategy) {
	s.strategies[name] = strategy
}

// Register creates a user with a hashed password. The plaintext is discarded
// after hashing. A username conflict surfaces as ErrDuplicateUsername; the
// storage-level unique constraint is authoritative, so concurrent
// registrations cannot both succeed.
func (s *AuthService) Register(ctx context.Context, username, password string) (*entity.User, error) {
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: username, PasswordHash: hash}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}
	_ = s.indexUser(ctx, u)
	return u, nil
}

// Login authenticates via the named strategy and mints a bearer token whose
// subject is the user id.
func (s *AuthService) Login(ctx context.Context, strategy string, creds Credentials) (string, time.Time, error) {
	if strategy == "" {
		strategy = DefaultStrategy
	}
	st, ok := s.strategies[strategy]
	if !ok {
		return "", time.Time{}, ErrUnknownStrategy
	}
	u, err := st.Authenticate(ctx, creds)
	if err != nil {
		return "", time.Time{}, err
	}
	return s.issueToken(u)
}

func (s *AuthService) issueToken(u *entity.User) (string, time.Time, error) {
	token, exp, err := s.JWT.Generate(u.ID)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func (s *AuthService) indexUser(ctx context.Context, u *entity.User) error {
	if s.ES == nil || s.ESUsersIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESUsersIndex, DocumentID: u.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("user_id", u.ID).Warn("es index response error")
	}
	return nil
}

// SearchUsers performs a match query on username against the users index.
func (s *AuthService) SearchUsers(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"match": map[string]any{
				"username": q,
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESUsersIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, errors.New("search failed: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
