// Package identity maps authenticated principals to durable user IDs and
// issues the bearer tokens used to authenticate API calls.
package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/types"
)

var (
	// ErrUserNotFound means no account matches the principal.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthenticated means the presented token is missing or unknown.
	ErrUnauthenticated = errors.New("invalid or missing token")
	// ErrInvalidEmail means a registration address is not usable.
	ErrInvalidEmail = errors.New("invalid email")
)

// tokenPrefix marks API tokens so they are recognizable in config and logs.
const tokenPrefix = "shp_"

// UserStore is the subset of store.Store this package needs.
type UserStore interface {
	CreateUser(ctx context.Context, user *types.User) error
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByTokenHash(ctx context.Context, tokenHash string) (*types.User, error)
	UpdateUserCredentials(ctx context.Context, id types.UserID, role types.Role, tokenHash string) error
	ListUsers(ctx context.Context) ([]types.User, error)
}

// Service resolves and authenticates users.
type Service struct {
	store       UserStore
	adminEmails map[string]struct{}
	now         func() time.Time
}

// NewService creates a Service. Emails in adminEmails receive RoleAdmin when
// registered.
func NewService(s UserStore, adminEmails []string) *Service {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[NormalizeEmail(e)] = struct{}{}
	}
	return &Service{store: s, adminEmails: admins, now: time.Now}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashToken returns the hex SHA-256 of a bearer token. Only hashes are stored.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RoleFor returns the role an email is entitled to under the configured
// admin allowlist.
func (s *Service) RoleFor(email string) types.Role {
	if _, ok := s.adminEmails[NormalizeEmail(email)]; ok {
		return types.RoleAdmin
	}
	return types.RoleUser
}

// ResolveUserID maps a principal email to its user ID.
func (s *Service) ResolveUserID(ctx context.Context, email string) (types.UserID, error) {
	u, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return "", fmt.Errorf("resolve user: %w", err)
	}
	return u.ID, nil
}

// GetUser returns the account registered under email.
func (s *Service) GetUser(ctx context.Context, email string) (*types.User, error) {
	u, err := s.store.GetUserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, email)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// Authenticate returns the user holding token.
func (s *Service) Authenticate(ctx context.Context, token string) (*types.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	u, err := s.store.GetUserByTokenHash(ctx, HashToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}
	return u, nil
}

// Register creates the account for email, or rotates the token of an
// existing one. The role is re-derived from the admin allowlist on every
// call. The plaintext token is returned once and never stored.
func (s *Service) Register(ctx context.Context, email, name string) (*types.User, string, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidEmail, email)
	}

	token := newToken()
	hash := HashToken(token)
	role := s.RoleFor(email)

	existing, err := s.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != role {
			slog.Info("user role changed", "user_id", existing.ID, "from", existing.Role, "to", role)
		}
		if err := s.store.UpdateUserCredentials(ctx, existing.ID, role, hash); err != nil {
			return nil, "", fmt.Errorf("rotate token: %w", err)
		}
		existing.Role = role
		existing.TokenHash = hash
		return existing, token, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	u := &types.User{
		Email:     email,
		Name:      name,
		Role:      role,
		TokenHash: hash,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	slog.Info("user registered", "user_id", u.ID, "role", u.Role)
	return u, token, nil
}

// ListUsers returns every registered account.
func (s *Service) ListUsers(ctx context.Context) ([]types.User, error) {
	return s.store.ListUsers(ctx)
}

func newToken() string {
	return tokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
