package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/types"
)

func newTestService(t *testing.T, admins ...string) *Service {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return NewService(s, admins)
}

func TestRegister_IssuesTokenAndResolves(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "  Alice@Example.com ", "Alice")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(token, tokenPrefix) {
		t.Errorf("token %q missing prefix", token)
	}
	if u.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.Role != types.RoleUser {
		t.Errorf("role = %s, want USER", u.Role)
	}
	if u.TokenHash == token {
		t.Error("plaintext token stored")
	}

	id, err := svc.ResolveUserID(ctx, "ALICE@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if id != u.ID {
		t.Errorf("ResolveUserID = %s, want %s", id, u.ID)
	}

	authed, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if authed.ID != u.ID {
		t.Errorf("Authenticate returned %s, want %s", authed.ID, u.ID)
	}
}

func TestRegister_RotatesTokenAndRefreshesRole(t *testing.T) {
	svc := newTestService(t, "boss@example.com")
	ctx := context.Background()

	first, oldToken, err := svc.Register(ctx, "boss@example.com", "Boss")
	if err != nil {
		t.Fatal(err)
	}
	if first.Role != types.RoleAdmin {
		t.Errorf("role = %s, want ADMIN", first.Role)
	}

	second, newToken, err := svc.Register(ctx, "boss@example.com", "Boss")
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Error("re-register created a new account")
	}
	if oldToken == newToken {
		t.Error("token not rotated")
	}
	if _, err := svc.Authenticate(ctx, oldToken); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("old token still valid: %v", err)
	}
	if _, err := svc.Authenticate(ctx, newToken); err != nil {
		t.Errorf("new token rejected: %v", err)
	}
}

func TestResolveUserID_UnknownEmail(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ResolveUserID(context.Background(), "ghost@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestAuthenticate_Rejects(t *testing.T) {
	svc := newTestService(t)

	for _, token := range []string{"", "shp_unknown"} {
		if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrUnauthenticated) {
			t.Errorf("Authenticate(%q) = %v, want ErrUnauthenticated", token, err)
		}
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	svc := newTestService(t)

	if _, _, err := svc.Register(context.Background(), "not-an-email", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("err = %v, want ErrInvalidEmail", err)
	}
}
