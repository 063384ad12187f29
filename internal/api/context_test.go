package api

import (
	"context"
	"errors"
	"testing"

	"github.com/hyperengineering/selfhelp/internal/types"
)

func TestWithPrincipal_RoundTrip(t *testing.T) {
	user := &types.User{ID: "u1", Email: "a@example.com"}
	ctx := WithPrincipal(context.Background(), user)

	got, err := PrincipalFromContext(ctx)
	if err != nil {
		t.Fatalf("PrincipalFromContext returned error: %v", err)
	}
	if got != user {
		t.Error("got different user instance, want same instance")
	}
}

func TestPrincipalFromContext_Missing(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{"absent", context.Background()},
		{"nil user", WithPrincipal(context.Background(), nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := PrincipalFromContext(tt.ctx); !errors.Is(err, ErrNoPrincipalInContext) {
				t.Errorf("error = %v, want ErrNoPrincipalInContext", err)
			}
		})
	}
}
