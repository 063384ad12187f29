package api

import (
	"context"
	"errors"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// principalContextKey is the context key for the authenticated user.
type principalContextKey struct{}

// ErrNoPrincipalInContext indicates no authenticated user was found in the context.
var ErrNoPrincipalInContext = errors.New("no principal in context")

// WithPrincipal returns a new context with the authenticated user attached.
func WithPrincipal(ctx context.Context, u *types.User) context.Context {
	return context.WithValue(ctx, principalContextKey{}, u)
}

// PrincipalFromContext extracts the authenticated user from the context.
// Returns ErrNoPrincipalInContext if not present or nil.
func PrincipalFromContext(ctx context.Context) (*types.User, error) {
	u, ok := ctx.Value(principalContextKey{}).(*types.User)
	if !ok || u == nil {
		return nil, ErrNoPrincipalInContext
	}
	return u, nil
}
