package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/types"
	"github.com/hyperengineering/selfhelp/internal/validation"
)

// authorize loads a resource and checks it belongs to userID. It has no
// side effects beyond the read. Malformed IDs are rejected before the read.
func authorize[T any](
	ctx context.Context,
	kind, id string,
	userID types.UserID,
	load func(context.Context, string) (*T, error),
	ownerOf func(*T) types.UserID,
) (*T, error) {
	if verr := validation.ValidateULID("id", id); verr != nil {
		return nil, fmt.Errorf("%w: %s id %s", ErrInvalidInput, kind, verr.Message)
	}
	r, err := load(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
		}
		return nil, fmt.Errorf("load %s: %w", kind, err)
	}
	if ownerOf(r) != userID {
		return nil, fmt.Errorf("%w: %s %s", ErrForbidden, kind, id)
	}
	return r, nil
}

func (s *Service) authorizeHabit(ctx context.Context, userID types.UserID, id string) (*types.Habit, error) {
	return authorize(ctx, "habit", id, userID, s.store.GetHabit,
		func(h *types.Habit) types.UserID { return h.UserID })
}

func (s *Service) authorizeGoal(ctx context.Context, userID types.UserID, id string) (*types.Goal, error) {
	return authorize(ctx, "goal", id, userID, s.store.GetGoal,
		func(g *types.Goal) types.UserID { return g.UserID })
}

func (s *Service) authorizeTodo(ctx context.Context, userID types.UserID, id string) (*types.Todo, error) {
	return authorize(ctx, "todo", id, userID, s.store.GetTodo,
		func(t *types.Todo) types.UserID { return t.UserID })
}

// notFound translates a store miss on a delete or update that raced with
// another writer.
func notFound(kind, id string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	}
	return err
}
