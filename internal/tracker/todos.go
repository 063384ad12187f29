package tracker

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/hyperengineering/selfhelp/internal/types"
	"github.com/hyperengineering/selfhelp/internal/validation"
)

// CreateTodo creates a pending to-do owned by userID. Priority defaults to
// MEDIUM and category to PERSONAL.
func (s *Service) CreateTodo(ctx context.Context, userID types.UserID, req types.CreateTodoRequest) (*types.Todo, error) {
	if err := invalid(validation.ValidateCreateTodoRequest(req)); err != nil {
		return nil, err
	}

	now := s.Now()
	todo := &types.Todo{
		UserID:           userID,
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Priority:         types.PriorityMedium,
		Category:         types.CategoryPersonal,
		DueDate:          req.DueDate,
		EstimatedMinutes: req.EstimatedMinutes,
		Tags:             req.Tags,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.Priority != "" {
		todo.Priority = types.TodoPriority(req.Priority)
	}
	if req.Category != "" {
		todo.Category = types.TodoCategory(req.Category)
	}
	if err := s.store.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return s.withOverdue(todo), nil
}

// GetTodo returns a to-do owned by userID.
func (s *Service) GetTodo(ctx context.Context, userID types.UserID, todoID string) (*types.Todo, error) {
	todo, err := s.authorizeTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	return s.withOverdue(todo), nil
}

// UpdateTodo replaces a to-do's editable fields. Empty priority or category
// keep the stored value. Completion state is changed only by ToggleTodo.
func (s *Service) UpdateTodo(ctx context.Context, userID types.UserID, todoID string, req types.UpdateTodoRequest) (*types.Todo, error) {
	if err := invalid(validation.ValidateUpdateTodoRequest(req)); err != nil {
		return nil, err
	}
	todo, err := s.authorizeTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	todo.Title = strings.TrimSpace(req.Title)
	todo.Description = req.Description
	if req.Priority != "" {
		todo.Priority = types.TodoPriority(req.Priority)
	}
	if req.Category != "" {
		todo.Category = types.TodoCategory(req.Category)
	}
	todo.DueDate = req.DueDate
	todo.EstimatedMinutes = req.EstimatedMinutes
	todo.Tags = req.Tags
	todo.UpdatedAt = s.Now()

	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		return nil, notFound("todo", todoID, err)
	}
	return s.withOverdue(todo), nil
}

// ToggleTodo flips a to-do between pending and completed. Completing stamps
// CompletedAt and records req.ActualMinutes; reopening clears both.
func (s *Service) ToggleTodo(ctx context.Context, userID types.UserID, todoID string, req types.ToggleTodoRequest) (*types.Todo, error) {
	if err := invalid(validation.ValidateToggleTodoRequest(req)); err != nil {
		return nil, err
	}
	todo, err := s.authorizeTodo(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	todo.Completed = !todo.Completed
	if todo.Completed {
		todo.CompletedAt = &now
		todo.ActualMinutes = req.ActualMinutes
	} else {
		todo.CompletedAt = nil
		todo.ActualMinutes = nil
	}
	todo.UpdatedAt = now

	if err := s.store.UpdateTodo(ctx, todo); err != nil {
		return nil, notFound("todo", todoID, err)
	}
	return s.withOverdue(todo), nil
}

// DeleteTodo removes a to-do owned by userID.
func (s *Service) DeleteTodo(ctx context.Context, userID types.UserID, todoID string) error {
	if _, err := s.authorizeTodo(ctx, userID, todoID); err != nil {
		return err
	}
	if err := s.store.DeleteTodo(ctx, todoID); err != nil {
		return notFound("todo", todoID, err)
	}
	return nil
}

// ListTodos returns one page of the user's to-dos, newest first. Page is
// zero-based; a zero size uses the default and sizes above the maximum are
// clamped.
func (s *Service) ListTodos(ctx context.Context, userID types.UserID, filter types.TodoFilter) (*types.TodoPage, error) {
	if filter.Page < 0 {
		return nil, fmt.Errorf("%w: page must not be negative", ErrInvalidInput)
	}
	if filter.Size < 0 {
		return nil, fmt.Errorf("%w: size must not be negative", ErrInvalidInput)
	}
	size := filter.Size
	if size == 0 {
		size = s.pageSize
	}
	if size > s.maxPageSize {
		size = s.maxPageSize
	}

	if filter.Page > math.MaxInt/size {
		return nil, fmt.Errorf("%w: page %d out of range", ErrInvalidInput, filter.Page)
	}

	items, total, err := s.store.ListTodosPage(ctx, userID, filter.Completed, size, filter.Page*size)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	today := s.Today()
	for i := range items {
		items[i].IsOverdue = items[i].OverdueOn(today)
	}

	return &types.TodoPage{
		Items:      items,
		Page:       filter.Page,
		Size:       size,
		TotalItems: total,
		TotalPages: int((total + int64(size) - 1) / int64(size)),
	}, nil
}

func (s *Service) withOverdue(todo *types.Todo) *types.Todo {
	todo.IsOverdue = todo.OverdueOn(s.Today())
	return todo
}
