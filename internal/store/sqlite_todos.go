package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hyperengineering/selfhelp/internal/types"
)

const todoColumns = `id, user_id, title, description, priority, category, completed,
	due_date, completed_at, estimated_minutes, actual_minutes, tags, created_at, updated_at`

func scanTodo(scanner interface{ Scan(...any) error }) (*types.Todo, error) {
	var t types.Todo
	var dueDate, completedAt sql.NullString
	var estimated, actual sql.NullInt64
	var createdAt, updatedAt string

	err := scanner.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.Priority, &t.Category,
		&t.Completed, &dueDate, &completedAt, &estimated, &actual, &t.Tags, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if t.DueDate, err = parseNullableDate(dueDate); err != nil {
		return nil, err
	}
	if t.CompletedAt, err = parseNullableTime(completedAt); err != nil {
		return nil, err
	}
	t.EstimatedMinutes = parseNullableInt(estimated)
	t.ActualMinutes = parseNullableInt(actual)
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTodo inserts a to-do, assigning an ID when empty.
func (s *SQLiteStore) CreateTodo(ctx context.Context, todo *types.Todo) error {
	if todo.ID == "" {
		todo.ID = newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (`+todoColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, todo.ID, todo.UserID, todo.Title, todo.Description, todo.Priority, todo.Category,
		todo.Completed, nullableDate(todo.DueDate), nullableTime(todo.CompletedAt),
		nullableInt(todo.EstimatedMinutes), nullableInt(todo.ActualMinutes), todo.Tags,
		formatTime(todo.CreatedAt), formatTime(todo.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// GetTodo retrieves a to-do by ID.
func (s *SQLiteStore) GetTodo(ctx context.Context, id string) (*types.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+todoColumns+` FROM todos WHERE id = ?`, id)
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}
	return t, nil
}

// UpdateTodo writes every mutable column of a to-do.
func (s *SQLiteStore) UpdateTodo(ctx context.Context, todo *types.Todo) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE todos SET
			title = ?, description = ?, priority = ?, category = ?, completed = ?,
			due_date = ?, completed_at = ?, estimated_minutes = ?, actual_minutes = ?,
			tags = ?, updated_at = ?
		WHERE id = ?
	`, todo.Title, todo.Description, todo.Priority, todo.Category, todo.Completed,
		nullableDate(todo.DueDate), nullableTime(todo.CompletedAt),
		nullableInt(todo.EstimatedMinutes), nullableInt(todo.ActualMinutes),
		todo.Tags, formatTime(todo.UpdatedAt), todo.ID)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return checkAffected(result)
}

// DeleteTodo removes a to-do.
func (s *SQLiteStore) DeleteTodo(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return checkAffected(result)
}

// ListTodosByUser returns every to-do a user owns, newest first.
func (s *SQLiteStore) ListTodosByUser(ctx context.Context, userID types.UserID) ([]types.Todo, error) {
	return s.queryTodos(ctx, `
		SELECT `+todoColumns+` FROM todos
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
}

// ListTodosPage returns one page of a user's to-dos, newest first, plus the
// total number of matching rows. A nil completed matches both states.
func (s *SQLiteStore) ListTodosPage(ctx context.Context, userID types.UserID, completed *bool, limit, offset int) ([]types.Todo, int64, error) {
	where := `WHERE user_id = ?`
	args := []any{userID}
	if completed != nil {
		where += ` AND completed = ?`
		args = append(args, *completed)
	}

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count todos: %w", err)
	}

	todos, err := s.queryTodos(ctx, `
		SELECT `+todoColumns+` FROM todos `+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	return todos, total, nil
}

func (s *SQLiteStore) queryTodos(ctx context.Context, query string, args ...any) ([]types.Todo, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	todos := []types.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return todos, nil
}
