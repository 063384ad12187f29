package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hyperengineering/selfhelp/internal/types"
)

const goalColumns = `id, user_id, title, start_date, target_date, priority, status, motivation_reason, created_at`

const goalProgressColumns = `id, goal_id, date, today_progress, total_progress, notes, created_at, updated_at`

func scanGoal(scanner interface{ Scan(...any) error }) (*types.Goal, error) {
	var g types.Goal
	var startDate, targetDate sql.NullString
	var createdAt string
	err := scanner.Scan(&g.ID, &g.UserID, &g.Title, &startDate, &targetDate,
		&g.Priority, &g.Status, &g.MotivationReason, &createdAt)
	if err != nil {
		return nil, err
	}
	if g.StartDate, err = parseNullableDate(startDate); err != nil {
		return nil, err
	}
	if g.TargetDate, err = parseNullableDate(targetDate); err != nil {
		return nil, err
	}
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &g, nil
}

func scanGoalProgress(scanner interface{ Scan(...any) error }) (*types.GoalProgress, error) {
	var p types.GoalProgress
	var date, createdAt, updatedAt string
	err := scanner.Scan(&p.ID, &p.GoalID, &date, &p.TodayProgress, &p.TotalProgress,
		&p.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if p.Date, err = types.ParseDate(date); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateGoal inserts a goal, assigning an ID when empty.
func (s *SQLiteStore) CreateGoal(ctx context.Context, goal *types.Goal) error {
	if goal.ID == "" {
		goal.ID = newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, goal.ID, goal.UserID, goal.Title, nullableDate(goal.StartDate), nullableDate(goal.TargetDate),
		goal.Priority, goal.Status, goal.MotivationReason, formatTime(goal.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

// GetGoal retrieves a goal by ID.
func (s *SQLiteStore) GetGoal(ctx context.Context, id string) (*types.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan goal: %w", err)
	}
	return g, nil
}

// ListGoalsByUser returns a user's goals in creation order.
func (s *SQLiteStore) ListGoalsByUser(ctx context.Context, userID types.UserID) ([]types.Goal, error) {
	return s.queryGoals(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID)
}

// ListGoalsByUserAndStatus returns a user's goals in the given status.
func (s *SQLiteStore) ListGoalsByUserAndStatus(ctx context.Context, userID types.UserID, status types.GoalStatus) ([]types.Goal, error) {
	return s.queryGoals(ctx, `
		SELECT `+goalColumns+` FROM goals
		WHERE user_id = ? AND status = ?
		ORDER BY created_at ASC, id ASC
	`, userID, status)
}

func (s *SQLiteStore) queryGoals(ctx context.Context, query string, args ...any) ([]types.Goal, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	goals := []types.Goal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return goals, nil
}

// UpdateGoal writes a goal's editable fields.
func (s *SQLiteStore) UpdateGoal(ctx context.Context, goal *types.Goal) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE goals
		SET title = ?, start_date = ?, target_date = ?, priority = ?, status = ?, motivation_reason = ?
		WHERE id = ?
	`, goal.Title, nullableDate(goal.StartDate), nullableDate(goal.TargetDate),
		goal.Priority, goal.Status, goal.MotivationReason, goal.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return checkAffected(result)
}

// DeleteGoal removes a goal and all of its progress rows in one transaction.
func (s *SQLiteStore) DeleteGoal(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM goal_progress WHERE goal_id = ?`, id); err != nil {
		return fmt.Errorf("delete goal progress: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetGoalProgress retrieves the progress row for a goal on a specific date.
func (s *SQLiteStore) GetGoalProgress(ctx context.Context, goalID string, date types.Date) (*types.GoalProgress, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+goalProgressColumns+` FROM goal_progress
		WHERE goal_id = ? AND date = ?
	`, goalID, date.String())
	p, err := scanGoalProgress(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan goal progress: %w", err)
	}
	return p, nil
}

// UpsertGoalProgress writes the progress row for (goal, date), updating in
// place on conflict, and returns the stored row.
func (s *SQLiteStore) UpsertGoalProgress(ctx context.Context, progress *types.GoalProgress) (*types.GoalProgress, error) {
	if progress.ID == "" {
		progress.ID = newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goal_progress (`+goalProgressColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(goal_id, date) DO UPDATE SET
			today_progress = excluded.today_progress,
			total_progress = excluded.total_progress,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, progress.ID, progress.GoalID, progress.Date.String(), progress.TodayProgress,
		progress.TotalProgress, progress.Notes, formatTime(progress.CreatedAt), formatTime(progress.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("upsert goal progress: %w", err)
	}
	return s.GetGoalProgress(ctx, progress.GoalID, progress.Date)
}

// ListGoalProgress returns a goal's progress with date in [start, end],
// newest first.
func (s *SQLiteStore) ListGoalProgress(ctx context.Context, goalID string, start, end types.Date) ([]types.GoalProgress, error) {
	return s.queryGoalProgress(ctx, `
		SELECT `+goalProgressColumns+` FROM goal_progress
		WHERE goal_id = ? AND date >= ? AND date <= ?
		ORDER BY date DESC
	`, goalID, start.String(), end.String())
}

// ListAllGoalProgress returns every progress row of a goal, newest first.
func (s *SQLiteStore) ListAllGoalProgress(ctx context.Context, goalID string) ([]types.GoalProgress, error) {
	return s.queryGoalProgress(ctx, `
		SELECT `+goalProgressColumns+` FROM goal_progress
		WHERE goal_id = ?
		ORDER BY date DESC
	`, goalID)
}

func (s *SQLiteStore) queryGoalProgress(ctx context.Context, query string, args ...any) ([]types.GoalProgress, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query goal progress: %w", err)
	}
	defer rows.Close()

	progress := []types.GoalProgress{}
	for rows.Next() {
		p, err := scanGoalProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan goal progress: %w", err)
		}
		progress = append(progress, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return progress, nil
}
