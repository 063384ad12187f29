package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hyperengineering/selfhelp/internal/types"
)

const habitColumns = `id, user_id, title, target_value, best_streak, created_at`

const habitLogColumns = `id, habit_id, date, status, current_streak, mood_after, notes, created_at, updated_at`

func scanHabit(scanner interface{ Scan(...any) error }) (*types.Habit, error) {
	var h types.Habit
	var createdAt string
	if err := scanner.Scan(&h.ID, &h.UserID, &h.Title, &h.TargetValue, &h.BestStreak, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	h.CreatedAt = t
	return &h, nil
}

func scanHabitLog(scanner interface{ Scan(...any) error }) (*types.HabitLog, error) {
	var l types.HabitLog
	var date, createdAt, updatedAt string
	err := scanner.Scan(&l.ID, &l.HabitID, &date, &l.Status, &l.CurrentStreak,
		&l.MoodAfter, &l.Notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if l.Date, err = types.ParseDate(date); err != nil {
		return nil, err
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// CreateHabit inserts a habit, assigning an ID when empty.
func (s *SQLiteStore) CreateHabit(ctx context.Context, habit *types.Habit) error {
	if habit.ID == "" {
		habit.ID = newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, habit.ID, habit.UserID, habit.Title, habit.TargetValue, habit.BestStreak, formatTime(habit.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert habit: %w", err)
	}
	return nil
}

// GetHabit retrieves a habit by ID.
func (s *SQLiteStore) GetHabit(ctx context.Context, id string) (*types.Habit, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan habit: %w", err)
	}
	return h, nil
}

// ListHabitsByUser returns a user's habits in creation order.
func (s *SQLiteStore) ListHabitsByUser(ctx context.Context, userID types.UserID) ([]types.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+habitColumns+` FROM habits
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	habits := []types.Habit{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return habits, nil
}

// UpdateHabit writes a habit's editable fields. Best streak is only ever
// changed through RaiseBestStreak.
func (s *SQLiteStore) UpdateHabit(ctx context.Context, habit *types.Habit) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE habits SET title = ?, target_value = ? WHERE id = ?
	`, habit.Title, habit.TargetValue, habit.ID)
	if err != nil {
		return fmt.Errorf("update habit: %w", err)
	}
	return checkAffected(result)
}

// RaiseBestStreak sets best_streak to streak only when streak is strictly
// greater than the stored value. Reports whether the row changed.
func (s *SQLiteStore) RaiseBestStreak(ctx context.Context, habitID string, streak int) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE habits SET best_streak = ? WHERE id = ? AND best_streak < ?
	`, streak, habitID, streak)
	if err != nil {
		return false, fmt.Errorf("raise best streak: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("get rows affected: %w", err)
	}
	return n > 0, nil
}

// DeleteHabit removes a habit and all of its logs in one transaction.
func (s *SQLiteStore) DeleteHabit(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM habit_logs WHERE habit_id = ?`, id); err != nil {
		return fmt.Errorf("delete habit logs: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete habit: %w", err)
	}
	if err := checkAffected(result); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// GetHabitLog retrieves the log for a habit on a specific date.
func (s *SQLiteStore) GetHabitLog(ctx context.Context, habitID string, date types.Date) (*types.HabitLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+habitLogColumns+` FROM habit_logs
		WHERE habit_id = ? AND date = ?
	`, habitID, date.String())
	l, err := scanHabitLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan habit log: %w", err)
	}
	return l, nil
}

// UpsertHabitLog writes the log for (habit, date). A concurrent writer for
// the same key updates the existing row instead of inserting a second one;
// the row that ends up stored is returned.
func (s *SQLiteStore) UpsertHabitLog(ctx context.Context, log *types.HabitLog) (*types.HabitLog, error) {
	if log.ID == "" {
		log.ID = newID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habit_logs (`+habitLogColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, date) DO UPDATE SET
			status = excluded.status,
			current_streak = excluded.current_streak,
			mood_after = excluded.mood_after,
			notes = excluded.notes,
			updated_at = excluded.updated_at
	`, log.ID, log.HabitID, log.Date.String(), log.Status, log.CurrentStreak,
		log.MoodAfter, log.Notes, formatTime(log.CreatedAt), formatTime(log.UpdatedAt))
	if err != nil {
		return nil, fmt.Errorf("upsert habit log: %w", err)
	}
	return s.GetHabitLog(ctx, log.HabitID, log.Date)
}

// ListHabitLogs returns a habit's logs with date in [start, end], newest first.
func (s *SQLiteStore) ListHabitLogs(ctx context.Context, habitID string, start, end types.Date) ([]types.HabitLog, error) {
	return s.queryHabitLogs(ctx, `
		SELECT `+habitLogColumns+` FROM habit_logs
		WHERE habit_id = ? AND date >= ? AND date <= ?
		ORDER BY date DESC
	`, habitID, start.String(), end.String())
}

// ListAllHabitLogs returns every log of a habit, newest first.
func (s *SQLiteStore) ListAllHabitLogs(ctx context.Context, habitID string) ([]types.HabitLog, error) {
	return s.queryHabitLogs(ctx, `
		SELECT `+habitLogColumns+` FROM habit_logs
		WHERE habit_id = ?
		ORDER BY date DESC
	`, habitID)
}

func (s *SQLiteStore) queryHabitLogs(ctx context.Context, query string, args ...any) ([]types.HabitLog, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query habit logs: %w", err)
	}
	defer rows.Close()

	logs := []types.HabitLog{}
	for rows.Next() {
		l, err := scanHabitLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan habit log: %w", err)
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return logs, nil
}
