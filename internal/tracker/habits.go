package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/types"
	"github.com/hyperengineering/selfhelp/internal/validation"
)

// CreateHabit creates a habit owned by userID with a best streak of zero.
func (s *Service) CreateHabit(ctx context.Context, userID types.UserID, req types.CreateHabitRequest) (*types.Habit, error) {
	if err := invalid(validation.ValidateCreateHabitRequest(req)); err != nil {
		return nil, err
	}

	habit := &types.Habit{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		TargetValue: req.TargetValue,
		CreatedAt:   s.Now(),
	}
	if err := s.store.CreateHabit(ctx, habit); err != nil {
		return nil, fmt.Errorf("create habit: %w", err)
	}
	return habit, nil
}

// ListHabits returns every habit owned by userID.
func (s *Service) ListHabits(ctx context.Context, userID types.UserID) ([]types.Habit, error) {
	habits, err := s.store.ListHabitsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

// GetHabit returns a habit owned by userID.
func (s *Service) GetHabit(ctx context.Context, userID types.UserID, habitID string) (*types.Habit, error) {
	return s.authorizeHabit(ctx, userID, habitID)
}

// UpdateHabit applies the non-nil fields of req.
func (s *Service) UpdateHabit(ctx context.Context, userID types.UserID, habitID string, req types.UpdateHabitRequest) (*types.Habit, error) {
	if err := invalid(validation.ValidateUpdateHabitRequest(req)); err != nil {
		return nil, err
	}
	habit, err := s.authorizeHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		habit.Title = strings.TrimSpace(*req.Title)
	}
	if req.TargetValue != nil {
		habit.TargetValue = *req.TargetValue
	}
	if err := s.store.UpdateHabit(ctx, habit); err != nil {
		return nil, notFound("habit", habitID, err)
	}
	return habit, nil
}

// DeleteHabit removes a habit together with all of its logs.
func (s *Service) DeleteHabit(ctx context.Context, userID types.UserID, habitID string) error {
	if _, err := s.authorizeHabit(ctx, userID, habitID); err != nil {
		return err
	}
	if err := s.store.DeleteHabit(ctx, habitID); err != nil {
		return notFound("habit", habitID, err)
	}
	return nil
}

// LogHabit records today's outcome for a habit. Repeated calls on the same
// day overwrite the same row. When the supplied streak beats the habit's
// best, the best streak is raised.
func (s *Service) LogHabit(ctx context.Context, userID types.UserID, habitID string, req types.HabitLogRequest) (*types.HabitLog, error) {
	if err := invalid(validation.ValidateHabitLogRequest(req)); err != nil {
		return nil, err
	}
	habit, err := s.authorizeHabit(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	today := types.DateOf(now)

	entry, err := s.store.GetHabitLog(ctx, habitID, today)
	switch {
	case errors.Is(err, store.ErrNotFound):
		entry = &types.HabitLog{
			HabitID:   habitID,
			Date:      today,
			CreatedAt: now,
		}
	case err != nil:
		return nil, fmt.Errorf("get habit log: %w", err)
	}

	entry.Status = types.HabitStatus(req.Status)
	entry.CurrentStreak = 0
	if req.CurrentStreak != nil {
		entry.CurrentStreak = *req.CurrentStreak
	}
	entry.MoodAfter = req.MoodAfter
	entry.Notes = req.Notes
	entry.UpdatedAt = now

	created := entry.ID == ""
	stored, err := s.store.UpsertHabitLog(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("save habit log: %w", err)
	}
	slog.Debug("habit log saved",
		"component", "tracker",
		"habit_id", habitID,
		"date", today.String(),
		"created", created,
	)

	if req.CurrentStreak != nil {
		if err := s.maybeRaiseBestStreak(ctx, habit, *req.CurrentStreak); err != nil {
			return nil, err
		}
	}
	return stored, nil
}

// AllHabitLogs returns every log of a habit, newest first.
func (s *Service) AllHabitLogs(ctx context.Context, userID types.UserID, habitID string) ([]types.HabitLog, error) {
	if _, err := s.authorizeHabit(ctx, userID, habitID); err != nil {
		return nil, err
	}
	logs, err := s.store.ListAllHabitLogs(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("list habit logs: %w", err)
	}
	return logs, nil
}
