package tracker

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/types"
)

// HabitDashboard pairs each of the user's habits with its log for date, or
// nil when none was recorded. A zero date means today.
func (s *Service) HabitDashboard(ctx context.Context, userID types.UserID, date types.Date) (*types.HabitDashboard, error) {
	if date.IsZero() {
		date = s.Today()
	}
	habits, err := s.store.ListHabitsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}

	entries := make([]types.HabitDayEntry, 0, len(habits))
	for _, h := range habits {
		entry, err := s.store.GetHabitLog(ctx, h.ID, date)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("get habit log: %w", err)
		}
		entries = append(entries, types.HabitDayEntry{Habit: h, TodayLog: entry})
	}
	return &types.HabitDashboard{Date: date, Habits: entries}, nil
}

// GoalDashboard pairs each of the user's in-progress goals with its progress
// for date, or nil when none was recorded. A zero date means today.
func (s *Service) GoalDashboard(ctx context.Context, userID types.UserID, date types.Date) (*types.GoalDashboard, error) {
	if date.IsZero() {
		date = s.Today()
	}
	goals, err := s.store.ListGoalsByUserAndStatus(ctx, userID, types.GoalInProgress)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}

	entries := make([]types.GoalDayEntry, 0, len(goals))
	for _, g := range goals {
		progress, err := s.store.GetGoalProgress(ctx, g.ID, date)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("get goal progress: %w", err)
		}
		entries = append(entries, types.GoalDayEntry{Goal: g, TodayProgress: progress})
	}
	return &types.GoalDashboard{Date: date, Goals: entries}, nil
}
