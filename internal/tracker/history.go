package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// HabitHistory returns a habit's logs dated within the last days days,
// today included, newest first. A nil days uses the configured default;
// zero means today only.
func (s *Service) HabitHistory(ctx context.Context, userID types.UserID, habitID string, days *int) ([]types.HabitLog, error) {
	if _, err := s.authorizeHabit(ctx, userID, habitID); err != nil {
		return nil, err
	}
	start, end, err := s.window(days)
	if err != nil {
		return nil, err
	}
	logs, err := s.store.ListHabitLogs(ctx, habitID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list habit logs: %w", err)
	}
	return logs, nil
}

// GoalHistory returns a goal's progress rows dated within the last days
// days, today included, newest first.
func (s *Service) GoalHistory(ctx context.Context, userID types.UserID, goalID string, days *int) ([]types.GoalProgress, error) {
	if _, err := s.authorizeGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	start, end, err := s.window(days)
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListGoalProgress(ctx, goalID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list goal progress: %w", err)
	}
	return rows, nil
}

// window returns the inclusive range [today-days, today].
func (s *Service) window(days *int) (types.Date, types.Date, error) {
	n := s.historyDays
	if days != nil {
		n = *days
	}
	if n < 0 {
		return types.Date{}, types.Date{}, fmt.Errorf("%w: days must not be negative", ErrInvalidInput)
	}
	today := s.Today()
	// Any window reaching past year one covers every storable date.
	if n >= 366*today.Year {
		return types.Date{Year: 1, Month: time.January, Day: 1}, today, nil
	}
	return today.AddDays(-n), today, nil
}
