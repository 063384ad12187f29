package tracker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// maybeRaiseBestStreak raises habit.BestStreak to observed when observed is
// strictly greater. The store applies the same comparison, so a concurrent
// writer with a lower streak cannot lower it.
func (s *Service) maybeRaiseBestStreak(ctx context.Context, habit *types.Habit, observed int) error {
	if observed <= habit.BestStreak {
		return nil
	}
	raised, err := s.store.RaiseBestStreak(ctx, habit.ID, observed)
	if err != nil {
		return fmt.Errorf("raise best streak: %w", err)
	}
	if raised {
		slog.Debug("best streak raised",
			"component", "tracker",
			"habit_id", habit.ID,
			"from", habit.BestStreak,
			"to", observed,
		)
		habit.BestStreak = observed
	}
	return nil
}
