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

// CreateGoal creates a goal owned by userID. Status defaults to in_progress
// and the start date to today.
func (s *Service) CreateGoal(ctx context.Context, userID types.UserID, req types.CreateGoalRequest) (*types.Goal, error) {
	if err := invalid(validation.ValidateCreateGoalRequest(req)); err != nil {
		return nil, err
	}

	now := s.Now()
	goal := &types.Goal{
		UserID:           userID,
		Title:            strings.TrimSpace(req.Title),
		StartDate:        req.StartDate,
		TargetDate:       req.TargetDate,
		Priority:         req.Priority,
		Status:           types.GoalStatus(req.Status),
		MotivationReason: req.MotivationReason,
		CreatedAt:        now,
	}
	if goal.Status == "" {
		goal.Status = types.GoalInProgress
	}
	if goal.StartDate.IsZero() {
		goal.StartDate = types.DateOf(now)
		if !goal.TargetDate.IsZero() && goal.TargetDate.Before(goal.StartDate) {
			return nil, invalid([]validation.ValidationError{{
				Field:   "target_date",
				Message: "must not be before start_date",
			}})
		}
	}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns every goal owned by userID.
func (s *Service) ListGoals(ctx context.Context, userID types.UserID) ([]types.Goal, error) {
	goals, err := s.store.ListGoalsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// GetGoal returns a goal owned by userID.
func (s *Service) GetGoal(ctx context.Context, userID types.UserID, goalID string) (*types.Goal, error) {
	return s.authorizeGoal(ctx, userID, goalID)
}

// UpdateGoal applies the non-nil fields of req.
func (s *Service) UpdateGoal(ctx context.Context, userID types.UserID, goalID string, req types.UpdateGoalRequest) (*types.Goal, error) {
	goal, err := s.authorizeGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}
	if err := invalid(validation.ValidateUpdateGoalRequest(req, goal.StartDate)); err != nil {
		return nil, err
	}

	if req.Title != nil {
		goal.Title = strings.TrimSpace(*req.Title)
	}
	if req.TargetDate != nil {
		goal.TargetDate = *req.TargetDate
	}
	if req.Priority != nil {
		goal.Priority = *req.Priority
	}
	if req.Status != nil {
		goal.Status = types.GoalStatus(*req.Status)
	}
	if req.MotivationReason != nil {
		goal.MotivationReason = *req.MotivationReason
	}
	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		return nil, notFound("goal", goalID, err)
	}
	return goal, nil
}

// DeleteGoal removes a goal together with all of its progress rows.
func (s *Service) DeleteGoal(ctx context.Context, userID types.UserID, goalID string) error {
	if _, err := s.authorizeGoal(ctx, userID, goalID); err != nil {
		return err
	}
	if err := s.store.DeleteGoal(ctx, goalID); err != nil {
		return notFound("goal", goalID, err)
	}
	return nil
}

// LogGoalProgress records today's progress for a goal. Repeated calls on the
// same day overwrite the same row.
func (s *Service) LogGoalProgress(ctx context.Context, userID types.UserID, goalID string, req types.GoalProgressRequest) (*types.GoalProgress, error) {
	if err := invalid(validation.ValidateGoalProgressRequest(req)); err != nil {
		return nil, err
	}
	if _, err := s.authorizeGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}

	now := s.Now()
	today := types.DateOf(now)

	entry, err := s.store.GetGoalProgress(ctx, goalID, today)
	switch {
	case errors.Is(err, store.ErrNotFound):
		entry = &types.GoalProgress{
			GoalID:    goalID,
			Date:      today,
			CreatedAt: now,
		}
	case err != nil:
		return nil, fmt.Errorf("get goal progress: %w", err)
	}

	entry.TodayProgress = req.TodayProgress
	entry.TotalProgress = req.TotalProgress
	entry.Notes = req.Notes
	entry.UpdatedAt = now

	created := entry.ID == ""
	stored, err := s.store.UpsertGoalProgress(ctx, entry)
	if err != nil {
		return nil, fmt.Errorf("save goal progress: %w", err)
	}
	slog.Debug("goal progress saved",
		"component", "tracker",
		"goal_id", goalID,
		"date", today.String(),
		"created", created,
	)
	return stored, nil
}

// AllGoalProgress returns every progress row of a goal, newest first.
func (s *Service) AllGoalProgress(ctx context.Context, userID types.UserID, goalID string) ([]types.GoalProgress, error) {
	if _, err := s.authorizeGoal(ctx, userID, goalID); err != nil {
		return nil, err
	}
	rows, err := s.store.ListAllGoalProgress(ctx, goalID)
	if err != nil {
		return nil, fmt.Errorf("list goal progress: %w", err)
	}
	return rows, nil
}
