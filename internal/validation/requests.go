package validation

import (
	"github.com/hyperengineering/selfhelp/internal/types"
)

// Field limits for user-supplied text.
const (
	MaxTitleLength       = 200
	MaxTargetLength      = 500
	MaxMoodLength        = 50
	MaxNotesLength       = 2000
	MaxMotivationLength  = 2000
	MaxDescriptionLength = 1000
	MaxTagsLength        = 500
)

// ValidateCreateHabitRequest validates a habit creation request.
func ValidateCreateHabitRequest(req types.CreateHabitRequest) []ValidationError {
	var c Collector
	validateTitle(&c, "title", req.Title)
	c.Add(ValidateText("target_value", req.TargetValue, MaxTargetLength))
	return c.Errors()
}

// ValidateUpdateHabitRequest validates a partial habit update. Only fields
// that are present are checked.
func ValidateUpdateHabitRequest(req types.UpdateHabitRequest) []ValidationError {
	var c Collector
	if req.Title != nil {
		validateTitle(&c, "title", *req.Title)
	}
	if req.TargetValue != nil {
		c.Add(ValidateText("target_value", *req.TargetValue, MaxTargetLength))
	}
	return c.Errors()
}

// ValidateHabitLogRequest validates a daily habit log.
func ValidateHabitLogRequest(req types.HabitLogRequest) []ValidationError {
	var c Collector
	if err := ValidateRequired("status", req.Status); err != nil {
		c.Add(err)
	} else {
		c.Add(ValidateEnum("status", req.Status, types.HabitStatuses()))
	}
	if req.CurrentStreak != nil {
		c.Add(ValidateMin("current_streak", *req.CurrentStreak, 0))
	}
	c.Add(ValidateText("mood_after", req.MoodAfter, MaxMoodLength))
	c.Add(ValidateText("notes", req.Notes, MaxNotesLength))
	return c.Errors()
}

// ValidateCreateGoalRequest validates a goal creation request.
func ValidateCreateGoalRequest(req types.CreateGoalRequest) []ValidationError {
	var c Collector
	validateTitle(&c, "title", req.Title)
	if req.Priority != "" {
		c.Add(ValidateEnum("priority", req.Priority, types.GoalPriorities()))
	}
	if req.Status != "" {
		c.Add(ValidateEnum("status", req.Status, types.GoalStatuses()))
	}
	c.Add(ValidateText("motivation_reason", req.MotivationReason, MaxMotivationLength))
	c.Add(ValidateDateOrder("target_date", req.StartDate, req.TargetDate))
	return c.Errors()
}

// ValidateUpdateGoalRequest validates a partial goal update. The target date
// is checked against start, the goal's stored start date.
func ValidateUpdateGoalRequest(req types.UpdateGoalRequest, start types.Date) []ValidationError {
	var c Collector
	if req.Title != nil {
		validateTitle(&c, "title", *req.Title)
	}
	if req.Priority != nil && *req.Priority != "" {
		c.Add(ValidateEnum("priority", *req.Priority, types.GoalPriorities()))
	}
	if req.Status != nil {
		c.Add(ValidateEnum("status", *req.Status, types.GoalStatuses()))
	}
	if req.MotivationReason != nil {
		c.Add(ValidateText("motivation_reason", *req.MotivationReason, MaxMotivationLength))
	}
	if req.TargetDate != nil {
		c.Add(ValidateDateOrder("target_date", start, *req.TargetDate))
	}
	return c.Errors()
}

// ValidateGoalProgressRequest validates a daily goal progress entry.
func ValidateGoalProgressRequest(req types.GoalProgressRequest) []ValidationError {
	var c Collector
	c.Add(ValidateMin("today_progress", req.TodayProgress, 0))
	c.Add(ValidateMin("total_progress", req.TotalProgress, 0))
	c.Add(ValidateText("notes", req.Notes, MaxNotesLength))
	return c.Errors()
}

// ValidateCreateTodoRequest validates a to-do creation request.
func ValidateCreateTodoRequest(req types.CreateTodoRequest) []ValidationError {
	return validateTodoFields(req.Title, req.Description, req.Priority, req.Category, req.Tags, req.EstimatedMinutes)
}

// ValidateUpdateTodoRequest validates a full to-do update.
func ValidateUpdateTodoRequest(req types.UpdateTodoRequest) []ValidationError {
	return validateTodoFields(req.Title, req.Description, req.Priority, req.Category, req.Tags, req.EstimatedMinutes)
}

// ValidateToggleTodoRequest validates the optional toggle body.
func ValidateToggleTodoRequest(req types.ToggleTodoRequest) []ValidationError {
	var c Collector
	if req.ActualMinutes != nil {
		c.Add(ValidateMin("actual_minutes", *req.ActualMinutes, 0))
	}
	return c.Errors()
}

// ValidateDateOrder returns an error if end precedes start. Zero dates are
// not compared.
func ValidateDateOrder(field string, start, end types.Date) *ValidationError {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(start) {
		return &ValidationError{
			Field:   field,
			Message: "must not be before start_date",
		}
	}
	return nil
}

func validateTitle(c *Collector, field, value string) {
	if err := ValidateRequired(field, value); err != nil {
		c.Add(err)
		return
	}
	c.Add(ValidateText(field, value, MaxTitleLength))
}

func validateTodoFields(title, description, priority, category, tags string, estimated *int) []ValidationError {
	var c Collector
	validateTitle(&c, "title", title)
	c.Add(ValidateText("description", description, MaxDescriptionLength))
	if priority != "" {
		c.Add(ValidateEnum("priority", priority, types.TodoPriorities()))
	}
	if category != "" {
		c.Add(ValidateEnum("category", category, types.TodoCategories()))
	}
	c.Add(ValidateText("tags", tags, MaxTagsLength))
	if estimated != nil {
		c.Add(ValidateMin("estimated_minutes", *estimated, 0))
	}
	return c.Errors()
}
