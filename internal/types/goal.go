package types

import "time"

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	GoalNotStarted GoalStatus = "not_started"
	GoalInProgress GoalStatus = "in_progress"
	GoalPaused     GoalStatus = "paused"
	GoalCompleted  GoalStatus = "completed"
)

// GoalStatuses lists every valid GoalStatus.
func GoalStatuses() []string {
	return []string{
		string(GoalNotStarted),
		string(GoalInProgress),
		string(GoalPaused),
		string(GoalCompleted),
	}
}

// GoalPriorities lists the accepted goal priority labels.
func GoalPriorities() []string {
	return []string{"Low", "Medium", "High"}
}

// Goal is a user-owned objective tracked through cumulative progress.
type Goal struct {
	ID               string     `json:"id"`
	UserID           UserID     `json:"user_id"`
	Title            string     `json:"title"`
	StartDate        Date       `json:"start_date"`
	TargetDate       Date       `json:"target_date"`
	Priority         string     `json:"priority,omitempty"`
	Status           GoalStatus `json:"status"`
	MotivationReason string     `json:"motivation_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// GoalProgress is the single progress record for one goal on one calendar day.
type GoalProgress struct {
	ID            string    `json:"id"`
	GoalID        string    `json:"goal_id"`
	Date          Date      `json:"date"`
	TodayProgress int       `json:"today_progress"`
	TotalProgress int       `json:"total_progress"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateGoalRequest is the body of POST /goals.
type CreateGoalRequest struct {
	Title            string `json:"title"`
	StartDate        Date   `json:"start_date"`
	TargetDate       Date   `json:"target_date"`
	Priority         string `json:"priority"`
	Status           string `json:"status"`
	MotivationReason string `json:"motivation_reason"`
}

// UpdateGoalRequest is the body of PUT /goals/{id}. Nil fields are left
// unchanged.
type UpdateGoalRequest struct {
	Title            *string `json:"title"`
	TargetDate       *Date   `json:"target_date"`
	Priority         *string `json:"priority"`
	Status           *string `json:"status"`
	MotivationReason *string `json:"motivation_reason"`
}

// GoalProgressRequest is the body of POST /goals/{id}/progress. The date is
// always the server's current day.
type GoalProgressRequest struct {
	TodayProgress int    `json:"today_progress"`
	TotalProgress int    `json:"total_progress"`
	Notes         string `json:"notes"`
}

// GoalDayEntry pairs a goal with its progress for the dashboard date.
type GoalDayEntry struct {
	Goal          Goal          `json:"goal"`
	TodayProgress *GoalProgress `json:"today_progress"`
}

// GoalDashboard is the per-day view of a user's in-progress goals.
type GoalDashboard struct {
	Date  Date           `json:"date"`
	Goals []GoalDayEntry `json:"goals"`
}
