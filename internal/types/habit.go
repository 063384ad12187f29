package types

import "time"

// HabitStatus is the outcome recorded for a habit on a given day.
type HabitStatus string

const (
	HabitCompleted HabitStatus = "completed"
	HabitSkipped   HabitStatus = "skipped"
	HabitFailed    HabitStatus = "failed"
)

// HabitStatuses lists every valid HabitStatus.
func HabitStatuses() []string {
	return []string{string(HabitCompleted), string(HabitSkipped), string(HabitFailed)}
}

// Habit is a recurring practice owned by a user.
type Habit struct {
	ID          string    `json:"id"`
	UserID      UserID    `json:"user_id"`
	Title       string    `json:"title"`
	TargetValue string    `json:"target_value,omitempty"`
	BestStreak  int       `json:"best_streak"`
	CreatedAt   time.Time `json:"created_at"`
}

// HabitLog is the single record for one habit on one calendar day.
type HabitLog struct {
	ID            string      `json:"id"`
	HabitID       string      `json:"habit_id"`
	Date          Date        `json:"date"`
	Status        HabitStatus `json:"status"`
	CurrentStreak int         `json:"current_streak"`
	MoodAfter     string      `json:"mood_after,omitempty"`
	Notes         string      `json:"notes,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// CreateHabitRequest is the body of POST /habits.
type CreateHabitRequest struct {
	Title       string `json:"title"`
	TargetValue string `json:"target_value"`
}

// UpdateHabitRequest is the body of PUT /habits/{id}. Nil fields are left
// unchanged.
type UpdateHabitRequest struct {
	Title       *string `json:"title"`
	TargetValue *string `json:"target_value"`
}

// HabitLogRequest is the body of POST /habits/{id}/logs. The date is always
// the server's current day.
type HabitLogRequest struct {
	Status        string `json:"status"`
	CurrentStreak *int   `json:"current_streak"`
	MoodAfter     string `json:"mood_after"`
	Notes         string `json:"notes"`
}

// HabitDayEntry pairs a habit with its log for the dashboard date.
type HabitDayEntry struct {
	Habit    Habit     `json:"habit"`
	TodayLog *HabitLog `json:"today_log"`
}

// HabitDashboard is the per-day view of every habit a user owns.
type HabitDashboard struct {
	Date   Date            `json:"date"`
	Habits []HabitDayEntry `json:"habits"`
}
