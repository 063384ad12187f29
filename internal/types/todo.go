package types

import "time"

// TodoPriority ranks a to-do's urgency.
type TodoPriority string

const (
	PriorityLow    TodoPriority = "LOW"
	PriorityMedium TodoPriority = "MEDIUM"
	PriorityHigh   TodoPriority = "HIGH"
	PriorityUrgent TodoPriority = "URGENT"
)

// TodoPriorities lists every valid TodoPriority.
func TodoPriorities() []string {
	return []string{
		string(PriorityLow),
		string(PriorityMedium),
		string(PriorityHigh),
		string(PriorityUrgent),
	}
}

// TodoCategory classifies a to-do.
type TodoCategory string

const (
	CategoryPersonal TodoCategory = "PERSONAL"
	CategoryWork     TodoCategory = "WORK"
	CategoryHealth   TodoCategory = "HEALTH"
	CategoryLearning TodoCategory = "LEARNING"
	CategoryShopping TodoCategory = "SHOPPING"
	CategoryOther    TodoCategory = "OTHER"
)

// TodoCategories lists every valid TodoCategory.
func TodoCategories() []string {
	return []string{
		string(CategoryPersonal),
		string(CategoryWork),
		string(CategoryHealth),
		string(CategoryLearning),
		string(CategoryShopping),
		string(CategoryOther),
	}
}

// Todo is a single task owned by a user.
type Todo struct {
	ID               string       `json:"id"`
	UserID           UserID       `json:"user_id"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	Priority         TodoPriority `json:"priority"`
	Category         TodoCategory `json:"category"`
	Completed        bool         `json:"completed"`
	DueDate          Date         `json:"due_date"`
	CompletedAt      *time.Time   `json:"completed_at"`
	EstimatedMinutes *int         `json:"estimated_minutes"`
	ActualMinutes    *int         `json:"actual_minutes"`
	Tags             string       `json:"tags,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`

	// IsOverdue is derived at read time and never stored.
	IsOverdue bool `json:"is_overdue"`
}

// OverdueOn reports whether the to-do is pending with a due date strictly
// before today.
func (t Todo) OverdueOn(today Date) bool {
	return !t.Completed && !t.DueDate.IsZero() && t.DueDate.Before(today)
}

// CreateTodoRequest is the body of POST /todos.
type CreateTodoRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Priority         string `json:"priority"`
	Category         string `json:"category"`
	DueDate          Date   `json:"due_date"`
	EstimatedMinutes *int   `json:"estimated_minutes"`
	Tags             string `json:"tags"`
}

// UpdateTodoRequest is the body of PUT /todos/{id}. It replaces every
// editable field; empty priority or category keep the stored value.
type UpdateTodoRequest struct {
	Title            string `json:"title"`
	Description      string `json:"description"`
	Priority         string `json:"priority"`
	Category         string `json:"category"`
	DueDate          Date   `json:"due_date"`
	EstimatedMinutes *int   `json:"estimated_minutes"`
	Tags             string `json:"tags"`
}

// ToggleTodoRequest is the optional body of PATCH /todos/{id}/toggle.
type ToggleTodoRequest struct {
	ActualMinutes *int `json:"actual_minutes"`
}

// TodoFilter narrows a paginated to-do listing.
type TodoFilter struct {
	Completed *bool
	Page      int
	Size      int
}

// TodoPage is one page of a user's to-dos, newest first.
type TodoPage struct {
	Items      []Todo `json:"items"`
	Page       int    `json:"page"`
	Size       int    `json:"size"`
	TotalItems int64  `json:"total_items"`
	TotalPages int    `json:"total_pages"`
}

// TodoStats summarizes a user's whole to-do set.
type TodoStats struct {
	TotalTodos        int64             `json:"total_todos"`
	CompletedTodos    int64             `json:"completed_todos"`
	PendingTodos      int64             `json:"pending_todos"`
	OverdueTodos      int64             `json:"overdue_todos"`
	TodayTodos        int64             `json:"today_todos"`
	WeekTodos         int64             `json:"week_todos"`
	CompletionRate    float64           `json:"completion_rate"`
	CategoryStats     CategoryStats     `json:"category_stats"`
	PriorityStats     PriorityStats     `json:"priority_stats"`
	ProductivityStats ProductivityStats `json:"productivity_stats"`
}

// CategoryStats counts to-dos per category.
type CategoryStats struct {
	Personal int64 `json:"personal"`
	Work     int64 `json:"work"`
	Health   int64 `json:"health"`
	Learning int64 `json:"learning"`
	Shopping int64 `json:"shopping"`
	Other    int64 `json:"other"`
}

// PriorityStats counts pending to-dos per priority.
type PriorityStats struct {
	Low    int64 `json:"low"`
	Medium int64 `json:"medium"`
	High   int64 `json:"high"`
	Urgent int64 `json:"urgent"`
}

// ProductivityStats describes completion activity over recent windows.
type ProductivityStats struct {
	CompletedToday     int64               `json:"completed_today"`
	CompletedThisWeek  int64               `json:"completed_this_week"`
	CompletedThisMonth int64               `json:"completed_this_month"`
	AvgCompletionTime  int                 `json:"avg_completion_time"`
	Last7Days          []DailyProductivity `json:"last_7_days"`
}

// DailyProductivity is one day of the trailing productivity series.
type DailyProductivity struct {
	Date      Date  `json:"date"`
	Completed int64 `json:"completed"`
	Created   int64 `json:"created"`
}
