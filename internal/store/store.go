package store

import (
	"context"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// Store defines the persistence contract used by the identity and tracker
// layers. Implementations never apply ownership rules; callers do.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *types.User) error
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	GetUserByTokenHash(ctx context.Context, tokenHash string) (*types.User, error)
	UpdateUserCredentials(ctx context.Context, id types.UserID, role types.Role, tokenHash string) error
	ListUsers(ctx context.Context) ([]types.User, error)

	// Habits and their daily logs
	CreateHabit(ctx context.Context, habit *types.Habit) error
	GetHabit(ctx context.Context, id string) (*types.Habit, error)
	ListHabitsByUser(ctx context.Context, userID types.UserID) ([]types.Habit, error)
	UpdateHabit(ctx context.Context, habit *types.Habit) error
	RaiseBestStreak(ctx context.Context, habitID string, streak int) (bool, error)
	DeleteHabit(ctx context.Context, id string) error
	GetHabitLog(ctx context.Context, habitID string, date types.Date) (*types.HabitLog, error)
	UpsertHabitLog(ctx context.Context, log *types.HabitLog) (*types.HabitLog, error)
	ListHabitLogs(ctx context.Context, habitID string, start, end types.Date) ([]types.HabitLog, error)
	ListAllHabitLogs(ctx context.Context, habitID string) ([]types.HabitLog, error)

	// Goals and their daily progress
	CreateGoal(ctx context.Context, goal *types.Goal) error
	GetGoal(ctx context.Context, id string) (*types.Goal, error)
	ListGoalsByUser(ctx context.Context, userID types.UserID) ([]types.Goal, error)
	ListGoalsByUserAndStatus(ctx context.Context, userID types.UserID, status types.GoalStatus) ([]types.Goal, error)
	UpdateGoal(ctx context.Context, goal *types.Goal) error
	DeleteGoal(ctx context.Context, id string) error
	GetGoalProgress(ctx context.Context, goalID string, date types.Date) (*types.GoalProgress, error)
	UpsertGoalProgress(ctx context.Context, progress *types.GoalProgress) (*types.GoalProgress, error)
	ListGoalProgress(ctx context.Context, goalID string, start, end types.Date) ([]types.GoalProgress, error)
	ListAllGoalProgress(ctx context.Context, goalID string) ([]types.GoalProgress, error)

	// Todos
	CreateTodo(ctx context.Context, todo *types.Todo) error
	GetTodo(ctx context.Context, id string) (*types.Todo, error)
	UpdateTodo(ctx context.Context, todo *types.Todo) error
	DeleteTodo(ctx context.Context, id string) error
	ListTodosByUser(ctx context.Context, userID types.UserID) ([]types.Todo, error)
	ListTodosPage(ctx context.Context, userID types.UserID, completed *bool, limit, offset int) ([]types.Todo, int64, error)

	GetStats(ctx context.Context) (*types.StoreStats, error)
	Close() error
}
