package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperengineering/selfhelp/internal/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, s *SQLiteStore, email string) *types.User {
	t.Helper()
	u := &types.User{Email: email, Name: "Test", Role: types.RoleUser, CreatedAt: time.Now()}
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	return u
}

func createTestHabit(t *testing.T, s *SQLiteStore, userID types.UserID) *types.Habit {
	t.Helper()
	h := &types.Habit{UserID: userID, Title: "Read", CreatedAt: time.Now()}
	if err := s.CreateHabit(context.Background(), h); err != nil {
		t.Fatal(err)
	}
	return h
}

func TestStore_NewSQLiteStore(t *testing.T) {
	db := newTestStore(t)

	version, err := SchemaVersion(db.DB())
	if err != nil {
		t.Fatal(err)
	}
	if version < 1 {
		t.Errorf("schema version = %d, want >= 1", version)
	}
}

func TestStore_NewSQLiteStore_CreatesParentDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/selfhelp.db"

	db, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()
}

// --- Users ---

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	createTestUser(t, s, "a@example.com")

	err := s.CreateUser(context.Background(), &types.User{Email: "a@example.com", CreatedAt: time.Now()})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestUserLookups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")

	if err := s.UpdateUserCredentials(ctx, u.ID, types.RoleAdmin, "hash-1"); err != nil {
		t.Fatal(err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if byEmail.ID != u.ID || byEmail.Role != types.RoleAdmin {
		t.Errorf("GetUserByEmail = %+v", byEmail)
	}

	byToken, err := s.GetUserByTokenHash(ctx, "hash-1")
	if err != nil {
		t.Fatal(err)
	}
	if byToken.Email != "a@example.com" {
		t.Errorf("GetUserByTokenHash email = %q", byToken.Email)
	}

	if _, err := s.GetUserByTokenHash(ctx, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty token hash: expected ErrNotFound, got %v", err)
	}
	if _, err := s.GetUserByEmail(ctx, "missing@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing email: expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateUserCredentials(ctx, "nope", types.RoleUser, "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing user update: expected ErrNotFound, got %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Errorf("ListUsers len = %d, want 1", len(users))
	}
}

// --- Habits ---

func TestUpsertHabitLog_OneRowPerDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	h := createTestHabit(t, s, u.ID)
	day := types.Date{Year: 2025, Month: time.May, Day: 17}
	now := time.Now()

	first, err := s.UpsertHabitLog(ctx, &types.HabitLog{
		HabitID: h.ID, Date: day, Status: types.HabitCompleted, CurrentStreak: 1,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}

	// A second insert with a fresh ID for the same day must land on the same row.
	second, err := s.UpsertHabitLog(ctx, &types.HabitLog{
		HabitID: h.ID, Date: day, Status: types.HabitSkipped, CurrentStreak: 4, Notes: "tired",
		CreatedAt: now.Add(time.Minute), UpdatedAt: now.Add(time.Minute),
	})
	if err != nil {
		t.Fatal(err)
	}

	if second.ID != first.ID {
		t.Errorf("upsert created a second row: %s vs %s", second.ID, first.ID)
	}
	if second.Status != types.HabitSkipped || second.CurrentStreak != 4 || second.Notes != "tired" {
		t.Errorf("fields not overwritten: %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on update: %v -> %v", first.CreatedAt, second.CreatedAt)
	}

	all, err := s.ListAllHabitLogs(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 log row, got %d", len(all))
	}
}

func TestListHabitLogs_InclusiveRangeNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	h := createTestHabit(t, s, u.ID)
	base := types.Date{Year: 2025, Month: time.May, Day: 10}
	now := time.Now()

	for i := 0; i < 5; i++ {
		_, err := s.UpsertHabitLog(ctx, &types.HabitLog{
			HabitID: h.ID, Date: base.AddDays(i), Status: types.HabitCompleted,
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	logs, err := s.ListHabitLogs(ctx, h.ID, base.AddDays(1), base.AddDays(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	if logs[0].Date != base.AddDays(3) || logs[2].Date != base.AddDays(1) {
		t.Errorf("unexpected order: %v, %v, %v", logs[0].Date, logs[1].Date, logs[2].Date)
	}

	empty, err := s.ListHabitLogs(ctx, h.ID, base.AddDays(20), base.AddDays(30))
	if err != nil {
		t.Fatal(err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", empty)
	}
}

func TestRaiseBestStreak_NeverDecreases(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	h := createTestHabit(t, s, u.ID)

	steps := []struct {
		streak      int
		wantChanged bool
		wantBest    int
	}{
		{1, true, 1},
		{3, true, 3},
		{2, false, 3},
		{3, false, 3},
		{0, false, 3},
	}

	for _, step := range steps {
		changed, err := s.RaiseBestStreak(ctx, h.ID, step.streak)
		if err != nil {
			t.Fatal(err)
		}
		if changed != step.wantChanged {
			t.Errorf("RaiseBestStreak(%d) changed = %v, want %v", step.streak, changed, step.wantChanged)
		}
		got, err := s.GetHabit(ctx, h.ID)
		if err != nil {
			t.Fatal(err)
		}
		if got.BestStreak != step.wantBest {
			t.Errorf("after %d best = %d, want %d", step.streak, got.BestStreak, step.wantBest)
		}
	}
}

func TestDeleteHabit_RemovesLogs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	h := createTestHabit(t, s, u.ID)
	now := time.Now()

	_, err := s.UpsertHabitLog(ctx, &types.HabitLog{
		HabitID: h.ID, Date: types.DateOf(now), Status: types.HabitCompleted,
		CreatedAt: now, UpdatedAt: now,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteHabit(ctx, h.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetHabit(ctx, h.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	logs, err := s.ListAllHabitLogs(ctx, h.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 0 {
		t.Errorf("expected logs removed, got %d", len(logs))
	}

	if err := s.DeleteHabit(ctx, h.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestHabitLogs_ForeignKeyRestrictsOrphans(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	_, err := s.UpsertHabitLog(context.Background(), &types.HabitLog{
		HabitID: "does-not-exist", Date: types.DateOf(now), Status: types.HabitCompleted,
		CreatedAt: now, UpdatedAt: now,
	})
	if err == nil {
		t.Error("expected foreign key violation for unknown habit")
	}
}

// --- Goals ---

func TestGoals_StatusFilterAndProgressUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	now := time.Now()

	active := &types.Goal{UserID: u.ID, Title: "Run 10k", Status: types.GoalInProgress,
		StartDate: types.Date{Year: 2025, Month: time.January, Day: 1}, CreatedAt: now}
	paused := &types.Goal{UserID: u.ID, Title: "Learn piano", Status: types.GoalPaused, CreatedAt: now}
	for _, g := range []*types.Goal{active, paused} {
		if err := s.CreateGoal(ctx, g); err != nil {
			t.Fatal(err)
		}
	}

	inProgress, err := s.ListGoalsByUserAndStatus(ctx, u.ID, types.GoalInProgress)
	if err != nil {
		t.Fatal(err)
	}
	if len(inProgress) != 1 || inProgress[0].ID != active.ID {
		t.Errorf("status filter returned %+v", inProgress)
	}
	if inProgress[0].StartDate != active.StartDate || !inProgress[0].TargetDate.IsZero() {
		t.Errorf("dates not round-tripped: %+v", inProgress[0])
	}

	day := types.DateOf(now)
	for _, total := range []int{10, 25} {
		_, err := s.UpsertGoalProgress(ctx, &types.GoalProgress{
			GoalID: active.ID, Date: day, TodayProgress: 5, TotalProgress: total,
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.GetGoalProgress(ctx, active.ID, day)
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalProgress != 25 {
		t.Errorf("TotalProgress = %d, want 25", got.TotalProgress)
	}
	rows, err := s.ListGoalProgress(ctx, active.ID, day.AddDays(-7), day)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Errorf("expected 1 progress row, got %d", len(rows))
	}

	if err := s.DeleteGoal(ctx, active.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetGoalProgress(ctx, active.ID, day); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected progress removed with goal, got %v", err)
	}
}

// --- Todos ---

func TestTodos_RoundTripNullableColumns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	now := time.Date(2025, time.May, 17, 9, 30, 0, 123, time.UTC)
	est := 30

	todo := &types.Todo{
		UserID: u.ID, Title: "Buy milk", Priority: types.PriorityHigh, Category: types.CategoryShopping,
		DueDate: types.Date{Year: 2025, Month: time.May, Day: 18}, EstimatedMinutes: &est,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := s.CreateTodo(ctx, todo); err != nil {
		t.Fatal(err)
	}

	got, err := s.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Completed || got.CompletedAt != nil || got.ActualMinutes != nil {
		t.Errorf("unexpected completion fields: %+v", got)
	}
	if got.EstimatedMinutes == nil || *got.EstimatedMinutes != 30 {
		t.Errorf("EstimatedMinutes = %v", got.EstimatedMinutes)
	}
	if !got.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, now)
	}

	completedAt := now.Add(time.Hour)
	actual := 45
	got.Completed = true
	got.CompletedAt = &completedAt
	got.ActualMinutes = &actual
	got.UpdatedAt = completedAt
	if err := s.UpdateTodo(ctx, got); err != nil {
		t.Fatal(err)
	}

	again, err := s.GetTodo(ctx, todo.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.Completed || again.CompletedAt == nil || !again.CompletedAt.Equal(completedAt) {
		t.Errorf("completion not persisted: %+v", again)
	}
	if again.ActualMinutes == nil || *again.ActualMinutes != 45 {
		t.Errorf("ActualMinutes = %v", again.ActualMinutes)
	}
}

func TestListTodosPage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := createTestUser(t, s, "a@example.com")
	other := createTestUser(t, s, "b@example.com")
	base := time.Date(2025, time.May, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		created := base.Add(time.Duration(i) * time.Hour)
		todo := &types.Todo{
			UserID: u.ID, Title: "t", Priority: types.PriorityLow, Category: types.CategoryWork,
			Completed: i%2 == 0, CreatedAt: created, UpdatedAt: created,
		}
		if err := s.CreateTodo(ctx, todo); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.CreateTodo(ctx, &types.Todo{UserID: other.ID, Title: "x", Priority: types.PriorityLow,
		Category: types.CategoryWork, CreatedAt: base, UpdatedAt: base}); err != nil {
		t.Fatal(err)
	}

	page, total, err := s.ListTodosPage(ctx, u.ID, nil, 2, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 5 || len(page) != 2 {
		t.Fatalf("total=%d len=%d, want 5 and 2", total, len(page))
	}
	if !page[0].CreatedAt.After(page[1].CreatedAt) {
		t.Error("expected newest first")
	}

	done := true
	completed, total, err := s.ListTodosPage(ctx, u.ID, &done, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(completed) != 3 {
		t.Errorf("completed filter total=%d len=%d, want 3", total, len(completed))
	}

	all, err := s.ListTodosByUser(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 5 {
		t.Errorf("ListTodosByUser len = %d, want 5", len(all))
	}

	stats, err := s.GetStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Users != 2 || stats.Todos != 6 {
		t.Errorf("GetStats = %+v", stats)
	}
}
