package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// productivityDays is the length of the trailing daily series.
const productivityDays = 7

// TodoStats aggregates the user's whole to-do set. An empty set yields zero
// counts and a zero-filled daily series.
func (s *Service) TodoStats(ctx context.Context, userID types.UserID) (*types.TodoStats, error) {
	todos, err := s.store.ListTodosByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return computeStats(todos, s.Now()), nil
}

// computeStats is the pure aggregation behind TodoStats. now carries the
// location that defines calendar days.
func computeStats(todos []types.Todo, now time.Time) *types.TodoStats {
	loc := now.Location()
	today := types.DateOf(now)
	weekEnd := today.AddDays(7)

	st := &types.TodoStats{TotalTodos: int64(len(todos))}
	for _, t := range todos {
		if t.Completed {
			st.CompletedTodos++
		}
		if t.OverdueOn(today) {
			st.OverdueTodos++
		}
		if !t.DueDate.IsZero() {
			if t.DueDate == today {
				st.TodayTodos++
			}
			if t.DueDate.Between(today, weekEnd) {
				st.WeekTodos++
			}
		}
		countCategory(&st.CategoryStats, t.Category)
		if !t.Completed {
			countPriority(&st.PriorityStats, t.Priority)
		}
	}
	st.PendingTodos = st.TotalTodos - st.CompletedTodos
	if st.TotalTodos > 0 {
		rate := float64(st.CompletedTodos) / float64(st.TotalTodos) * 100
		st.CompletionRate = math.Round(rate*10) / 10
	}

	st.ProductivityStats = productivity(todos, now, today, loc)
	return st
}

func productivity(todos []types.Todo, now time.Time, today types.Date, loc *time.Location) types.ProductivityStats {
	startOfToday := today.In(loc)
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	var p types.ProductivityStats
	var minutes, timed int
	for _, t := range todos {
		if t.CompletedAt != nil {
			at := *t.CompletedAt
			if !at.Before(startOfToday) {
				p.CompletedToday++
			}
			if !at.Before(weekAgo) {
				p.CompletedThisWeek++
			}
			if !at.Before(monthAgo) {
				p.CompletedThisMonth++
			}
		}
		if t.Completed && t.ActualMinutes != nil {
			minutes += *t.ActualMinutes
			timed++
		}
	}
	if timed > 0 {
		p.AvgCompletionTime = minutes / timed
	}

	p.Last7Days = make([]types.DailyProductivity, 0, productivityDays)
	for i := productivityDays - 1; i >= 0; i-- {
		day := today.AddDays(-i)
		start := day.In(loc)
		end := time.Date(day.Year, day.Month, day.Day, 23, 59, 59, 0, loc)

		entry := types.DailyProductivity{Date: day}
		for _, t := range todos {
			if t.CompletedAt != nil && within(*t.CompletedAt, start, end) {
				entry.Completed++
			}
			if within(t.CreatedAt, start, end) {
				entry.Created++
			}
		}
		p.Last7Days = append(p.Last7Days, entry)
	}
	return p
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func countCategory(c *types.CategoryStats, category types.TodoCategory) {
	switch category {
	case types.CategoryPersonal:
		c.Personal++
	case types.CategoryWork:
		c.Work++
	case types.CategoryHealth:
		c.Health++
	case types.CategoryLearning:
		c.Learning++
	case types.CategoryShopping:
		c.Shopping++
	case types.CategoryOther:
		c.Other++
	}
}

func countPriority(p *types.PriorityStats, priority types.TodoPriority) {
	switch priority {
	case types.PriorityLow:
		p.Low++
	case types.PriorityMedium:
		p.Medium++
	case types.PriorityHigh:
		p.High++
	case types.PriorityUrgent:
		p.Urgent++
	}
}
