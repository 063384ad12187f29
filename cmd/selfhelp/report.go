package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hyperengineering/selfhelp/internal/identity"
	"github.com/hyperengineering/selfhelp/internal/store"
	"github.com/hyperengineering/selfhelp/internal/types"
)

var (
	reportEmail string
	reportDate  string
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			MarginTop(1)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	rowStyle = lipgloss.NewStyle().
			PaddingLeft(2)
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a user's daily dashboard",
	Long:  "Open the database directly and print the habit dashboard, goal dashboard and to-do statistics for one user and day.",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportEmail, "email", "",
		"Email of the user to report on (required)")
	reportCmd.Flags().StringVar(&reportDate, "date", "",
		"Day to report as YYYY-MM-DD (default: today)")
	reportCmd.MarkFlagRequired("email")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var date types.Date
	if reportDate != "" {
		d, err := types.ParseDate(reportDate)
		if err != nil {
			return err
		}
		date = d
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	userID, err := identity.NewService(db, cfg.Auth.AdminEmails).ResolveUserID(ctx, reportEmail)
	if err != nil {
		return err
	}
	engine, err := newTracker(cfg, db)
	if err != nil {
		return err
	}

	habits, err := engine.HabitDashboard(ctx, userID, date)
	if err != nil {
		return err
	}
	goals, err := engine.GoalDashboard(ctx, userID, date)
	if err != nil {
		return err
	}
	stats, err := engine.TodoStats(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderReport(identity.NormalizeEmail(reportEmail), habits, goals, stats))
	return nil
}

func renderReport(email string, habits *types.HabitDashboard, goals *types.GoalDashboard, stats *types.TodoStats) string {
	sections := []string{
		titleStyle.Render(fmt.Sprintf("Daily report for %s on %s", email, habits.Date)),
		sectionStyle.Render("Habits"),
	}

	if len(habits.Habits) == 0 {
		sections = append(sections, rowStyle.Render(pendingStyle.Render("no habits")))
	}
	for _, e := range habits.Habits {
		status := pendingStyle.Render("not logged")
		if e.TodayLog != nil {
			status = doneStyle.Render(fmt.Sprintf("%s (streak %d)", e.TodayLog.Status, e.TodayLog.CurrentStreak))
		}
		sections = append(sections, rowStyle.Render(
			fmt.Sprintf("%s  %s  best %d", e.Habit.Title, status, e.Habit.BestStreak)))
	}

	sections = append(sections, sectionStyle.Render("Goals in progress"))
	if len(goals.Goals) == 0 {
		sections = append(sections, rowStyle.Render(pendingStyle.Render("no goals in progress")))
	}
	for _, e := range goals.Goals {
		progress := pendingStyle.Render("no progress today")
		if e.TodayProgress != nil {
			progress = doneStyle.Render(fmt.Sprintf("+%d today, %d total", e.TodayProgress.TodayProgress, e.TodayProgress.TotalProgress))
		}
		target := ""
		if !e.Goal.TargetDate.IsZero() {
			target = "  due " + e.Goal.TargetDate.String()
		}
		sections = append(sections, rowStyle.Render(
			fmt.Sprintf("%s  %s%s", e.Goal.Title, progress, target)))
	}

	sections = append(sections,
		sectionStyle.Render("To-dos"),
		rowStyle.Render(fmt.Sprintf("%d total, %d completed, %d pending, %d overdue",
			stats.TotalTodos, stats.CompletedTodos, stats.PendingTodos, stats.OverdueTodos)),
		rowStyle.Render(fmt.Sprintf("completion rate %.1f%%, %d due today, %d due this week",
			stats.CompletionRate, stats.TodayTodos, stats.WeekTodos)),
		rowStyle.Render(fmt.Sprintf("completed today %d, this week %d, avg %d min",
			stats.ProductivityStats.CompletedToday,
			stats.ProductivityStats.CompletedThisWeek,
			stats.ProductivityStats.AvgCompletionTime)),
		rowStyle.Render("last 7 days "+dailyCounts(stats.ProductivityStats.Last7Days)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// dailyCounts renders completed counts per day, oldest first.
func dailyCounts(days []types.DailyProductivity) string {
	counts := make([]string, len(days))
	for i, d := range days {
		counts[i] = fmt.Sprintf("%d", d.Completed)
	}
	return strings.Join(counts, " ")
}
