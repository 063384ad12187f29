package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler, authn Authenticator) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(authn))
			r.Get("/me", h.Me)

			r.Route("/habits", func(r chi.Router) {
				r.Get("/", h.ListHabits)
				r.Post("/", h.CreateHabit)
				r.Get("/today", h.HabitDashboard)
				r.Get("/{id}", h.GetHabit)
				r.Put("/{id}", h.UpdateHabit)
				r.Delete("/{id}", h.DeleteHabit)
				r.Post("/{id}/logs", h.LogHabit)
				r.Get("/{id}/logs", h.HabitHistory)
				r.Get("/{id}/logs/all", h.AllHabitLogs)
			})

			r.Route("/goals", func(r chi.Router) {
				r.Get("/", h.ListGoals)
				r.Post("/", h.CreateGoal)
				r.Get("/dashboard", h.GoalDashboard)
				r.Get("/{id}", h.GetGoal)
				r.Put("/{id}", h.UpdateGoal)
				r.Delete("/{id}", h.DeleteGoal)
				r.Post("/{id}/progress", h.LogGoalProgress)
				r.Get("/{id}/progress", h.GoalHistory)
				r.Get("/{id}/progress/all", h.AllGoalProgress)
			})

			r.Route("/todos", func(r chi.Router) {
				r.Get("/", h.ListTodos)
				r.Post("/", h.CreateTodo)
				r.Get("/stats", h.TodoStats)
				r.Get("/{id}", h.GetTodo)
				r.Put("/{id}", h.UpdateTodo)
				r.Patch("/{id}/toggle", h.ToggleTodo)
				r.Delete("/{id}", h.DeleteTodo)
			})
		})
	})

	return r
}
