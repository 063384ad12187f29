// Package client is a Go client for the selfhelp HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hyperengineering/selfhelp/internal/types"
)

// FieldError is one entry of a 422 response's errors list.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx response decoded from its Problem Details body.
type APIError struct {
	Status int          `json:"status"`
	Type   string       `json:"type"`
	Title  string       `json:"title"`
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("selfhelp: %d %s", e.Status, e.Title)
	}
	return fmt.Sprintf("selfhelp: %d %s: %s", e.Status, e.Title, e.Detail)
}

// Client calls the selfhelp API on behalf of one token holder.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// New creates a Client for the server at baseURL. token may be empty for
// calls to public endpoints.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health checks server health. It needs no token.
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	return call[types.HealthResponse](ctx, c, http.MethodGet, "/api/v1/health", nil)
}

// Me returns the account the token belongs to.
func (c *Client) Me(ctx context.Context) (*types.User, error) {
	return call[types.User](ctx, c, http.MethodGet, "/api/v1/me", nil)
}

// --- habits ---

func (c *Client) CreateHabit(ctx context.Context, req types.CreateHabitRequest) (*types.Habit, error) {
	return call[types.Habit](ctx, c, http.MethodPost, "/api/v1/habits", req)
}

func (c *Client) ListHabits(ctx context.Context) ([]types.Habit, error) {
	return callList[types.Habit](ctx, c, http.MethodGet, "/api/v1/habits", nil)
}

func (c *Client) GetHabit(ctx context.Context, id string) (*types.Habit, error) {
	return call[types.Habit](ctx, c, http.MethodGet, "/api/v1/habits/"+url.PathEscape(id), nil)
}

func (c *Client) DeleteHabit(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/habits/"+url.PathEscape(id), nil, nil)
}

// LogHabit records today's entry for a habit, replacing any earlier entry
// for the same day.
func (c *Client) LogHabit(ctx context.Context, id string, req types.HabitLogRequest) (*types.HabitLog, error) {
	return call[types.HabitLog](ctx, c, http.MethodPost, "/api/v1/habits/"+url.PathEscape(id)+"/logs", req)
}

// HabitHistory returns the logs of the last days days. A nil days uses the
// server default.
func (c *Client) HabitHistory(ctx context.Context, id string, days *int) ([]types.HabitLog, error) {
	return callList[types.HabitLog](ctx, c, http.MethodGet, "/api/v1/habits/"+url.PathEscape(id)+"/logs"+daysQuery(days), nil)
}

func (c *Client) AllHabitLogs(ctx context.Context, id string) ([]types.HabitLog, error) {
	return callList[types.HabitLog](ctx, c, http.MethodGet, "/api/v1/habits/"+url.PathEscape(id)+"/logs/all", nil)
}

// HabitDashboard returns the dashboard for date, or for the server's today
// when date is zero.
func (c *Client) HabitDashboard(ctx context.Context, date types.Date) (*types.HabitDashboard, error) {
	return call[types.HabitDashboard](ctx, c, http.MethodGet, "/api/v1/habits/today"+dateQuery(date), nil)
}

// --- goals ---

func (c *Client) CreateGoal(ctx context.Context, req types.CreateGoalRequest) (*types.Goal, error) {
	return call[types.Goal](ctx, c, http.MethodPost, "/api/v1/goals", req)
}

func (c *Client) ListGoals(ctx context.Context) ([]types.Goal, error) {
	return callList[types.Goal](ctx, c, http.MethodGet, "/api/v1/goals", nil)
}

func (c *Client) LogGoalProgress(ctx context.Context, id string, req types.GoalProgressRequest) (*types.GoalProgress, error) {
	return call[types.GoalProgress](ctx, c, http.MethodPost, "/api/v1/goals/"+url.PathEscape(id)+"/progress", req)
}

func (c *Client) GoalHistory(ctx context.Context, id string, days *int) ([]types.GoalProgress, error) {
	return callList[types.GoalProgress](ctx, c, http.MethodGet, "/api/v1/goals/"+url.PathEscape(id)+"/progress"+daysQuery(days), nil)
}

func (c *Client) AllGoalProgress(ctx context.Context, id string) ([]types.GoalProgress, error) {
	return callList[types.GoalProgress](ctx, c, http.MethodGet, "/api/v1/goals/"+url.PathEscape(id)+"/progress/all", nil)
}

func (c *Client) GoalDashboard(ctx context.Context, date types.Date) (*types.GoalDashboard, error) {
	return call[types.GoalDashboard](ctx, c, http.MethodGet, "/api/v1/goals/dashboard"+dateQuery(date), nil)
}

// --- todos ---

func (c *Client) CreateTodo(ctx context.Context, req types.CreateTodoRequest) (*types.Todo, error) {
	return call[types.Todo](ctx, c, http.MethodPost, "/api/v1/todos", req)
}

// ListTodos returns one page of to-dos. Zero Page and Size use the server
// defaults.
func (c *Client) ListTodos(ctx context.Context, filter types.TodoFilter) (*types.TodoPage, error) {
	q := url.Values{}
	if filter.Page != 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Size != 0 {
		q.Set("size", strconv.Itoa(filter.Size))
	}
	if filter.Completed != nil {
		q.Set("completed", strconv.FormatBool(*filter.Completed))
	}
	path := "/api/v1/todos"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	return call[types.TodoPage](ctx, c, http.MethodGet, path, nil)
}

// ToggleTodo flips completion. actualMinutes is recorded only when the
// to-do becomes completed and may be nil.
func (c *Client) ToggleTodo(ctx context.Context, id string, actualMinutes *int) (*types.Todo, error) {
	var body any
	if actualMinutes != nil {
		body = types.ToggleTodoRequest{ActualMinutes: actualMinutes}
	}
	return call[types.Todo](ctx, c, http.MethodPatch, "/api/v1/todos/"+url.PathEscape(id)+"/toggle", body)
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/todos/"+url.PathEscape(id), nil, nil)
}

func (c *Client) TodoStats(ctx context.Context) (*types.TodoStats, error) {
	return call[types.TodoStats](ctx, c, http.MethodGet, "/api/v1/todos/stats", nil)
}

// do sends an authenticated request and decodes a 2xx body into out.
// Non-2xx responses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Title: http.StatusText(resp.StatusCode)}
		// A body that is not Problem Details still yields the status.
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		apiErr.Status = resp.StatusCode
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// call sends a request and decodes the response into a new T.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (*T, error) {
	var out T
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func callList[T any](ctx context.Context, c *Client, method, path string, body any) ([]T, error) {
	var out []T
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func daysQuery(days *int) string {
	if days == nil {
		return ""
	}
	return "?days=" + strconv.Itoa(*days)
}

func dateQuery(d types.Date) string {
	if d.IsZero() {
		return ""
	}
	return "?date=" + d.String()
}
