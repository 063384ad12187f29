package types

import "time"

// UserID is the durable identifier of an account. Every owned resource
// references its owner through this type regardless of how the caller
// authenticated.
type UserID string

// Role is the authorization role attached to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is a registered account.
type User struct {
	ID        UserID    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	TokenHash string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreStats holds row counts reported by the health endpoint.
type StoreStats struct {
	Users  int64 `json:"users"`
	Habits int64 `json:"habits"`
	Goals  int64 `json:"goals"`
	Todos  int64 `json:"todos"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string     `json:"status"`
	Version string     `json:"version"`
	Stats   StoreStats `json:"stats"`
}
