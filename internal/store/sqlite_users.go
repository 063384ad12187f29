package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hyperengineering/selfhelp/internal/types"
)

const userColumns = `id, email, name, role, token_hash, created_at`

func scanUser(scanner interface{ Scan(...any) error }) (*types.User, error) {
	var u types.User
	var createdAt string
	if err := scanner.Scan(&u.ID, &u.Email, &u.Name, &u.Role, &u.TokenHash, &createdAt); err != nil {
		return nil, err
	}
	t, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = t
	return &u, nil
}

// CreateUser inserts a user, assigning an ID when empty.
// Returns ErrConflict if the email is already registered.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *types.User) error {
	if user.ID == "" {
		user.ID = types.UserID(newID())
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.Name, user.Role, user.TokenHash, formatTime(user.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// GetUserByTokenHash retrieves the user holding the given API token hash.
func (s *SQLiteStore) GetUserByTokenHash(ctx context.Context, tokenHash string) (*types.User, error) {
	if tokenHash == "" {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE token_hash = ?`, tokenHash)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

// UpdateUserCredentials replaces a user's role and token hash.
func (s *SQLiteStore) UpdateUserCredentials(ctx context.Context, id types.UserID, role types.Role, tokenHash string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET role = ?, token_hash = ? WHERE id = ?
	`, role, tokenHash, id)
	if err != nil {
		return fmt.Errorf("update user credentials: %w", err)
	}
	return checkAffected(result)
}

// ListUsers returns every user ordered by email.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]types.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY email`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []types.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return users, nil
}
