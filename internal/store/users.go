// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"gatherly/internal/model"
)

const userColumns = "id, name, email, phone, location, password_hash, role, created_at, last_login_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Location,
		&u.PasswordHash, &u.Role, &u.CreatedAt, &u.LastLoginAt)
	return u, err
}

// CreateUserParams holds the parameters for CreateUser.
type CreateUserParams struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Location     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// CreateUser inserts a new user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, phone, location, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+userColumns,
		arg.ID, arg.Name, arg.Email, arg.Phone, arg.Location,
		arg.PasswordHash, arg.Role, arg.CreatedAt)
	return scanUser(row)
}

// GetUserByEmail looks up a user by email address, the stable session key.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// GetUserByID looks up a user by the derived identifier.
func (q *Queries) GetUserByID(ctx context.Context, id string) (model.User, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// UpdateUserLastLoginParams holds the parameters for UpdateUserLastLogin.
type UpdateUserLastLoginParams struct {
	LastLoginAt sql.NullTime
	ID          string
}

// UpdateUserLastLogin records the time of the user's most recent login.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, arg UpdateUserLastLoginParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ? WHERE id = ?`, arg.LastLoginAt, arg.ID)
	return err
}

// UpdateUserPasswordParams holds the parameters for UpdateUserPassword.
type UpdateUserPasswordParams struct {
	PasswordHash string
	ID           string
}

// UpdateUserPassword replaces a user's password hash. Used when login detects
// a hash created with outdated argon2 parameters.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, arg.PasswordHash, arg.ID)
	return err
}

// CountUsers returns the total number of registered users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// IsUniqueViolation reports whether err is a SQLite unique-constraint failure.
// Signup relies on this to close the check-then-insert race: two concurrent
// signups for the same email both pass the pre-check, but only one insert
// survives the UNIQUE index.
func IsUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
