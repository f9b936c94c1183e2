// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service contains business logic shared by handlers and background jobs.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gatherly/internal/auth"
	"gatherly/internal/model"
	"gatherly/internal/store"
)

// AccountService implements signup and credential verification on top of the
// user store.
type AccountService struct {
	queries *store.Queries
	logger  *slog.Logger
}

// NewAccountService creates a new account service.
func NewAccountService(queries *store.Queries, logger *slog.Logger) *AccountService {
	return &AccountService{queries: queries, logger: logger}
}

// SignupParams holds the fields collected by the signup form.
type SignupParams struct {
	Name            string
	Email           string
	Phone           string
	Location        string
	Password        string
	ConfirmPassword string
	Role            string
}

// Signup validates the form, hashes the password and inserts the user.
// The confirmation check runs before the duplicate check so a mismatched
// form never reveals whether the email is taken.
func (s *AccountService) Signup(ctx context.Context, params SignupParams) (model.User, error) {
	if params.Password != params.ConfirmPassword {
		return model.User{}, ErrPasswordMismatch
	}
	if !model.IsValidRole(params.Role) {
		return model.User{}, ErrInvalidRole
	}

	if _, err := s.queries.GetUserByEmail(ctx, params.Email); err == nil {
		return model.User{}, ErrDuplicateUser
	} else if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, fmt.Errorf("checking existing user: %w", err)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}

	user, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		ID:           auth.DeriveUserID(params.Email),
		Name:         params.Name,
		Email:        params.Email,
		Phone:        params.Phone,
		Location:     params.Location,
		PasswordHash: hash,
		Role:         params.Role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		// The UNIQUE constraint on email closes the race between the
		// existence check above and this insert.
		if store.IsUniqueViolation(err) {
			return model.User{}, ErrDuplicateUser
		}
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate verifies the credentials and, on success, records the login
// time and transparently upgrades hashes produced with older parameters.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	user, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return model.User{}, ErrInvalidCredential
	}

	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: newHash,
				ID:           user.ID,
			}); err != nil {
				s.logger.Warn("Failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}

	now := time.Now()
	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{
		LastLoginAt: sql.NullTime{Time: now, Valid: true},
		ID:          user.ID,
	}); err != nil {
		s.logger.Warn("Failed to update last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = sql.NullTime{Time: now, Valid: true}

	return user, nil
}
