// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"gatherly/internal/model"
	"gatherly/internal/store"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for user data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyRequestPath ContextKey = "request_path"
)

// SessionKeyUserEmail is the session key holding the signed-in principal.
const SessionKeyUserEmail = "user_email"

// Auth creates middleware that requires an authenticated session.
// Anonymous requests are redirected to the landing page.
func Auth(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := sm.GetString(r.Context(), SessionKeyUserEmail)
			if email == "" {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAnonymous creates middleware that bounces signed-in users to their
// home page. Used on the landing and auth form routes.
func RequireAnonymous(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sm.GetString(r.Context(), SessionKeyUserEmail) != "" {
				http.Redirect(w, r, "/home", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// LoadUser creates middleware that loads the current user into the request
// context. The row is re-queried on every request so role and profile changes
// take effect immediately. Should be used after Auth middleware.
func LoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := sm.GetString(r.Context(), SessionKeyUserEmail)
			if email == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByEmail(r.Context(), email)
			if err != nil {
				// The row is gone. The session is stale, destroy it.
				_ = sm.Destroy(r.Context())
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalLoadUser creates middleware that loads the current user into context
// when a session exists, without redirecting otherwise. Used on public routes
// where user context is useful but not required.
func OptionalLoadUser(sm *scs.SessionManager, db *sql.DB) func(http.Handler) http.Handler {
	queries := store.New(db)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := sm.GetString(r.Context(), SessionKeyUserEmail)
			if email == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := queries.GetUserByEmail(r.Context(), email)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *model.User {
	user, ok := r.Context().Value(ContextKeyUser).(model.User)
	if !ok {
		return nil
	}
	return &user
}

// GetUserID returns the current user's ID from context, or "" if not found.
// Safe to use in logging where a zero value is acceptable.
func GetUserID(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.ID
	}
	return ""
}

// GetUserEmail returns the current user's email from context, or "" if not found.
func GetUserEmail(r *http.Request) string {
	if user := GetUser(r); user != nil {
		return user.Email
	}
	return ""
}

// RequireRole creates middleware that requires an exact user role.
// Roles are flat, not hierarchical: an organizer is not a superset of an
// attendee. Users with the wrong role are sent back to their home page.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r)
			if user == nil {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}

			if user.Role != role {
				slog.Warn("access denied",
					"method", r.Method,
					"path", r.URL.Path,
					"user_id", user.ID,
					"user_role", user.Role,
					"required_role", role,
					"remote_addr", r.RemoteAddr,
				)
				http.Redirect(w, r, "/home", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOrganizer creates middleware that requires the ORGANIZER role.
func RequireOrganizer() func(http.Handler) http.Handler {
	return RequireRole(model.RoleOrganizer)
}

// RequireAttendee creates middleware that requires the ATTENDEE role.
func RequireAttendee() func(http.Handler) http.Handler {
	return RequireRole(model.RoleAttendee)
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
