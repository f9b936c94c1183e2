// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for all routes.
package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"gatherly/internal/middleware"
	"gatherly/internal/model"
	"gatherly/internal/render"
	"gatherly/internal/service"
	"gatherly/internal/store"
)

// AuthHandler handles signup, login and logout.
type AuthHandler struct {
	queries         *store.Queries
	accounts        *service.AccountService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	audit           *service.AuditService
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	queries := store.New(db)
	return &AuthHandler{
		queries:         queries,
		accounts:        service.NewAccountService(queries, logger),
		renderer:        renderer,
		sessionManager:  sm,
		audit:           service.NewAuditService(db),
		loginProtection: lp,
	}
}

// Signup handles the signup form submission.
// POST /user/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectUser) {
		return
	}

	params := service.SignupParams{
		Name:            r.FormValue("name"),
		Email:           r.FormValue("email"),
		Phone:           r.FormValue("phone"),
		Location:        r.FormValue("location"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		Role:            r.FormValue("role"),
	}

	if params.Name == "" || params.Email == "" || params.Password == "" {
		flashError(w, r, h.renderer, redirectUser, "Name, email and password are required")
		return
	}

	clientIP := getClientIP(r)

	user, err := h.accounts.Signup(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			flashError(w, r, h.renderer, redirectUser, "Passwords do not match")
		case errors.Is(err, service.ErrDuplicateUser):
			_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelWarning, "Signup failed: email already registered", "", clientIP, map[string]any{"email": params.Email})
			flashError(w, r, h.renderer, redirectUser, "An account with this email already exists")
		case errors.Is(err, service.ErrInvalidRole):
			flashError(w, r, h.renderer, redirectUser, "Please choose a valid role")
		default:
			slog.Error("signup error", "error", err)
			flashError(w, r, h.renderer, redirectUser, "Could not create account. Please try again.")
		}
		return
	}

	// Sign the new user in so the redirect to /home lands
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserEmail, user.Email)

	_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelInfo, "User signed up", user.ID, clientIP, map[string]any{"email": user.Email, "role": user.Role})

	flashSuccess(w, r, h.renderer, redirectHome, "Welcome to Gatherly, "+user.Name+"!")
}

// Login handles the login form submission.
// POST /user/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectLanding) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, redirectLanding, "Email and password are required")
		return
	}

	clientIP := getClientIP(r)

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelWarning, "Login attempt on locked account", "", clientIP, map[string]any{"email": email})
			flashError(w, r, h.renderer, redirectLanding, "Account temporarily locked. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	user, err := h.accounts.Authenticate(r.Context(), email, password)
	if err != nil {
		// Unknown email and wrong password get the same flash so the form
		// cannot be used to enumerate accounts.
		if errors.Is(err, service.ErrInvalidCredential) || errors.Is(err, service.ErrNotFound) {
			_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelWarning, "Login failed: invalid credentials", "", clientIP, map[string]any{"email": email})
			// Record failed attempt even for non-existent users to prevent enumeration
			if h.loginProtection != nil {
				if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
					flashError(w, r, h.renderer, redirectLanding, "Too many failed attempts. Locked for "+formatDuration(lockDuration)+".")
					return
				}
				remaining := h.loginProtection.GetRemainingAttempts(email)
				if remaining <= 3 && remaining > 0 {
					flashError(w, r, h.renderer, redirectLanding, fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
					return
				}
			}
			flashError(w, r, h.renderer, redirectLanding, "Invalid email or password")
			return
		}
		slog.Error("login error", "error", err)
		flashError(w, r, h.renderer, redirectLanding, "Could not sign in. Please try again.")
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserEmail, user.Email)

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)
	_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelInfo, "User logged in", user.ID, clientIP, map[string]any{"email": user.Email})

	flashSuccess(w, r, h.renderer, redirectHome, "Welcome back, "+user.Name+"!")
}

// Logout handles user logout. Safe to call without a session.
// POST /logout, DELETE /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	email := h.sessionManager.GetString(r.Context(), middleware.SessionKeyUserEmail)

	if email != "" {
		_ = h.audit.LogAuthEvent(r.Context(), model.AuditLevelInfo, "User logged out", middleware.GetUserID(r), getClientIP(r), map[string]any{"email": email})
	}

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}

	flashAndRedirect(w, r, h.renderer, redirectLanding, "You have been signed out", "info")
}

// getClientIP extracts the client IP, preferring reverse proxy headers.
func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		// Only the first entry is the client; the rest are proxies.
		if idx := strings.IndexByte(ip, ','); idx >= 0 {
			ip = ip[:idx]
		}
		return strings.TrimSpace(ip)
	}
	return r.RemoteAddr
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
