// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"

	"gatherly/internal/middleware"
	"gatherly/internal/model"
	"gatherly/internal/render"
	"gatherly/internal/store"
)

// PageHandler serves the landing page and signed-in hub pages.
type PageHandler struct {
	queries        *store.Queries
	renderer       *render.Renderer
	sessionManager *scs.SessionManager
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager) *PageHandler {
	return &PageHandler{
		queries:        store.New(db),
		renderer:       renderer,
		sessionManager: sm,
	}
}

// Landing renders the public landing page.
// GET /
func (h *PageHandler) Landing(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "landing", render.TemplateData{
		Title: "Gatherly",
	}); err != nil {
		logAndInternalError(w, "failed to render landing page", "error", err)
	}
}

// Home renders the signed-in hub page with role-specific actions.
// GET /home
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "home", render.TemplateData{
		Title: "Home",
		User:  user,
	}); err != nil {
		logAndInternalError(w, "failed to render home page", "error", err)
	}
}

// UserForms renders the signup and login forms.
// GET /user
func (h *PageHandler) UserForms(w http.ResponseWriter, r *http.Request) {
	if err := h.renderer.Render(w, r, "user", render.TemplateData{
		Title: "Sign Up or Log In",
	}); err != nil {
		logAndInternalError(w, "failed to render signup page", "error", err)
	}
}

// DashboardData holds the profile view model. Registrations is populated for
// attendees only.
type DashboardData struct {
	Registrations []store.RegistrationWithEvent
}

// Dashboard renders the profile view, with upcoming registrations for
// attendees.
// GET /dashboard
func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	if user == nil {
		http.Redirect(w, r, redirectLanding, http.StatusSeeOther)
		return
	}

	data := DashboardData{}
	if user.Role == model.RoleAttendee {
		regs, err := h.queries.ListRegistrationsByAttendee(r.Context(), user.ID)
		if err != nil {
			logAndInternalError(w, "failed to list registrations", "error", err, "user_id", user.ID)
			return
		}

		// Keep only events that have not happened yet
		now := time.Now()
		upcoming := regs[:0]
		for _, reg := range regs {
			if !reg.Event.IsPast(now) {
				upcoming = append(upcoming, reg)
			}
		}
		data.Registrations = upcoming
	}

	if err := h.renderer.Render(w, r, "dashboard", render.TemplateData{
		Title: "Dashboard",
		User:  user,
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "failed to render dashboard", "error", err)
	}
}
