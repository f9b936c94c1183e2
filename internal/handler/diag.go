// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"gatherly/internal/middleware"
	"gatherly/internal/store"
)

// DiagHandler serves development-only inspection endpoints.
// These routes must never be registered in production.
type DiagHandler struct {
	queries        *store.Queries
	sessionManager *scs.SessionManager
}

// NewDiagHandler creates a new DiagHandler.
func NewDiagHandler(db *sql.DB, sm *scs.SessionManager) *DiagHandler {
	return &DiagHandler{
		queries:        store.New(db),
		sessionManager: sm,
	}
}

// Query dumps the signed-in organizer's raw event rows as JSON.
// GET /query (development only)
func (h *DiagHandler) Query(w http.ResponseWriter, r *http.Request) {
	email := h.sessionManager.GetString(r.Context(), middleware.SessionKeyUserEmail)
	if email == "" {
		writeJSONError(w, http.StatusUnauthorized, "not signed in")
		return
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			writeJSONError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "query failed")
		return
	}

	events, err := h.queries.ListEventsByOrganizer(r.Context(), user.ID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSONSuccess(w, map[string]any{"events": events})
}

// Test dumps all event rows as JSON.
// GET /test (development only)
func (h *DiagHandler) Test(w http.ResponseWriter, r *http.Request) {
	events, err := h.queries.ListEvents(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "query failed")
		return
	}
	writeJSONSuccess(w, map[string]any{"events": events})
}
