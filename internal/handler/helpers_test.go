// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"gatherly/internal/auth"
	"gatherly/internal/middleware"
	"gatherly/internal/model"
	"gatherly/internal/render"
	"gatherly/internal/store"
)

// testDB creates an in-memory SQLite database with the required schema.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			phone TEXT NOT NULL DEFAULT '',
			location TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_login_at DATETIME
		);
		CREATE INDEX idx_users_role ON users(role);

		CREATE TABLE sessions (
			token TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			expiry REAL NOT NULL
		);
		CREATE INDEX idx_sessions_expiry ON sessions(expiry);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			event_type TEXT NOT NULL DEFAULT '',
			venue TEXT NOT NULL DEFAULT '',
			fee INTEGER NOT NULL DEFAULT 0,
			organizer_id TEXT NOT NULL,
			event_date DATETIME NOT NULL,
			event_time TEXT NOT NULL DEFAULT '',
			registration_deadline DATETIME NOT NULL,
			status TEXT NOT NULL DEFAULT 'SCHEDULED',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (organizer_id) REFERENCES users(id)
		);
		CREATE INDEX idx_events_organizer_id ON events(organizer_id);
		CREATE INDEX idx_events_status ON events(status);

		CREATE TABLE registrations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			reference TEXT NOT NULL UNIQUE,
			attendee_id TEXT NOT NULL,
			event_id INTEGER NOT NULL,
			registration_date DATETIME NOT NULL,
			payment_status TEXT NOT NULL DEFAULT 'PENDING',
			FOREIGN KEY (attendee_id) REFERENCES users(id),
			FOREIGN KEY (event_id) REFERENCES events(id),
			UNIQUE (attendee_id, event_id)
		);

		CREATE TABLE audit_log (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL DEFAULT 'info',
			category TEXT NOT NULL DEFAULT 'system',
			message TEXT NOT NULL,
			user_id TEXT,
			ip_address TEXT NOT NULL DEFAULT '',
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSessionManager creates a session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer creates a renderer with a minimal template set.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templatesFS := fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}{{template "content" .}}{{end}}`),
		},
		"pages/landing.html":   &fstest.MapFile{Data: []byte(`{{define "content"}}landing{{end}}`)},
		"pages/home.html":      &fstest.MapFile{Data: []byte(`{{define "content"}}home{{end}}`)},
		"pages/find.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{range .Data.Events}}{{.ID}}:{{if index $.Data.Registered .ID}}registered{{else}}open{{end}};{{end}}{{end}}`),
		},
		"pages/manage.html":    &fstest.MapFile{Data: []byte(`{{define "content"}}manage{{end}}`)},
		"pages/event.html":     &fstest.MapFile{Data: []byte(`{{define "content"}}event{{end}}`)},
		"pages/view.html":      &fstest.MapFile{Data: []byte(`{{define "content"}}view{{end}}`)},
		"pages/history.html":   &fstest.MapFile{Data: []byte(`{{define "content"}}history{{end}}`)},
		"pages/dashboard.html": &fstest.MapFile{Data: []byte(`{{define "content"}}dashboard{{end}}`)},
		"pages/create.html":    &fstest.MapFile{Data: []byte(`{{define "content"}}create{{end}}`)},
		"pages/user.html":      &fstest.MapFile{Data: []byte(`{{define "content"}}user{{end}}`)},
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("failed to create test renderer: %v", err)
	}
	return renderer
}

// testUser describes a user to seed into the test database.
type testUser struct {
	Email    string
	Name     string
	Role     string
	Password string
}

// createTestUser creates a test user in the database.
func createTestUser(t *testing.T, db *sql.DB, user testUser) model.User {
	t.Helper()

	if user.Password == "" {
		user.Password = "password123"
	}
	hash, err := auth.HashPassword(user.Password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	created, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		ID:           auth.DeriveUserID(user.Email),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: hash,
		Role:         user.Role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return created
}

// createTestEvent creates a test event owned by the given organizer.
func createTestEvent(t *testing.T, db *sql.DB, organizerID string, fee int64, date, deadline time.Time) model.Event {
	t.Helper()

	now := time.Now()
	event, err := store.New(db).CreateEvent(context.Background(), store.CreateEventParams{
		Name:                 "Test Event",
		Description:          "A test event",
		EventType:            "MEETUP",
		Venue:                "Test Hall",
		Fee:                  fee,
		OrganizerID:          organizerID,
		EventDate:            date,
		EventTime:            "18:00",
		RegistrationDeadline: deadline,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		t.Fatalf("failed to create test event: %v", err)
	}
	return event
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with session context.
func requestWithSession(t *testing.T, sm *scs.SessionManager, r *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return r.WithContext(ctx)
}

// requestWithUser adds a user to the request context the way LoadUser does.
func requestWithUser(r *http.Request, user model.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyUser, user))
}

// assertStatus checks if the response status code matches the expected value.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}

// assertRedirect checks for a redirect to the expected location.
func assertRedirect(t *testing.T, rec interface {
	Header() http.Header
}, code, wantCode int, wantLocation string) {
	t.Helper()
	if code != wantCode {
		t.Errorf("status = %d; want %d", code, wantCode)
	}
	if loc := rec.Header().Get("Location"); loc != wantLocation {
		t.Errorf("Location = %q; want %q", loc, wantLocation)
	}
}
