// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gatherly/internal/auth"
	"gatherly/internal/model"
)

// Demo account credentials, created only when seeding is enabled.
const (
	DemoOrganizerEmail = "organizer@example.com"
	DemoAttendeeEmail  = "attendee@example.com"
	DemoPassword       = "changeme"
)

// Seed creates demo accounts and a sample event when enabled. Safe to call on
// every startup; existing rows are left alone.
func Seed(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	queries := New(db)

	organizer, err := seedUser(ctx, queries, DemoOrganizerEmail, "Demo Organizer", model.RoleOrganizer)
	if err != nil {
		return err
	}
	if _, err := seedUser(ctx, queries, DemoAttendeeEmail, "Demo Attendee", model.RoleAttendee); err != nil {
		return err
	}

	if organizer != nil {
		now := time.Now()
		event, err := queries.CreateEvent(ctx, CreateEventParams{
			Name:                 "Welcome Meetup",
			Description:          "A sample event created by database seeding.",
			EventType:            "MEETUP",
			Venue:                "Main Hall",
			OrganizerID:          organizer.ID,
			EventDate:            now.AddDate(0, 0, 14),
			EventTime:            "18:00",
			RegistrationDeadline: now.AddDate(0, 0, 13),
			CreatedAt:            now,
			UpdatedAt:            now,
		})
		if err != nil {
			return fmt.Errorf("seeding demo event: %w", err)
		}
		slog.Info("created demo event", "event_id", event.ID, "name", event.Name)
	}

	return nil
}

// seedUser creates a demo user unless one with the given email already
// exists. Returns the created user, or nil when seeding was skipped.
func seedUser(ctx context.Context, queries *Queries, email, name, role string) (*model.User, error) {
	_, err := queries.GetUserByEmail(ctx, email)
	if err == nil {
		slog.Info("demo user already exists, skipping seed", "email", email)
		return nil, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checking for demo user: %w", err)
	}

	passwordHash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user, err := queries.CreateUser(ctx, CreateUserParams{
		ID:           auth.DeriveUserID(email),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating demo user: %w", err)
	}

	slog.Info("created demo user", "id", user.ID, "email", user.Email, "role", user.Role)
	return &user, nil
}
