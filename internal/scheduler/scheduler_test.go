// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherly/internal/auth"
	"gatherly/internal/model"
	"gatherly/internal/scheduler"
	"gatherly/internal/store"
	"gatherly/internal/testutil"
)

func TestSweep(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	queries := store.New(db)
	now := time.Now()

	organizer, err := queries.CreateUser(ctx, store.CreateUserParams{
		ID:           auth.DeriveUserID("org@example.com"),
		Name:         "Org",
		Email:        "org@example.com",
		PasswordHash: "x",
		Role:         model.RoleOrganizer,
		CreatedAt:    now,
	})
	require.NoError(t, err)

	newEvent := func(name string, date, deadline time.Time) model.Event {
		event, err := queries.CreateEvent(ctx, store.CreateEventParams{
			Name:                 name,
			EventType:            "MEETUP",
			Venue:                "Hall",
			OrganizerID:          organizer.ID,
			EventDate:            date,
			EventTime:            "18:00",
			RegistrationDeadline: deadline,
			CreatedAt:            now,
			UpdatedAt:            now,
		})
		require.NoError(t, err)
		return event
	}

	upcoming := newEvent("upcoming", now.AddDate(0, 1, 0), now.AddDate(0, 0, 7))
	expired := newEvent("expired deadline", now.AddDate(0, 0, 7), now.AddDate(0, 0, -1))
	past := newEvent("past", now.AddDate(0, 0, -7), now.AddDate(0, 0, -14))

	s := scheduler.New(db, testutil.TestLogger())
	require.NoError(t, s.Sweep(ctx, now))

	status := func(id int64) string {
		event, err := queries.GetEventByID(ctx, id)
		require.NoError(t, err)
		return event.Status
	}

	assert.Equal(t, model.EventStatusScheduled, status(upcoming.ID))
	assert.Equal(t, model.EventStatusClosed, status(expired.ID))
	assert.Equal(t, model.EventStatusCompleted, status(past.ID))

	// A second sweep is a no-op
	require.NoError(t, s.Sweep(ctx, now))
	assert.Equal(t, model.EventStatusClosed, status(expired.ID))
	assert.Equal(t, model.EventStatusCompleted, status(past.ID))
}

func TestStartStop(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	s := scheduler.New(db, testutil.TestLogger())
	require.NoError(t, s.Start())
	s.Stop()
}
