// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"gatherly/internal/model"
)

const eventColumns = "id, name, description, event_type, venue, fee, organizer_id, " +
	"event_date, event_time, registration_deadline, status, created_at, updated_at"

func scanEvent(row *sql.Row) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Name, &e.Description, &e.EventType, &e.Venue, &e.Fee,
		&e.OrganizerID, &e.EventDate, &e.EventTime, &e.RegistrationDeadline,
		&e.Status, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func scanEvents(rows *sql.Rows) ([]model.Event, error) {
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.EventType, &e.Venue, &e.Fee,
			&e.OrganizerID, &e.EventDate, &e.EventTime, &e.RegistrationDeadline,
			&e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// CreateEventParams holds the parameters for CreateEvent.
type CreateEventParams struct {
	Name                 string
	Description          string
	EventType            string
	Venue                string
	Fee                  int64
	OrganizerID          string
	EventDate            time.Time
	EventTime            string
	RegistrationDeadline time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// CreateEvent inserts a new scheduled event and returns the stored row.
func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (model.Event, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO events (name, description, event_type, venue, fee, organizer_id,
			event_date, event_time, registration_deadline, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'SCHEDULED', ?, ?)
		RETURNING `+eventColumns,
		arg.Name, arg.Description, arg.EventType, arg.Venue, arg.Fee, arg.OrganizerID,
		arg.EventDate, arg.EventTime, arg.RegistrationDeadline, arg.CreatedAt, arg.UpdatedAt)
	return scanEvent(row)
}

// GetEventByID fetches a single event by its identifier.
func (q *Queries) GetEventByID(ctx context.Context, id int64) (model.Event, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
	return scanEvent(row)
}

// ListEvents returns every event row, newest first.
func (q *Queries) ListEvents(ctx context.Context) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY event_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListEventsByOrganizer returns all events owned by an organizer, newest first.
func (q *Queries) ListEventsByOrganizer(ctx context.Context, organizerID string) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE organizer_id = ? ORDER BY event_date DESC, id DESC`,
		organizerID)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListOpenEventsParams holds the parameters for ListOpenEvents.
type ListOpenEventsParams struct {
	Now    time.Time
	Search string // optional filter on name, type, or venue
}

// ListOpenEvents returns scheduled events whose registration deadline has not
// passed, soonest first. An optional search term filters on name, event type,
// and venue.
func (q *Queries) ListOpenEvents(ctx context.Context, arg ListOpenEventsParams) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE status = 'SCHEDULED' AND registration_deadline > ?`
	args := []any{arg.Now}

	if arg.Search != "" {
		query += ` AND (name LIKE ? OR event_type LIKE ? OR venue LIKE ?)`
		pattern := "%" + arg.Search + "%"
		args = append(args, pattern, pattern, pattern)
	}
	query += ` ORDER BY event_date ASC, id ASC`

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListUpcomingEvents returns all non-cancelled events with a future date,
// soonest first. Used by the public listing.
func (q *Queries) ListUpcomingEvents(ctx context.Context, now time.Time) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE status IN ('SCHEDULED', 'CLOSED') AND event_date > ?
		 ORDER BY event_date ASC, id ASC`, now)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// ListPastEventsByOrganizerParams holds the parameters for ListPastEventsByOrganizer.
type ListPastEventsByOrganizerParams struct {
	OrganizerID string
	Now         time.Time
}

// ListPastEventsByOrganizer returns an organizer's events whose date has
// passed, most recent first.
func (q *Queries) ListPastEventsByOrganizer(ctx context.Context, arg ListPastEventsByOrganizerParams) ([]model.Event, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events
		 WHERE organizer_id = ? AND event_date <= ?
		 ORDER BY event_date DESC, id DESC`, arg.OrganizerID, arg.Now)
	if err != nil {
		return nil, err
	}
	return scanEvents(rows)
}

// UpdateEventStatusParams holds the parameters for UpdateEventStatus.
type UpdateEventStatusParams struct {
	Status    string
	UpdatedAt time.Time
	ID        int64
}

// UpdateEventStatus sets an event's lifecycle status.
func (q *Queries) UpdateEventStatus(ctx context.Context, arg UpdateEventStatusParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE events SET status = ?, updated_at = ? WHERE id = ?`,
		arg.Status, arg.UpdatedAt, arg.ID)
	return err
}

// CloseExpiredEvents moves scheduled events whose registration deadline has
// passed to CLOSED. Returns the number of events transitioned.
func (q *Queries) CloseExpiredEvents(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE events SET status = 'CLOSED', updated_at = ?
		 WHERE status = 'SCHEDULED' AND registration_deadline <= ?`, now, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CompletePastEvents moves scheduled or closed events whose date has passed to
// COMPLETED. Returns the number of events transitioned.
func (q *Queries) CompletePastEvents(ctx context.Context, now time.Time) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE events SET status = 'COMPLETED', updated_at = ?
		 WHERE status IN ('SCHEDULED', 'CLOSED') AND event_date <= ?`, now, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
