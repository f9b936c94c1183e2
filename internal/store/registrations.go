// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"

	"gatherly/internal/model"
)

const registrationColumns = "id, reference, attendee_id, event_id, registration_date, payment_status"

// CreateRegistrationParams holds the parameters for CreateRegistration.
type CreateRegistrationParams struct {
	Reference        string
	AttendeeID       string
	EventID          int64
	RegistrationDate time.Time
	PaymentStatus    string
}

// CreateRegistration inserts an attendee's registration for an event and
// returns the stored row. The UNIQUE (attendee_id, event_id) index rejects
// duplicate registrations.
func (q *Queries) CreateRegistration(ctx context.Context, arg CreateRegistrationParams) (model.Registration, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO registrations (reference, attendee_id, event_id, registration_date, payment_status)
		VALUES (?, ?, ?, ?, ?)
		RETURNING `+registrationColumns,
		arg.Reference, arg.AttendeeID, arg.EventID, arg.RegistrationDate, arg.PaymentStatus)

	var r model.Registration
	err := row.Scan(&r.ID, &r.Reference, &r.AttendeeID, &r.EventID, &r.RegistrationDate, &r.PaymentStatus)
	return r, err
}

// GetRegistrationParams holds the parameters for GetRegistration.
type GetRegistrationParams struct {
	AttendeeID string
	EventID    int64
}

// GetRegistration fetches an attendee's registration for a specific event.
func (q *Queries) GetRegistration(ctx context.Context, arg GetRegistrationParams) (model.Registration, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE attendee_id = ? AND event_id = ?`,
		arg.AttendeeID, arg.EventID)

	var r model.Registration
	err := row.Scan(&r.ID, &r.Reference, &r.AttendeeID, &r.EventID, &r.RegistrationDate, &r.PaymentStatus)
	return r, err
}

// RegistrationWithEvent pairs a registration with the event it is for.
type RegistrationWithEvent struct {
	Registration model.Registration
	Event        model.Event
}

const registrationJoinColumns = `r.id, r.reference, r.attendee_id, r.event_id, r.registration_date, r.payment_status,
	e.id, e.name, e.description, e.event_type, e.venue, e.fee, e.organizer_id,
	e.event_date, e.event_time, e.registration_deadline, e.status, e.created_at, e.updated_at`

func scanRegistrationsWithEvents(ctx context.Context, q *Queries, query string, args ...any) ([]RegistrationWithEvent, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RegistrationWithEvent
	for rows.Next() {
		var rw RegistrationWithEvent
		r := &rw.Registration
		e := &rw.Event
		if err := rows.Scan(&r.ID, &r.Reference, &r.AttendeeID, &r.EventID, &r.RegistrationDate, &r.PaymentStatus,
			&e.ID, &e.Name, &e.Description, &e.EventType, &e.Venue, &e.Fee, &e.OrganizerID,
			&e.EventDate, &e.EventTime, &e.RegistrationDeadline, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, rw)
	}
	return result, rows.Err()
}

// ListRegistrationsByAttendee returns all of an attendee's registrations with
// their events, soonest event first.
func (q *Queries) ListRegistrationsByAttendee(ctx context.Context, attendeeID string) ([]RegistrationWithEvent, error) {
	return scanRegistrationsWithEvents(ctx, q, `
		SELECT `+registrationJoinColumns+`
		FROM registrations r JOIN events e ON e.id = r.event_id
		WHERE r.attendee_id = ?
		ORDER BY e.event_date ASC, r.id ASC`, attendeeID)
}

// ListPastRegistrationsByAttendeeParams holds the parameters for ListPastRegistrationsByAttendee.
type ListPastRegistrationsByAttendeeParams struct {
	AttendeeID string
	Now        time.Time
}

// ListPastRegistrationsByAttendee returns an attendee's registrations for
// events whose date has passed, most recent first.
func (q *Queries) ListPastRegistrationsByAttendee(ctx context.Context, arg ListPastRegistrationsByAttendeeParams) ([]RegistrationWithEvent, error) {
	return scanRegistrationsWithEvents(ctx, q, `
		SELECT `+registrationJoinColumns+`
		FROM registrations r JOIN events e ON e.id = r.event_id
		WHERE r.attendee_id = ? AND e.event_date <= ?
		ORDER BY e.event_date DESC, r.id DESC`, arg.AttendeeID, arg.Now)
}

// CountRegistrationsByEvent returns the number of registrations for an event.
func (q *Queries) CountRegistrationsByEvent(ctx context.Context, eventID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = ?`, eventID).Scan(&n)
	return n, err
}
