// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Event statuses.
const (
	EventStatusScheduled = "SCHEDULED" // upcoming, registration may be open
	EventStatusClosed    = "CLOSED"    // registration deadline passed
	EventStatusCompleted = "COMPLETED" // event date passed
	EventStatusCancelled = "CANCELLED" // cancelled by the organizer
)

// Event represents an event created by an organizer.
type Event struct {
	ID                   int64     `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"` // Markdown, sanitized at render time
	EventType            string    `json:"event_type"`
	Venue                string    `json:"venue"`
	Fee                  int64     `json:"fee"` // whole currency units; 0 means free
	OrganizerID          string    `json:"organizer_id"`
	EventDate            time.Time `json:"event_date"`
	EventTime            string    `json:"event_time"` // HH:MM, 24h
	RegistrationDeadline time.Time `json:"registration_deadline"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// RegistrationOpen reports whether attendees may still register at the given
// instant: the event is scheduled and the deadline has not passed.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return e.Status == EventStatusScheduled && now.Before(e.RegistrationDeadline)
}

// IsPast reports whether the event date has passed at the given instant.
func (e *Event) IsPast(now time.Time) bool {
	return e.EventDate.Before(now)
}

// IsFree reports whether the event has no registration fee.
func (e *Event) IsFree() bool {
	return e.Fee == 0
}
