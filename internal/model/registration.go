// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "time"

// Registration payment statuses.
const (
	PaymentStatusPending = "PENDING" // fee due, not collected yet
	PaymentStatusWaived  = "WAIVED"  // free event, nothing to collect
)

// Registration is the join record created when an attendee registers for an
// event. The reference is a UUID handed to the attendee as a ticket code.
type Registration struct {
	ID               int64     `json:"id"`
	Reference        string    `json:"reference"`
	AttendeeID       string    `json:"attendee_id"`
	EventID          int64     `json:"event_id"`
	RegistrationDate time.Time `json:"registration_date"`
	PaymentStatus    string    `json:"payment_status"`
}
