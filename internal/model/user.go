// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types shared across the application:
// users, events, registrations, and audit log entries.
package model

import (
	"database/sql"
	"time"
)

// User roles. A user's role is fixed at signup and never changes.
const (
	RoleOrganizer = "ORGANIZER"
	RoleAttendee  = "ATTENDEE"
)

// ValidRoles contains all valid user roles.
var ValidRoles = []string{RoleOrganizer, RoleAttendee}

// IsValidRole reports whether role is a known user role.
func IsValidRole(role string) bool {
	return role == RoleOrganizer || role == RoleAttendee
}

// User represents a registered account. The ID is derived from the email via
// auth.DeriveUserID and is stable for the lifetime of the account.
type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Phone        string       `json:"phone"`
	Location     string       `json:"location"`
	PasswordHash string       `json:"-"` // Never expose in JSON
	Role         string       `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	LastLoginAt  sql.NullTime `json:"last_login_at,omitempty"`
}

// IsOrganizer returns true if the user has the organizer role.
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer
}

// IsAttendee returns true if the user has the attendee role.
func (u *User) IsAttendee() bool {
	return u.Role == RoleAttendee
}
