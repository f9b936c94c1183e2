// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredential indicates a login attempt with a wrong password.
	// Unknown emails surface as ErrNotFound; user-facing callers must show
	// the same message for both.
	ErrInvalidCredential = errors.New("invalid email or password")

	// ErrDuplicateUser indicates a signup with an email that is already taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrPasswordMismatch indicates the password and confirmation fields differ.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrInvalidRole indicates a signup with a role outside the known set.
	ErrInvalidRole = errors.New("invalid role")
)
