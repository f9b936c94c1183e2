// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"
)

// Audit levels
const (
	AuditLevelInfo    = "info"
	AuditLevelWarning = "warning"
	AuditLevelError   = "error"
)

// Audit categories
const (
	AuditCategoryAuth         = "auth"
	AuditCategoryUser         = "user"
	AuditCategoryEvent        = "event"
	AuditCategoryRegistration = "registration"
	AuditCategorySystem       = "system"
)

// AuditEntry represents an audit log record.
type AuditEntry struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	UserID    sql.NullString
	IPAddress string
	Metadata  string // JSON string
	CreatedAt time.Time
}
