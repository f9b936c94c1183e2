// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"gatherly/internal/model"
)

// CreateAuditEntryParams holds the parameters for CreateAuditEntry.
type CreateAuditEntryParams struct {
	Level     string
	Category  string
	Message   string
	UserID    sql.NullString
	IPAddress string
	Metadata  string
	CreatedAt time.Time
}

// CreateAuditEntry inserts an audit log record.
func (q *Queries) CreateAuditEntry(ctx context.Context, arg CreateAuditEntryParams) (model.AuditEntry, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO audit_log (level, category, message, user_id, ip_address, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id, level, category, message, user_id, ip_address, metadata, created_at`,
		arg.Level, arg.Category, arg.Message, arg.UserID, arg.IPAddress, arg.Metadata, arg.CreatedAt)

	var e model.AuditEntry
	err := row.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID, &e.IPAddress, &e.Metadata, &e.CreatedAt)
	return e, err
}

// ListAuditEntries returns the most recent audit log records.
func (q *Queries) ListAuditEntries(ctx context.Context, limit int64) ([]model.AuditEntry, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, category, message, user_id, ip_address, metadata, created_at
		FROM audit_log ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.Level, &e.Category, &e.Message, &e.UserID,
			&e.IPAddress, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
