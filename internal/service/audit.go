// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"gatherly/internal/model"
	"gatherly/internal/store"
)

// AuditService records audit trail entries.
type AuditService struct {
	queries *store.Queries
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *sql.DB) *AuditService {
	return &AuditService{
		queries: store.New(db),
	}
}

// Log creates a new audit log entry.
func (s *AuditService) Log(ctx context.Context, level, category, message string, userID string, ipAddress string, metadata map[string]any) error {
	var nullUserID sql.NullString
	if userID != "" {
		nullUserID = sql.NullString{String: userID, Valid: true}
	}

	metadataJSON := "{}"
	if metadata != nil {
		jsonBytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(jsonBytes)
		}
	}

	_, err := s.queries.CreateAuditEntry(ctx, store.CreateAuditEntryParams{
		Level:     level,
		Category:  category,
		Message:   message,
		UserID:    nullUserID,
		Metadata:  metadataJSON,
		IPAddress: ipAddress,
		CreatedAt: time.Now(),
	})
	if err != nil {
		slog.Error("Failed to write audit entry", "error", err)
		return err
	}

	return nil
}

// LogInfo records an info-level entry.
func (s *AuditService) LogInfo(ctx context.Context, category, message string, userID string, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.AuditLevelInfo, category, message, userID, ipAddress, metadata)
}

// LogWarning records a warning-level entry.
func (s *AuditService) LogWarning(ctx context.Context, category, message string, userID string, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.AuditLevelWarning, category, message, userID, ipAddress, metadata)
}

// LogError records an error-level entry.
func (s *AuditService) LogError(ctx context.Context, category, message string, userID string, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, model.AuditLevelError, category, message, userID, ipAddress, metadata)
}

// LogAuthEvent records an authentication-related entry.
func (s *AuditService) LogAuthEvent(ctx context.Context, level, message string, userID string, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategoryAuth, message, userID, ipAddress, metadata)
}

// LogUserEvent records a user-related entry.
func (s *AuditService) LogUserEvent(ctx context.Context, level, message string, userID string, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategoryUser, message, userID, ipAddress, metadata)
}

// LogEventEvent records an event-management entry.
func (s *AuditService) LogEventEvent(ctx context.Context, level, message string, userID string, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategoryEvent, message, userID, ipAddress, metadata)
}

// LogRegistrationEvent records a registration-related entry.
func (s *AuditService) LogRegistrationEvent(ctx context.Context, level, message string, userID string, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategoryRegistration, message, userID, ipAddress, metadata)
}

// LogSystemEvent records a system-related entry.
func (s *AuditService) LogSystemEvent(ctx context.Context, level, message string, userID string, ipAddress string, metadata map[string]any) error {
	return s.Log(ctx, level, model.AuditCategorySystem, message, userID, ipAddress, metadata)
}
