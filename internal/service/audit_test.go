// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherly/internal/model"
	"gatherly/internal/service"
	"gatherly/internal/testutil"
)

func TestAuditLogWritesEntry(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()
	svc := service.NewAuditService(db)

	err := svc.LogAuthEvent(context.Background(), model.AuditLevelWarning, "Login failed", "", "203.0.113.9", map[string]any{"email": "a@example.com"})
	require.NoError(t, err)

	var level, category, metadata string
	err = db.QueryRow(`SELECT level, category, metadata FROM audit_log`).Scan(&level, &category, &metadata)
	require.NoError(t, err)
	assert.Equal(t, model.AuditLevelWarning, level)
	assert.Equal(t, model.AuditCategoryAuth, category)
	assert.Contains(t, metadata, "a@example.com")
}

func TestAuditLogWriteFailureReturnsError(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	svc := service.NewAuditService(db)
	cleanup()

	err := svc.LogInfo(context.Background(), model.AuditCategorySystem, "after close", "", "", nil)
	assert.Error(t, err)
}
