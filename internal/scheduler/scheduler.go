// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic event lifecycle sweeps.
package scheduler

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"gatherly/internal/model"
	"gatherly/internal/service"
	"gatherly/internal/store"
)

// Scheduler moves events through their lifecycle on a fixed schedule:
// scheduled events past their registration deadline become closed, and
// scheduled or closed events past their date become completed.
type Scheduler struct {
	queries *store.Queries
	audit   *service.AuditService
	cron    *cron.Cron
	logger  *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		queries: store.New(db),
		audit:   service.NewAuditService(db),
		cron:    cron.New(),
		logger:  logger,
	}
}

// Start begins the scheduler with a sweep job every minute.
func (s *Scheduler) Start() error {
	// Run every minute
	_, err := s.cron.AddFunc("* * * * *", func() {
		if err := s.Sweep(context.Background(), time.Now()); err != nil {
			s.logger.Error("event lifecycle sweep failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for any running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Sweep runs both lifecycle transitions once. It is called by the cron job
// and directly at startup so a restart does not wait a minute to catch up.
func (s *Scheduler) Sweep(ctx context.Context, now time.Time) error {
	closed, err := s.queries.CloseExpiredEvents(ctx, now)
	if err != nil {
		return err
	}
	if closed > 0 {
		s.logger.Info("closed events past registration deadline", "count", closed)
		_ = s.audit.LogSystemEvent(ctx, model.AuditLevelInfo, "Closed events past registration deadline", "", "", map[string]any{"count": closed})
	}

	completed, err := s.queries.CompletePastEvents(ctx, now)
	if err != nil {
		return err
	}
	if completed > 0 {
		s.logger.Info("completed past events", "count", completed)
		_ = s.audit.LogSystemEvent(ctx, model.AuditLevelInfo, "Completed past events", "", "", map[string]any{"count": completed})
	}

	return nil
}
