// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic database maintenance.
package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/inkwell/internal/store"
)

// Retention windows for pruned data.
const (
	EventRetention = 90 * 24 * time.Hour
	ViewRetention  = 365 * 24 * time.Hour
)

// Scheduler handles recurring maintenance: pruning old events and view
// counters, and letting SQLite re-analyze its statistics.
type Scheduler struct {
	db     *sql.DB
	cron   *cron.Cron
	logger *slog.Logger
}

// New creates a new scheduler instance.
func New(db *sql.DB, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		db:     db,
		cron:   cron.New(),
		logger: logger,
	}
}

// Start schedules nightly maintenance at 03:30.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("30 3 * * *", func() {
		if err := s.runMaintenance(context.Background()); err != nil {
			s.logger.Error("maintenance run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// runMaintenance prunes aged rows and optimizes the database. Individual
// steps failing do not abort the rest.
func (s *Scheduler) runMaintenance(ctx context.Context) error {
	queries := store.New(s.db)
	now := time.Now()
	var errs []error

	events, err := queries.PruneEvents(ctx, now.Add(-EventRetention))
	if err != nil {
		errs = append(errs, err)
	}

	views, err := queries.PruneViews(ctx, store.Day(now.Add(-ViewRetention)))
	if err != nil {
		errs = append(errs, err)
	}

	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info("maintenance completed",
		"events_pruned", events,
		"views_pruned", views,
	)
	return errors.Join(errs...)
}
