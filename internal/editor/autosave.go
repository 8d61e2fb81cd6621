// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"log/slog"
	"time"
)

// DefaultAutosaveInterval is how often the autosave runner ticks.
const DefaultAutosaveInterval = 12 * time.Second

// Runner drives periodic autosave ticks against a Service. Tick errors are
// logged and never stop the ticker.
type Runner struct {
	svc      *Service
	interval time.Duration
	log      *slog.Logger
}

// NewRunner creates an autosave runner. A non-positive interval falls back
// to DefaultAutosaveInterval.
func NewRunner(svc *Service, interval time.Duration, log *slog.Logger) *Runner {
	if interval <= 0 {
		interval = DefaultAutosaveInterval
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{svc: svc, interval: interval, log: log}
}

// Run ticks until the context is cancelled. It blocks; run it in its own
// goroutine.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.Info("autosave runner started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("autosave runner stopped")
			return
		case <-ticker.C:
			saved, err := r.svc.AutosaveTick(ctx)
			switch {
			case err != nil:
				r.log.Warn("autosave failed", "error", err)
			case saved:
				r.log.Info("autosaved")
			}
		}
	}
}
