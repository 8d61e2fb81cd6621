// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package stats records per-post view counts bucketed by day and device
// class.
package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/mileusna/useragent"

	"github.com/olegiv/inkwell/internal/store"
)

// Device classes recorded in the views table.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
)

// Tracker writes post view counters. Bot traffic is discarded.
type Tracker struct {
	queries *store.Queries
	log     *slog.Logger
	now     func() time.Time
}

// NewTracker creates a view tracker backed by the given store.
func NewTracker(queries *store.Queries, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	return &Tracker{
		queries: queries,
		log:     log,
		now:     time.Now,
	}
}

// Record bumps the view counter for slug. Failures are logged, never
// surfaced: analytics must not break page rendering.
func (t *Tracker) Record(ctx context.Context, slug, uaString string) {
	device, ok := DeviceClass(uaString)
	if !ok {
		return
	}

	err := t.queries.RecordPostView(ctx, slug, store.Day(t.now()), device)
	if err != nil {
		t.log.Warn("recording post view failed", "slug", slug, "error", err)
	}
}

// DeviceClass classifies a user agent string. The second return value is
// false for bots and crawlers, which are not counted.
func DeviceClass(uaString string) (string, bool) {
	ua := useragent.Parse(uaString)
	switch {
	case ua.Bot:
		return "", false
	case ua.Mobile:
		return DeviceMobile, true
	case ua.Tablet:
		return DeviceTablet, true
	default:
		return DeviceDesktop, true
	}
}
