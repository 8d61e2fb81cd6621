// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

// PostViewCount is an aggregated view count for a single post.
type PostViewCount struct {
	Slug  string
	Count int64
}

// RecordPostView increments the daily view counter for a post slug and
// device class. day is formatted as YYYY-MM-DD.
func (q *Queries) RecordPostView(ctx context.Context, slug, day, device string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO post_views (slug, day, device, count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (slug, day, device) DO UPDATE SET count = count + 1`,
		slug, day, device)
	return err
}

// TotalPostViews returns the sum of all recorded views.
func (q *Queries) TotalPostViews(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(count), 0) FROM post_views`).Scan(&total)
	return total, err
}

// TopViewedPosts returns up to limit slugs with the highest total views.
func (q *Queries) TopViewedPosts(ctx context.Context, limit int64) ([]PostViewCount, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT slug, SUM(count) AS total FROM post_views
		GROUP BY slug
		ORDER BY total DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []PostViewCount
	for rows.Next() {
		var c PostViewCount
		if err := rows.Scan(&c.Slug, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// PruneViews deletes daily view rows older than the given day (YYYY-MM-DD)
// and returns the number of rows removed.
func (q *Queries) PruneViews(ctx context.Context, beforeDay string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM post_views WHERE day < ?`, beforeDay)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Day formats a time as the post_views day key.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
