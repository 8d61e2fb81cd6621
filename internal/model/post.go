// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the core data structures of the Inkwell site.
package model

import (
	"database/sql"
	"time"
)

// Post statuses
const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// PostCategories is the fixed set of blog categories.
var PostCategories = []string{"Update", "Writing Tips", "Behind the Scenes", "Review"}

// DefaultCategory is the category a fresh draft starts with.
const DefaultCategory = "Update"

// Post is a blog post row. CoverURL and PublishedAt are nullable in the
// store; PublishedAt is set exactly when the post is published.
type Post struct {
	ID          string         `json:"id"`
	Slug        string         `json:"slug"`
	Title       string         `json:"title"`
	Excerpt     string         `json:"excerpt"`
	Category    string         `json:"category"`
	ContentMD   string         `json:"content_md"`
	CoverURL    sql.NullString `json:"cover_url"`
	Featured    bool           `json:"featured"`
	Status      string         `json:"status"`
	PublishedAt sql.NullTime   `json:"published_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsPublished returns true if the post is published.
func (p Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// IsDraft returns true if the post is a draft.
func (p Post) IsDraft() bool {
	return p.Status == PostStatusDraft
}

// Cover returns the cover URL or the given fallback when unset.
func (p Post) Cover(fallback string) string {
	if p.CoverURL.Valid && p.CoverURL.String != "" {
		return p.CoverURL.String
	}
	return fallback
}

// IsValidCategory reports whether c is one of the fixed post categories.
func IsValidCategory(c string) bool {
	for _, v := range PostCategories {
		if v == c {
			return true
		}
	}
	return false
}

// IsValidPostStatus reports whether s is a known post status.
func IsValidPostStatus(s string) bool {
	return s == PostStatusDraft || s == PostStatusPublished
}
