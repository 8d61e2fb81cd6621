// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"time"

	"github.com/olegiv/inkwell/internal/model"
)

// ListCache holds the last-fetched admin post list. It is refreshed after
// every mutation so list reads never race ahead of the write they depend
// on. Callers synchronize access; the Service owns one under its lock.
type ListCache struct {
	posts     []model.Post
	refreshed time.Time
}

// Replace swaps in a freshly fetched list.
func (c *ListCache) Replace(posts []model.Post, at time.Time) {
	c.posts = posts
	c.refreshed = at
}

// Posts returns a copy of the cached list.
func (c *ListCache) Posts() []model.Post {
	out := make([]model.Post, len(c.posts))
	copy(out, c.posts)
	return out
}

// Get returns the cached post with the given ID.
func (c *ListCache) Get(id string) (model.Post, bool) {
	for _, p := range c.posts {
		if p.ID == id {
			return p, true
		}
	}
	return model.Post{}, false
}

// RefreshedAt returns when the list was last replaced.
func (c *ListCache) RefreshedAt() time.Time {
	return c.refreshed
}

// Len returns the number of cached posts.
func (c *ListCache) Len() int {
	return len(c.posts)
}
