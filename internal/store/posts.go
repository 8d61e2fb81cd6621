// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/inkwell/internal/model"
)

const postColumns = `id, slug, title, excerpt, category, content_md, cover_url,
	featured, status, published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.Slug,
		&p.Title,
		&p.Excerpt,
		&p.Category,
		&p.ContentMD,
		&p.CoverURL,
		&p.Featured,
		&p.Status,
		&p.PublishedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func collectPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()

	var posts []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// CreatePostParams holds the fields for inserting a new post.
type CreatePostParams struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Category    string
	ContentMD   string
	CoverURL    sql.NullString
	Featured    bool
	Status      string
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreatePost inserts a new post and returns the stored row.
func (q *Queries) CreatePost(ctx context.Context, arg CreatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO posts (
			id, slug, title, excerpt, category, content_md, cover_url,
			featured, status, published_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING `+postColumns,
		arg.ID,
		arg.Slug,
		arg.Title,
		arg.Excerpt,
		arg.Category,
		arg.ContentMD,
		arg.CoverURL,
		arg.Featured,
		arg.Status,
		arg.PublishedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return scanPost(row)
}

// UpdatePostParams holds the fields for updating an existing post.
type UpdatePostParams struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Category    string
	ContentMD   string
	CoverURL    sql.NullString
	Featured    bool
	Status      string
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
}

// UpdatePost overwrites an existing post and returns the stored row.
// sql.ErrNoRows is returned when no post with the given ID exists.
func (q *Queries) UpdatePost(ctx context.Context, arg UpdatePostParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts SET
			slug = ?, title = ?, excerpt = ?, category = ?, content_md = ?,
			cover_url = ?, featured = ?, status = ?, published_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Slug,
		arg.Title,
		arg.Excerpt,
		arg.Category,
		arg.ContentMD,
		arg.CoverURL,
		arg.Featured,
		arg.Status,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPost(row)
}

// SetPostStatusParams holds the fields for a direct status flip.
type SetPostStatusParams struct {
	ID          string
	Status      string
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
}

// SetPostStatus changes a post's status and published timestamp without
// touching its content, and returns the stored row.
func (q *Queries) SetPostStatus(ctx context.Context, arg SetPostStatusParams) (model.Post, error) {
	row := q.db.QueryRowContext(ctx, `
		UPDATE posts SET status = ?, published_at = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+postColumns,
		arg.Status,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	return scanPost(row)
}

// DeletePost removes a post by ID.
func (q *Queries) DeletePost(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	return err
}

// GetPostByID fetches a single post by its ID.
func (q *Queries) GetPostByID(ctx context.Context, id string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)
	return scanPost(row)
}

// GetPostBySlug fetches a single post by its slug regardless of status.
func (q *Queries) GetPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = ?`, slug)
	return scanPost(row)
}

// GetPublishedPostBySlug fetches a single published post by its slug.
func (q *Queries) GetPublishedPostBySlug(ctx context.Context, slug string) (model.Post, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = ? AND status = 'published'`, slug)
	return scanPost(row)
}

// ListPosts returns all posts ordered by most recently updated first.
// This is the admin listing order.
func (q *Queries) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListPostsByStatus returns posts with the given status ordered by most
// recently updated first.
func (q *Queries) ListPostsByStatus(ctx context.Context, status string) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE status = ? ORDER BY updated_at DESC`, status)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListPublishedPosts returns published posts ordered by publish date,
// newest first. This is the public listing order.
func (q *Queries) ListPublishedPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListFeaturedPublishedPosts returns up to limit featured published posts,
// newest first.
func (q *Queries) ListFeaturedPublishedPosts(ctx context.Context, limit int64) ([]model.Post, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE status = 'published' AND featured = 1
		ORDER BY published_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// CountPosts returns the total number of posts.
func (q *Queries) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

// CountPostsByStatus returns the number of posts with the given status.
func (q *Queries) CountPostsByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE status = ?`, status).Scan(&count)
	return count, err
}

// SlugExists reports whether any post uses the given slug.
func (q *Queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ?)`, slug).Scan(&exists)
	return exists, err
}

// SlugExistsExcluding reports whether a post other than the given ID uses
// the slug. Used when updating a post in place.
func (q *Queries) SlugExistsExcluding(ctx context.Context, slug, excludeID string) (bool, error) {
	var exists bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ? AND id != ?)`,
		slug, excludeID).Scan(&exists)
	return exists, err
}
