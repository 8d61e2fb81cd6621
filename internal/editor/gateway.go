// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/store"
)

// Gateway is the row store contract the editor depends on. Implementations
// wrap uniqueness violations with ErrConflict so the save protocol can map
// them to a friendly message.
type Gateway interface {
	ListPosts(ctx context.Context) ([]model.Post, error)
	GetPost(ctx context.Context, id string) (model.Post, error)
	InsertPost(ctx context.Context, post model.Post) (model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
	SetStatus(ctx context.Context, id, status string, publishedAt sql.NullTime, updatedAt time.Time) (model.Post, error)
	DeletePost(ctx context.Context, id string) error
}

// StoreGateway adapts store.Queries to the Gateway contract.
type StoreGateway struct {
	q *store.Queries
}

// NewStoreGateway wraps the given queries.
func NewStoreGateway(q *store.Queries) *StoreGateway {
	return &StoreGateway{q: q}
}

func (g *StoreGateway) ListPosts(ctx context.Context) ([]model.Post, error) {
	return g.q.ListPosts(ctx)
}

func (g *StoreGateway) GetPost(ctx context.Context, id string) (model.Post, error) {
	return g.q.GetPostByID(ctx, id)
}

func (g *StoreGateway) InsertPost(ctx context.Context, post model.Post) (model.Post, error) {
	id := post.ID
	if id == "" || id == NewID {
		id = uuid.NewString()
	}
	row, err := g.q.CreatePost(ctx, store.CreatePostParams{
		ID:          id,
		Slug:        post.Slug,
		Title:       post.Title,
		Excerpt:     post.Excerpt,
		Category:    post.Category,
		ContentMD:   post.ContentMD,
		CoverURL:    post.CoverURL,
		Featured:    post.Featured,
		Status:      post.Status,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	})
	if err != nil {
		return model.Post{}, classify(err)
	}
	return row, nil
}

func (g *StoreGateway) UpdatePost(ctx context.Context, post model.Post) (model.Post, error) {
	row, err := g.q.UpdatePost(ctx, store.UpdatePostParams{
		ID:          post.ID,
		Slug:        post.Slug,
		Title:       post.Title,
		Excerpt:     post.Excerpt,
		Category:    post.Category,
		ContentMD:   post.ContentMD,
		CoverURL:    post.CoverURL,
		Featured:    post.Featured,
		Status:      post.Status,
		PublishedAt: post.PublishedAt,
		UpdatedAt:   post.UpdatedAt,
	})
	if err != nil {
		return model.Post{}, classify(err)
	}
	return row, nil
}

func (g *StoreGateway) SetStatus(ctx context.Context, id, status string, publishedAt sql.NullTime, updatedAt time.Time) (model.Post, error) {
	return g.q.SetPostStatus(ctx, store.SetPostStatusParams{
		ID:          id,
		Status:      status,
		PublishedAt: publishedAt,
		UpdatedAt:   updatedAt,
	})
}

func (g *StoreGateway) DeletePost(ctx context.Context, id string) error {
	return g.q.DeletePost(ctx, id)
}

func classify(err error) error {
	if store.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}

var _ Gateway = (*StoreGateway)(nil)

// IsNotFound reports whether err means the post does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
