// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/inkwell/internal/cache"
	"github.com/olegiv/inkwell/internal/markdown"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/stats"
	"github.com/olegiv/inkwell/internal/store"
)

// postHTMLPrefix keys cached rendered post bodies. Editor mutations drop
// the whole prefix.
const postHTMLPrefix = "posthtml:"

// postHTMLTTL bounds staleness for cache backends without explicit
// invalidation (a second instance sharing Redis).
const postHTMLTTL = time.Hour

// FrontendHandler serves the public site.
type FrontendHandler struct {
	queries  *store.Queries
	renderer *render.Renderer
	cache    cache.Cacher
	tracker  *stats.Tracker
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(db *sql.DB, renderer *render.Renderer, c cache.Cacher, tracker *stats.Tracker) *FrontendHandler {
	return &FrontendHandler{
		queries:  store.New(db),
		renderer: renderer,
		cache:    c,
		tracker:  tracker,
	}
}

// homeData feeds the home template.
type homeData struct {
	Featured []model.Post
	Recent   []model.Post
}

// Home renders the landing page with featured and recent posts.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := h.queries.ListFeaturedPublishedPosts(r.Context(), 3)
	if err != nil {
		logAndInternalError(w, "loading featured posts", "error", err)
		return
	}

	recent, err := h.queries.ListPublishedPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "loading recent posts", "error", err)
		return
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}

	err = h.renderer.Render(w, r, "site/home", render.TemplateData{
		Data: homeData{Featured: featured, Recent: recent},
	})
	if err != nil {
		logAndInternalError(w, "rendering home page", "error", err)
	}
}

// Blog renders the published post index.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	posts, err := h.queries.ListPublishedPosts(r.Context())
	if err != nil {
		logAndInternalError(w, "loading posts", "error", err)
		return
	}

	err = h.renderer.Render(w, r, "site/blog", render.TemplateData{
		Title: "Blog",
		Data:  struct{ Posts []model.Post }{posts},
	})
	if err != nil {
		logAndInternalError(w, "rendering blog page", "error", err)
	}
}

// postData feeds the single post template.
type postData struct {
	Post    model.Post
	Content template.HTML
}

// Post renders a single published post by slug and records the view.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := h.queries.GetPublishedPostBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.NotFound(w, r)
			return
		}
		logAndInternalError(w, "loading post", "slug", slug, "error", err)
		return
	}

	content, err := h.renderedContent(r.Context(), post)
	if err != nil {
		logAndInternalError(w, "rendering post content", "slug", slug, "error", err)
		return
	}

	// Analytics must not delay the response.
	ua := r.UserAgent()
	go h.tracker.Record(context.WithoutCancel(r.Context()), slug, ua)

	err = h.renderer.Render(w, r, "site/post", render.TemplateData{
		Title: post.Title,
		Data:  postData{Post: post, Content: content},
	})
	if err != nil {
		logAndInternalError(w, "rendering post page", "slug", slug, "error", err)
	}
}

// renderedContent returns the post body HTML, from cache when possible.
func (h *FrontendHandler) renderedContent(ctx context.Context, post model.Post) (template.HTML, error) {
	key := postHTMLPrefix + post.Slug

	if cached, err := h.cache.Get(ctx, key); err == nil {
		return template.HTML(cached), nil //nolint:gosec // cached output of markdown.Render, sanitized there
	}

	content, err := markdown.Render(post.ContentMD)
	if err != nil {
		return "", err
	}

	if err := h.cache.Set(ctx, key, []byte(content), postHTMLTTL); err != nil {
		slog.Warn("caching post content failed", "slug", post.Slug, "error", err)
	}
	return content, nil
}

// NotFound renders the site 404 page.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	err := h.renderer.Render(w, r, "site/404", render.TemplateData{Title: "Not found"})
	if err != nil {
		slog.Error("rendering 404 page", "error", err)
	}
}

// RobotsTxt serves the crawler policy.
func (h *FrontendHandler) RobotsTxt(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("User-agent: *\nDisallow: /admin\n"))
}
