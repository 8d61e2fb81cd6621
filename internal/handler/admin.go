// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/inkwell/internal/cache"
	"github.com/olegiv/inkwell/internal/editor"
	"github.com/olegiv/inkwell/internal/middleware"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/store"
)

// AdminHandler serves the dashboard and the post management pages.
type AdminHandler struct {
	queries          *store.Queries
	renderer         *render.Renderer
	svc              *editor.Service
	cache            cache.Cacher
	autosaveInterval time.Duration
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, svc *editor.Service, c cache.Cacher, autosaveInterval time.Duration) *AdminHandler {
	return &AdminHandler{
		queries:          store.New(db),
		renderer:         renderer,
		svc:              svc,
		cache:            c,
		autosaveInterval: autosaveInterval,
	}
}

// dashboardData feeds the dashboard template.
type dashboardData struct {
	PublishedCount int64
	DraftCount     int64
	TotalViews     int64
	TopPosts       []store.PostViewCount
	Events         []model.Event
}

// Dashboard renders the admin landing page.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var data dashboardData
	var err error

	if data.PublishedCount, err = h.queries.CountPostsByStatus(ctx, model.PostStatusPublished); err != nil {
		logAndInternalError(w, "counting published posts", "error", err)
		return
	}
	if data.DraftCount, err = h.queries.CountPostsByStatus(ctx, model.PostStatusDraft); err != nil {
		logAndInternalError(w, "counting drafts", "error", err)
		return
	}
	if data.TotalViews, err = h.queries.TotalPostViews(ctx); err != nil {
		logAndInternalError(w, "loading view totals", "error", err)
		return
	}
	if data.TopPosts, err = h.queries.TopViewedPosts(ctx, 5); err != nil {
		logAndInternalError(w, "loading top posts", "error", err)
		return
	}
	if data.Events, err = h.queries.ListRecentEvents(ctx, 10); err != nil {
		logAndInternalError(w, "loading events", "error", err)
		return
	}

	err = h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		User:  middleware.GetUser(r),
		Data:  data,
	})
	if err != nil {
		logAndInternalError(w, "rendering dashboard", "error", err)
	}
}

// postsPageSize is the admin list page length.
const postsPageSize = 20

// postsData feeds the post management template.
type postsData struct {
	Posts   []model.Post
	Status  string
	Page    int
	HasPrev bool
	HasNext bool
}

// Posts renders the post management list from the editor's cached list,
// refreshed from the store first. ?status filters, ?page paginates.
func (h *AdminHandler) Posts(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Refresh(r.Context()); err != nil {
		logAndInternalError(w, "refreshing post list", "error", err)
		return
	}

	status := r.URL.Query().Get("status")
	if status != model.PostStatusDraft && status != model.PostStatusPublished {
		status = ""
	}

	posts := h.svc.Posts()
	if status != "" {
		filtered := posts[:0:0]
		for _, p := range posts {
			if p.Status == status {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	start := (page - 1) * postsPageSize
	if start > len(posts) {
		start = len(posts)
	}
	end := start + postsPageSize
	if end > len(posts) {
		end = len(posts)
	}

	err := h.renderer.Render(w, r, "admin/posts", render.TemplateData{
		Title: "Posts",
		User:  middleware.GetUser(r),
		Data: postsData{
			Posts:   posts[start:end],
			Status:  status,
			Page:    page,
			HasPrev: page > 1,
			HasNext: end < len(posts),
		},
	})
	if err != nil {
		logAndInternalError(w, "rendering posts page", "error", err)
	}
}

// editorData feeds the editor template.
type editorData struct {
	IsNew          bool
	Dirty          bool
	Draft          model.Post
	Categories     []string
	AutosaveMillis int64
}

// NewPost opens the editor on a fresh draft. ?force=1 discards an open
// dirty draft; without it the user is bounced back to that draft.
func (h *AdminHandler) NewPost(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.StartNew(r.URL.Query().Get("force") == "1")
	if err != nil {
		if errors.Is(err, editor.ErrUnsavedChanges) {
			flashError(w, r, h.renderer, unsavedBounceURL(sess, r.URL.Path),
				"You have unsaved changes. Save them or discard the draft first.")
			return
		}
		logAndInternalError(w, "opening new draft", "error", err)
		return
	}

	h.renderEditor(w, r, sess)
}

// EditPost opens the editor on an existing post.
func (h *AdminHandler) EditPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	sess, err := h.svc.StartEdit(r.Context(), id, r.URL.Query().Get("force") == "1")
	if err != nil {
		switch {
		case errors.Is(err, editor.ErrUnsavedChanges):
			flashError(w, r, h.renderer, unsavedBounceURL(sess, r.URL.Path),
				"You have unsaved changes. Save them or discard the draft first.")
		case editor.IsNotFound(err):
			flashError(w, r, h.renderer, redirectPosts, "That post no longer exists.")
		default:
			logAndInternalError(w, "opening post", "id", id, "error", err)
		}
		return
	}

	h.renderEditor(w, r, sess)
}

func (h *AdminHandler) renderEditor(w http.ResponseWriter, r *http.Request, sess editor.Session) {
	err := h.renderer.Render(w, r, "admin/editor", render.TemplateData{
		Title: "Editor",
		User:  middleware.GetUser(r),
		Data: editorData{
			IsNew:          sess.IsNew(),
			Dirty:          sess.Dirty,
			Draft:          sess.Draft,
			Categories:     model.PostCategories,
			AutosaveMillis: h.autosaveInterval.Milliseconds(),
		},
	})
	if err != nil {
		logAndInternalError(w, "rendering editor", "error", err)
	}
}

// Toggle flips a post between draft and published.
func (h *AdminHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	row, err := h.svc.ToggleStatus(r.Context(), id)
	if err != nil {
		if editor.IsNotFound(err) {
			flashError(w, r, h.renderer, redirectPosts, "That post no longer exists.")
			return
		}
		logAndInternalError(w, "toggling post", "id", id, "error", err)
		return
	}

	h.dropCachedPages(r)
	if row.IsPublished() {
		flashAndRedirect(w, r, h.renderer, redirectPosts, "Published “"+row.Title+"”", "success")
	} else {
		flashAndRedirect(w, r, h.renderer, redirectPosts, "Unpublished “"+row.Title+"”", "info")
	}
}

// Delete removes a post. The form must carry confirmed=1; the list page
// asks via a confirm dialog before submitting.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	confirmed := r.FormValue("confirmed") == "1"

	if err := h.svc.Remove(r.Context(), id, confirmed); err != nil {
		switch {
		case errors.Is(err, editor.ErrConfirmationRequired):
			flashError(w, r, h.renderer, redirectPosts, "Deletion requires confirmation.")
		case editor.IsNotFound(err):
			flashError(w, r, h.renderer, redirectPosts, "That post no longer exists.")
		default:
			logAndInternalError(w, "deleting post", "id", id, "error", err)
		}
		return
	}

	h.dropCachedPages(r)
	flashAndRedirect(w, r, h.renderer, redirectPosts, "Post deleted", "info")
}

// dropCachedPages invalidates cached rendered post bodies after a
// mutation.
func (h *AdminHandler) dropCachedPages(r *http.Request) {
	if err := h.cache.DeletePrefix(r.Context(), postHTMLPrefix); err != nil {
		slog.Warn("invalidating page cache failed", "error", err)
	}
}

// editorPath is the admin URL of the currently open editing session.
func editorPath(sess editor.Session) string {
	if !sess.Open() || sess.IsNew() {
		return redirectEditor
	}
	return "/admin/posts/" + sess.Draft.ID + "/edit"
}

// unsavedBounceURL sends a declined transition back to the open draft,
// carrying the declined target so the editor page can confirm the discard
// and retry it with force.
func unsavedBounceURL(sess editor.Session, target string) string {
	return editorPath(sess) + "?intent=" + url.QueryEscape(target+"?force=1")
}
