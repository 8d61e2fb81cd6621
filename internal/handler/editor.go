// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/inkwell/internal/cache"
	"github.com/olegiv/inkwell/internal/editor"
	"github.com/olegiv/inkwell/internal/markdown"
	"github.com/olegiv/inkwell/internal/media"
)

// maxCoverUpload caps cover uploads at 10 MB.
const maxCoverUpload = 10 << 20

// EditorAPI is the JSON API behind the post editor page.
type EditorAPI struct {
	svc       *editor.Service
	processor *media.Processor
	storage   media.Storage
	cache     cache.Cacher
}

// NewEditorAPI creates the editor API handler.
func NewEditorAPI(svc *editor.Service, processor *media.Processor, storage media.Storage, c cache.Cacher) *EditorAPI {
	return &EditorAPI{
		svc:       svc,
		processor: processor,
		storage:   storage,
		cache:     c,
	}
}

// State reports the current editing session, polled by the editor page
// so server-side autosaves reflect in the UI.
func (h *EditorAPI) State(w http.ResponseWriter, _ *http.Request) {
	sess := h.svc.Session()
	writeJSONSuccess(w, map[string]any{
		"open":  sess.Open(),
		"new":   sess.IsNew(),
		"dirty": sess.Dirty,
		"id":    sess.Draft.ID,
	})
}

// fieldPatchRequest mirrors editor.FieldPatch with the form field names.
type fieldPatchRequest struct {
	Title     *string `json:"title"`
	Slug      *string `json:"slug"`
	Excerpt   *string `json:"excerpt"`
	Category  *string `json:"category"`
	ContentMD *string `json:"content_md"`
	CoverURL  *string `json:"cover_url"`
	Featured  *bool   `json:"featured"`
}

// Fields applies edits to the open draft.
func (h *EditorAPI) Fields(w http.ResponseWriter, r *http.Request) {
	var req fieldPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.svc.Apply(editor.FieldPatch{
		Title:     req.Title,
		Slug:      req.Slug,
		Excerpt:   req.Excerpt,
		Category:  req.Category,
		ContentMD: req.ContentMD,
		CoverURL:  req.CoverURL,
		Featured:  req.Featured,
	})
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no editor open")
		return
	}

	writeJSONSuccess(w, map[string]any{"dirty": sess.Dirty})
}

// Save persists the open draft. publish=true requests published status.
func (h *EditorAPI) Save(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Publish bool `json:"publish"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	row, err := h.svc.Save(r.Context(), req.Publish, false)
	if err != nil {
		h.writeSaveError(w, err)
		return
	}

	h.dropCachedPages(r)
	writeJSONSuccess(w, map[string]any{
		"dirty": false,
		"post": map[string]any{
			"id":     row.ID,
			"slug":   row.Slug,
			"status": row.Status,
		},
	})
}

// writeSaveError maps save failures onto response codes: validation
// errors are 422, slug conflicts and overlapping saves 409.
func (h *EditorAPI) writeSaveError(w http.ResponseWriter, err error) {
	var vErr *editor.ValidationError
	var cErr *editor.ConflictError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"error":   vErr.Error(),
			"field":   vErr.Field,
		})
	case errors.As(err, &cErr):
		writeJSONError(w, http.StatusConflict, cErr.Error())
	case errors.Is(err, editor.ErrSaveInFlight):
		writeJSONError(w, http.StatusConflict, "a save is already in progress")
	case errors.Is(err, editor.ErrNoEditor):
		writeJSONError(w, http.StatusBadRequest, "no editor open")
	default:
		slog.Error("saving post", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "saving failed, try again")
	}
}

// Close ends the editing session. A dirty draft requires force=true,
// otherwise the client gets a 409 and should confirm with the user.
func (h *EditorAPI) Close(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Force bool `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.svc.Close(req.Force); err != nil {
		writeJSONError(w, http.StatusConflict, "unsaved_changes")
		return
	}
	writeJSONSuccess(w, nil)
}

// Slugify fills the draft slug from its title.
func (h *EditorAPI) Slugify(w http.ResponseWriter, _ *http.Request) {
	sess, err := h.svc.GenerateSlug()
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no editor open")
		return
	}
	writeJSONSuccess(w, map[string]any{"slug": sess.Draft.Slug})
}

// Excerpt fills the draft excerpt from its content.
func (h *EditorAPI) Excerpt(w http.ResponseWriter, _ *http.Request) {
	sess, err := h.svc.GenerateExcerpt()
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "no editor open")
		return
	}
	writeJSONSuccess(w, map[string]any{"excerpt": sess.Draft.Excerpt})
}

// Preview renders the open draft's markdown to sanitized HTML.
func (h *EditorAPI) Preview(w http.ResponseWriter, _ *http.Request) {
	sess := h.svc.Session()
	if !sess.Open() {
		writeJSONError(w, http.StatusBadRequest, "no editor open")
		return
	}

	html, err := markdown.Render(sess.Draft.ContentMD)
	if err != nil {
		slog.Error("rendering preview", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "preview failed")
		return
	}
	writeJSONSuccess(w, map[string]any{"html": string(html)})
}

// Cover accepts a multipart image upload, normalizes it and sets the
// draft's cover URL.
func (h *EditorAPI) Cover(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCoverUpload)
	if err := r.ParseMultipartForm(maxCoverUpload); err != nil {
		writeJSONError(w, http.StatusBadRequest, "upload too large or malformed")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.processor.Process(file)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "unsupported or corrupt image")
		return
	}

	key := media.CoverKey(result.Ext, time.Now())
	url, err := h.storage.Save(r.Context(), key, result.Data, result.MimeType)
	if err != nil {
		slog.Error("storing cover", "category", "media", "error", err)
		writeJSONError(w, http.StatusInternalServerError, "storing cover failed")
		return
	}

	if _, err := h.svc.Apply(editor.FieldPatch{CoverURL: &url}); err != nil {
		writeJSONError(w, http.StatusBadRequest, "no editor open")
		return
	}

	slog.Info("cover uploaded", "category", "media", "key", key, "width", result.Width, "height", result.Height)
	writeJSONSuccess(w, map[string]any{"url": url})
}

// dropCachedPages invalidates cached rendered post bodies after a save.
func (h *EditorAPI) dropCachedPages(r *http.Request) {
	if err := h.cache.DeletePrefix(r.Context(), postHTMLPrefix); err != nil {
		slog.Warn("invalidating page cache failed", "error", err)
	}
}
