// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/text"
)

// Service owns the editing session, the admin list cache and the save
// protocol. A single mutex serializes session access; gateway calls run
// outside the lock with a boolean in-flight guard so an overlapping save
// request is dropped instead of queued. Two mutations issued in quick
// succession are not mutually ordered beyond that guard; the last write
// wins.
type Service struct {
	mu      sync.Mutex
	gw      Gateway
	now     func() time.Time
	log     *slog.Logger
	session Session
	saving  bool
	cache   ListCache

	// gen increments whenever the session is replaced (open, close,
	// delete). A save captures it at start and adopts the server row only
	// if it is unchanged, so a response arriving after the session was
	// torn down or switched cannot revive it.
	gen uint64
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects a time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates an editor service over the given gateway.
func NewService(gw Gateway, opts ...Option) *Service {
	s := &Service{
		gw:  gw,
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Session returns a snapshot of the current editing state.
func (s *Service) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// Posts returns a copy of the cached admin list.
func (s *Service) Posts() []model.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Posts()
}

// Refresh reloads the admin list from the gateway.
func (s *Service) Refresh(ctx context.Context) error {
	posts, err := s.gw.ListPosts(ctx)
	if err != nil {
		return fmt.Errorf("loading posts: %w", err)
	}
	s.mu.Lock()
	s.cache.Replace(posts, s.now())
	s.mu.Unlock()
	return nil
}

// StartNew opens the editor on a brand-new draft with default fields.
// When the current draft is dirty the transition must be forced, otherwise
// ErrUnsavedChanges is returned and nothing changes.
func (s *Service) StartNew(force bool) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.Dirty && !force {
		return s.session, ErrUnsavedChanges
	}
	s.gen++
	s.session = Session{
		State: StateEditingNew,
		Draft: newDraft(),
	}
	return s.session, nil
}

// StartEdit opens the editor on an existing post, cloned from the cached
// list or fetched from the gateway when absent. The dirty guard applies as
// in StartNew.
func (s *Service) StartEdit(ctx context.Context, id string, force bool) (Session, error) {
	s.mu.Lock()
	if s.session.Dirty && !force {
		defer s.mu.Unlock()
		return s.session, ErrUnsavedChanges
	}
	post, ok := s.cache.Get(id)
	s.mu.Unlock()

	if !ok {
		var err error
		post, err = s.gw.GetPost(ctx, id)
		if err != nil {
			return s.Session(), fmt.Errorf("loading post %s: %w", id, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.session = Session{
		State:              StateEditingExisting,
		Draft:              post,
		LastSavedSignature: Signature(post),
	}
	return s.session, nil
}

// Close clears the editing session, guarded by the dirty confirmation.
// Closing an already closed editor is a no-op.
func (s *Service) Close(force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Open() {
		return nil
	}
	if s.session.Dirty && !force {
		return ErrUnsavedChanges
	}
	s.gen++
	s.session = Session{}
	return nil
}

// FieldPatch carries edits to apply to the open draft. Nil fields are left
// untouched. An empty CoverURL clears the cover.
type FieldPatch struct {
	Title     *string
	Slug      *string
	Excerpt   *string
	Category  *string
	ContentMD *string
	CoverURL  *string
	Featured  *bool
}

// Apply mutates the open draft and marks the session dirty.
func (s *Service) Apply(patch FieldPatch) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Open() {
		return s.session, ErrNoEditor
	}

	d := &s.session.Draft
	if patch.Title != nil {
		d.Title = *patch.Title
	}
	if patch.Slug != nil {
		d.Slug = *patch.Slug
	}
	if patch.Excerpt != nil {
		d.Excerpt = *patch.Excerpt
	}
	if patch.Category != nil {
		d.Category = *patch.Category
	}
	if patch.ContentMD != nil {
		d.ContentMD = *patch.ContentMD
	}
	if patch.CoverURL != nil {
		if *patch.CoverURL == "" {
			d.CoverURL = sql.NullString{}
		} else {
			d.CoverURL = sql.NullString{String: *patch.CoverURL, Valid: true}
		}
	}
	if patch.Featured != nil {
		d.Featured = *patch.Featured
	}
	s.session.Dirty = true
	return s.session, nil
}

// GenerateSlug fills the draft slug from its title. Button-triggered; it
// overwrites the slug field only when invoked, never on its own.
func (s *Service) GenerateSlug() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Open() {
		return s.session, ErrNoEditor
	}
	s.session.Draft.Slug = text.Slugify(s.session.Draft.Title)
	s.session.Dirty = true
	return s.session, nil
}

// GenerateExcerpt fills the draft excerpt from its markdown content.
// Button-triggered, like GenerateSlug.
func (s *Service) GenerateExcerpt() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.session.Open() {
		return s.session, ErrNoEditor
	}
	s.session.Draft.Excerpt = text.DeriveExcerpt(s.session.Draft.ContentMD, text.DefaultExcerptLength)
	s.session.Dirty = true
	return s.session, nil
}

// buildPayload validates the draft and computes the normalized write:
// trimmed title (required), explicit or title-derived slug (required),
// target status and the published timestamp rule — keep the existing value
// when the post stays published, stamp now when newly publishing, null
// otherwise.
func (s *Service) buildPayload(draft model.Post, publish bool, now time.Time) (model.Post, payload, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return model.Post{}, payload{}, &ValidationError{Field: FieldTitle}
	}

	slug := strings.TrimSpace(draft.Slug)
	if slug == "" {
		slug = text.Slugify(title)
	}
	if slug == "" {
		return model.Post{}, payload{}, &ValidationError{Field: FieldSlug}
	}

	status := draft.Status
	if publish {
		status = model.PostStatusPublished
	}

	var publishedAt sql.NullTime
	switch {
	case draft.Status == model.PostStatusPublished && status == model.PostStatusPublished:
		publishedAt = draft.PublishedAt
	case status == model.PostStatusPublished:
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	target := draft
	target.Title = title
	target.Slug = slug
	target.Status = status
	target.PublishedAt = publishedAt

	pl := normalize(target)
	pl.apply(&target)
	return target, pl, nil
}

// Save persists the open draft. publish requests the published status;
// silent suppresses the saved log line (autosave path). On success the
// list cache is refreshed, the draft is replaced with the row the store
// returned and the written payload signature is recorded. On failure the
// draft is left exactly as the user had it so they can retry.
func (s *Service) Save(ctx context.Context, publish, silent bool) (model.Post, error) {
	s.mu.Lock()
	if !s.session.Open() {
		s.mu.Unlock()
		return model.Post{}, ErrNoEditor
	}
	if s.saving {
		s.mu.Unlock()
		return model.Post{}, ErrSaveInFlight
	}

	now := s.now()
	target, pl, err := s.buildPayload(s.session.Draft, publish, now)
	if err != nil {
		s.mu.Unlock()
		return model.Post{}, err
	}
	sig := pl.signature()
	isNew := s.session.IsNew()
	gen := s.gen
	s.saving = true
	s.mu.Unlock()

	var row model.Post
	if isNew {
		target.CreatedAt = now
		target.UpdatedAt = now
		row, err = s.gw.InsertPost(ctx, target)
	} else {
		target.UpdatedAt = now
		row, err = s.gw.UpdatePost(ctx, target)
	}

	if err != nil {
		s.mu.Lock()
		s.saving = false
		s.mu.Unlock()
		if errors.Is(err, ErrConflict) {
			return model.Post{}, &ConflictError{Slug: target.Slug}
		}
		return model.Post{}, fmt.Errorf("saving post: %w", err)
	}

	posts, listErr := s.gw.ListPosts(ctx)

	s.mu.Lock()
	s.saving = false
	if listErr == nil {
		s.cache.Replace(posts, s.now())
	}
	// Adopt the row only if the session the save started from is still
	// the open one; a close or forced switch that landed mid-flight must
	// not be undone by this stale response.
	if s.gen == gen {
		s.session = applyServerRow(s.session, row, sig)
	}
	s.mu.Unlock()

	if listErr != nil {
		s.log.Warn("refreshing post list after save", "error", listErr)
	}
	if !silent {
		s.log.Info("post saved", "id", row.ID, "slug", row.Slug, "status", row.Status)
	}
	return row, nil
}

// AutosaveTick runs one autosave pass. It is a no-op when no editor is
// open, the draft has never been persisted, nothing is dirty or a save is
// in flight. When the draft's normalized payload matches the last saved
// signature (the user edited and then reverted) it clears dirty without
// writing. Otherwise it performs a silent save. The returned bool reports
// whether a write happened.
func (s *Service) AutosaveTick(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if !s.session.Open() || s.session.IsNew() || !s.session.Dirty || s.saving {
		s.mu.Unlock()
		return false, nil
	}

	_, pl, err := s.buildPayload(s.session.Draft, false, s.now())
	if err != nil {
		// Draft is not saveable right now (e.g. title cleared); leave it
		// for the user and try again next tick.
		s.mu.Unlock()
		return false, err
	}
	if pl.signature() == s.session.LastSavedSignature {
		s.session.Dirty = false
		s.mu.Unlock()
		return false, nil
	}
	s.mu.Unlock()

	if _, err := s.Save(ctx, false, true); err != nil {
		if errors.Is(err, ErrSaveInFlight) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ToggleStatus flips a post between draft and published directly against
// the store, independent of the editor. publishedAt is stamped on publish
// and cleared on unpublish. When the toggled post is open in the editor
// its draft is replaced with the server row; the dirty flag is left as is.
func (s *Service) ToggleStatus(ctx context.Context, id string) (model.Post, error) {
	s.mu.Lock()
	post, ok := s.cache.Get(id)
	s.mu.Unlock()

	if !ok {
		var err error
		post, err = s.gw.GetPost(ctx, id)
		if err != nil {
			return model.Post{}, fmt.Errorf("loading post %s: %w", id, err)
		}
	}

	now := s.now()
	next := model.PostStatusPublished
	var publishedAt sql.NullTime
	if post.IsPublished() {
		next = model.PostStatusDraft
	} else {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	row, err := s.gw.SetStatus(ctx, id, next, publishedAt, now)
	if err != nil {
		return model.Post{}, fmt.Errorf("toggling post %s: %w", id, err)
	}

	posts, listErr := s.gw.ListPosts(ctx)

	s.mu.Lock()
	if listErr == nil {
		s.cache.Replace(posts, s.now())
	}
	if s.session.Open() && s.session.Draft.ID == id {
		s.session.Draft = row
	}
	s.mu.Unlock()

	if listErr != nil {
		s.log.Warn("refreshing post list after toggle", "error", listErr)
	}
	s.log.Info("post status toggled", "id", row.ID, "status", row.Status)
	return row, nil
}

// Remove deletes a post by ID. The caller must pass confirmed=true, the
// deletion is irrevocable. When the deleted post is open in the editor the
// session is closed and its dirty flag cleared.
func (s *Service) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	if err := s.gw.DeletePost(ctx, id); err != nil {
		return fmt.Errorf("deleting post %s: %w", id, err)
	}

	posts, listErr := s.gw.ListPosts(ctx)

	s.mu.Lock()
	if listErr == nil {
		s.cache.Replace(posts, s.now())
	}
	if s.session.Open() && s.session.Draft.ID == id {
		s.gen++
		s.session = Session{}
	}
	s.mu.Unlock()

	if listErr != nil {
		s.log.Warn("refreshing post list after delete", "error", listErr)
	}
	s.log.Info("post deleted", "id", id)
	return nil
}
