// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package editor implements the post editing session: an in-memory draft
// with dirty tracking, a guarded state machine for opening and closing
// posts, the save protocol with slug conflict handling, and the periodic
// autosave that reconciles dirty drafts back to the store.
package editor

import (
	"github.com/olegiv/inkwell/internal/model"
)

// NewID is the draft ID sentinel for a post that has never been persisted.
const NewID = "NEW"

// DefaultCoverURL is the placeholder cover seeded into new drafts.
const DefaultCoverURL = "/static/img/cover-placeholder.svg"

// State is the editor state.
type State int

const (
	// StateClosed means no editor is open.
	StateClosed State = iota
	// StateEditingNew means the draft has never been persisted (ID is NewID).
	StateEditingNew
	// StateEditingExisting means the draft mirrors a persisted post.
	StateEditingExisting
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateEditingNew:
		return "editing-new"
	case StateEditingExisting:
		return "editing-existing"
	default:
		return "unknown"
	}
}

// Session is the ephemeral editing state. Draft is meaningful only when
// State is not StateClosed. Dirty is true iff Draft diverges from the last
// successfully persisted payload, compared by normalized-payload signature
// rather than struct equality.
type Session struct {
	State State

	// Draft is the in-memory copy of the post being edited.
	Draft model.Post

	// Dirty is set by any field mutation and cleared by a successful save.
	Dirty bool

	// LastSavedSignature is the signature of the last payload successfully
	// written, used to suppress redundant autosave writes.
	LastSavedSignature string
}

// Open reports whether an editor is open.
func (s Session) Open() bool {
	return s.State != StateClosed
}

// IsNew reports whether the open draft has never been persisted.
func (s Session) IsNew() bool {
	return s.State == StateEditingNew
}

// newDraft seeds the default field values for a brand-new post.
func newDraft() model.Post {
	p := model.Post{
		ID:       NewID,
		Category: model.DefaultCategory,
		Status:   model.PostStatusDraft,
	}
	p.CoverURL.String = DefaultCoverURL
	p.CoverURL.Valid = true
	return p
}

// applyServerRow is the pure "adopt server-confirmed state" transition:
// given the current session and the row the store returned, it produces the
// next session with the server row as the draft, dirty cleared and the
// written payload recorded as the last saved signature.
func applyServerRow(s Session, row model.Post, writtenSig string) Session {
	return Session{
		State:              StateEditingExisting,
		Draft:              row,
		Dirty:              false,
		LastSavedSignature: writtenSig,
	}
}
