// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEditor is returned by operations that require an open editor.
	ErrNoEditor = errors.New("no editor open")

	// ErrSaveInFlight is returned when a save is requested while another
	// save is still outstanding. The request is dropped, not queued.
	ErrSaveInFlight = errors.New("save already in flight")

	// ErrUnsavedChanges is returned by guarded transitions when the draft
	// has unsaved edits and the caller did not confirm losing them. The
	// session is left untouched.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrConfirmationRequired is returned by Remove when the caller has not
	// confirmed the deletion. Nothing is deleted.
	ErrConfirmationRequired = errors.New("confirmation required")

	// ErrConflict marks a gateway error as a uniqueness violation. Gateway
	// implementations wrap their driver-specific conflict errors with it.
	ErrConflict = errors.New("conflict")
)

// Validation failure fields.
const (
	FieldTitle = "title"
	FieldSlug  = "slug"
)

// ValidationError blocks a save until the named field is fixed. It is fully
// recoverable by user edit; the draft keeps the rejected value.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	switch e.Field {
	case FieldTitle:
		return "title is required"
	case FieldSlug:
		return "slug is required"
	default:
		return fmt.Sprintf("invalid field %q", e.Field)
	}
}

// ConflictError reports a slug uniqueness violation with a message suitable
// for direct display.
type ConflictError struct {
	Slug string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slug %q already exists, pick another one", e.Slug)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a slug conflict.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce) || errors.Is(err, ErrConflict)
}
