// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler contains the HTTP handlers for the public site, the
// admin panel and the editor API.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/inkwell/internal/render"
)

// Common redirect targets.
const (
	routeRoot      = "/"
	redirectAdmin  = "/admin"
	redirectLogin  = "/admin/login"
	redirectPosts  = "/admin/posts"
	redirectEditor = "/admin/posts/new"
)

// flashAndRedirect sets a flash message and redirects.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, target, message, flashType string) {
	renderer.SetFlash(r, message, flashType)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// flashError sets an error flash message and redirects.
func flashError(w http.ResponseWriter, r *http.Request, renderer *render.Renderer, target, message string) {
	flashAndRedirect(w, r, renderer, target, message, "error")
}

// logAndInternalError logs an error and responds with a 500.
func logAndInternalError(w http.ResponseWriter, msg string, args ...any) {
	slog.Error(msg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
