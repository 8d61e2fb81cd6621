// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package editor

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/olegiv/inkwell/internal/model"
)

// payload is the normalized write shape: trimmed strings, null-coalesced
// cover URL, timestamps in RFC 3339 UTC. Field order is fixed so the JSON
// encoding, and therefore the signature, is deterministic.
type payload struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Excerpt     string  `json:"excerpt"`
	Category    string  `json:"category"`
	ContentMD   string  `json:"content_md"`
	CoverURL    *string `json:"cover_url"`
	Featured    bool    `json:"featured"`
	Status      string  `json:"status"`
	PublishedAt *string `json:"published_at"`
}

func normalize(p model.Post) payload {
	pl := payload{
		Slug:      strings.TrimSpace(p.Slug),
		Title:     strings.TrimSpace(p.Title),
		Excerpt:   strings.TrimSpace(p.Excerpt),
		Category:  p.Category,
		ContentMD: p.ContentMD,
		Featured:  p.Featured,
		Status:    p.Status,
	}
	if pl.Category == "" {
		pl.Category = model.DefaultCategory
	}
	if cover := strings.TrimSpace(p.CoverURL.String); p.CoverURL.Valid && cover != "" {
		pl.CoverURL = &cover
	}
	if p.PublishedAt.Valid {
		ts := p.PublishedAt.Time.UTC().Format(time.RFC3339Nano)
		pl.PublishedAt = &ts
	}
	return pl
}

func (pl payload) signature() string {
	b, _ := json.Marshal(pl)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// apply copies the normalized payload back onto a post, keeping identity
// and timestamps untouched.
func (pl payload) apply(p *model.Post) {
	p.Slug = pl.Slug
	p.Title = pl.Title
	p.Excerpt = pl.Excerpt
	p.Category = pl.Category
	p.ContentMD = pl.ContentMD
	p.Featured = pl.Featured
	p.Status = pl.Status
	if pl.CoverURL != nil {
		p.CoverURL = sql.NullString{String: *pl.CoverURL, Valid: true}
	} else {
		p.CoverURL = sql.NullString{}
	}
	if pl.PublishedAt != nil {
		if t, err := time.Parse(time.RFC3339Nano, *pl.PublishedAt); err == nil {
			p.PublishedAt = sql.NullTime{Time: t, Valid: true}
		}
	} else {
		p.PublishedAt = sql.NullTime{}
	}
}

// Signature returns the normalized-payload hash of a post. Two posts whose
// persisted fields are equal after normalization share a signature.
func Signature(p model.Post) string {
	return normalize(p).signature()
}
