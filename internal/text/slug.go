// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package text provides pure text derivation helpers: URL slug generation
// and plain-text excerpt extraction from markdown. Both are invoked on
// demand and never overwrite user-edited fields on their own.
package text

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// slugStrip matches characters outside word characters, whitespace and hyphens
	slugStrip = regexp.MustCompile(`[^\w\s-]+`)
	// slugSpaces matches runs of whitespace
	slugSpaces = regexp.MustCompile(`\s+`)
	// multipleHyphens matches multiple consecutive hyphens
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Slugify converts a string to a URL-friendly slug: accents are decomposed
// and removed, the result is lowercased and trimmed, characters outside
// word characters/whitespace/hyphens are stripped, whitespace runs collapse
// to single hyphens and repeated hyphens collapse to one.
// Slugify is idempotent: Slugify(Slugify(s)) == Slugify(s).
func Slugify(s string) string {
	// Normalize unicode characters (decompose accents)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)

	result = strings.ToLower(strings.TrimSpace(result))
	result = slugStrip.ReplaceAllString(result, "")
	result = slugSpaces.ReplaceAllString(result, "-")
	result = multipleHyphens.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-_")

	return result
}

// IsValidSlug checks if a string is a valid slug format: non-empty,
// lowercase letters, digits, underscores and single hyphens, not starting
// or ending with a hyphen.
func IsValidSlug(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}

	if s[0] == '-' || s[len(s)-1] == '-' {
		return false
	}

	return !strings.Contains(s, "--")
}
