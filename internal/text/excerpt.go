// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package text

import (
	"regexp"
	"strings"
)

// DefaultExcerptLength is the maximum excerpt length in characters.
const DefaultExcerptLength = 160

var (
	frontMatter = regexp.MustCompile(`(?s)\A---.*?---\s*`)
	fencedCode  = regexp.MustCompile("(?s)```.*?```")
	inlineCode  = regexp.MustCompile("`[^`]*`")
	mdImage     = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	mdLink      = regexp.MustCompile(`\[[^\]]*\]\([^)]+\)`)
	mdSymbols   = regexp.MustCompile(`[#>*_-]+`)
	whitespace  = regexp.MustCompile(`\s+`)
)

// StripMarkdown reduces markdown to plain text: the leading front matter
// block, fenced and inline code, image and link markup (text and URLs both
// discarded) and residual markdown punctuation are removed, and whitespace
// is collapsed.
func StripMarkdown(md string) string {
	s := frontMatter.ReplaceAllString(md, "")
	s = fencedCode.ReplaceAllString(s, "")
	s = inlineCode.ReplaceAllString(s, "")
	s = mdImage.ReplaceAllString(s, "")
	s = mdLink.ReplaceAllString(s, "")
	s = mdSymbols.ReplaceAllString(s, " ")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// DeriveExcerpt builds a short plain-text excerpt from markdown content.
// The text is truncated to max characters with a trailing ellipsis when it
// is longer. A max of zero or less uses DefaultExcerptLength.
func DeriveExcerpt(md string, max int) string {
	if max <= 0 {
		max = DefaultExcerptLength
	}

	t := StripMarkdown(md)
	if t == "" {
		return ""
	}

	runes := []rune(t)
	if len(runes) <= max {
		return t
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}

// StripFrontMatter removes only the leading front matter block, keeping the
// markdown body intact. Used for previews.
func StripFrontMatter(md string) string {
	return frontMatter.ReplaceAllString(md, "")
}
