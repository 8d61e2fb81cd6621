package text

import (
	"strings"
	"testing"
)

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text untouched",
			input:    "Just a sentence.",
			expected: "Just a sentence.",
		},
		{
			name:     "front matter removed",
			input:    "---\ntitle: Test\ndate: 2026-01-01\n---\nBody text.",
			expected: "Body text.",
		},
		{
			name:     "fenced code removed",
			input:    "Before\n```go\nfmt.Println(\"hi\")\n```\nAfter",
			expected: "Before After",
		},
		{
			name:     "inline code removed",
			input:    "Use `go build` to compile.",
			expected: "Use to compile.",
		},
		{
			name:     "image markup removed entirely",
			input:    "Look: ![alt text](/images/a.png) done.",
			expected: "Look: done.",
		},
		{
			name:     "link text and url discarded",
			input:    "See [the docs](https://example.com) for more.",
			expected: "See for more.",
		},
		{
			name:     "heading and emphasis markers removed",
			input:    "# Title\n\n> quote\n\nSome *bold* and _italic_ text.",
			expected: "Title quote Some bold and italic text.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StripMarkdown(tt.input)
			if result != tt.expected {
				t.Errorf("StripMarkdown(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestStripMarkdownNeverLeaksMarkers(t *testing.T) {
	inputs := []string{
		"# One\n## Two\n### Three",
		"> nested > quotes",
		"***heavy*** __emphasis__",
		"```\nfenced\n```\nand `inline`",
		"---\nfm: yes\n---\n# Post\n[l](u) ![i](u)",
	}

	for _, in := range inputs {
		out := StripMarkdown(in)
		for _, marker := range []string{"#", ">", "*", "_", "```"} {
			if strings.Contains(out, marker) {
				t.Errorf("StripMarkdown(%q) left marker %q in %q", in, marker, out)
			}
		}
	}
}

func TestDeriveExcerpt(t *testing.T) {
	t.Run("short content returned whole", func(t *testing.T) {
		got := DeriveExcerpt("A short post.", 160)
		if got != "A short post." {
			t.Errorf("got %q", got)
		}
	})

	t.Run("long content truncated with ellipsis", func(t *testing.T) {
		long := strings.Repeat("palabra ", 60)
		got := DeriveExcerpt(long, 160)
		if !strings.HasSuffix(got, "…") {
			t.Errorf("expected ellipsis suffix, got %q", got)
		}
		if n := len([]rune(strings.TrimSuffix(got, "…"))); n > 160 {
			t.Errorf("excerpt body is %d runes, want <= 160", n)
		}
	})

	t.Run("empty markdown yields empty excerpt", func(t *testing.T) {
		if got := DeriveExcerpt("```\nonly code\n```", 160); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("zero max uses default", func(t *testing.T) {
		long := strings.Repeat("x ", 200)
		got := DeriveExcerpt(long, 0)
		if !strings.HasSuffix(got, "…") {
			t.Errorf("expected truncation at default length, got %q", got)
		}
	})
}
