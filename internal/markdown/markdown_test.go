package markdown

import (
	"strings"
	"testing"
)

func TestRenderBasics(t *testing.T) {
	out, err := Render("# Title\n\nSome **bold** text.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, "<h1") || !strings.Contains(s, "Title") {
		t.Errorf("missing heading in %q", s)
	}
	if !strings.Contains(s, "<strong>bold</strong>") {
		t.Errorf("missing bold in %q", s)
	}
}

func TestRenderStripsScripts(t *testing.T) {
	out, err := Render("Hello <script>alert('x')</script> world")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(string(out), "<script") {
		t.Errorf("script tag survived sanitization: %q", out)
	}
}

func TestRenderDropsFrontMatter(t *testing.T) {
	out, err := Render("---\ntitle: X\n---\nBody text.")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	s := string(out)
	if strings.Contains(s, "title: X") {
		t.Errorf("front matter leaked: %q", s)
	}
	if !strings.Contains(s, "Body text.") {
		t.Errorf("body missing: %q", s)
	}
}

func TestRenderGFMTable(t *testing.T) {
	out, err := Render("| a | b |\n|---|---|\n| 1 | 2 |")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(string(out), "<table") {
		t.Errorf("GFM table not rendered: %q", out)
	}
}
