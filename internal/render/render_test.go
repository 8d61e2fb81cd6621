package render

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/inkwell/web"
)

func testRenderer(t *testing.T) (*Renderer, *scs.SessionManager) {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("getting templates fs: %v", err)
	}

	sm := scs.New()
	sm.Lifetime = time.Hour

	r, err := New(Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		SiteName:       "Inkwell",
		SiteTagline:    "Notes and essays",
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}
	return r, sm
}

func TestAllEmbeddedTemplatesParse(t *testing.T) {
	r, _ := testRenderer(t)

	for _, name := range []string{
		"site/home", "site/blog", "site/post", "site/404",
		"auth/login",
		"admin/dashboard", "admin/posts", "admin/editor",
	} {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %s did not parse", name)
		}
	}
}

func TestRenderFillsDefaults(t *testing.T) {
	r, sm := testRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/blog", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	if err := r.Render(rec, req, "site/404", TemplateData{Title: "Not found"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "Inkwell") {
		t.Error("site name missing from rendered page")
	}
	if got := rec.Header().Get("Content-Type"); got != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", got)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, _ := testRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if err := r.Render(httptest.NewRecorder(), req, "site/nope", TemplateData{}); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestFlashPoppedOnce(t *testing.T) {
	r, sm := testRenderer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx, err := sm.Load(req.Context(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	req = req.WithContext(ctx)

	r.SetFlash(req, "Saved", "success")

	rec := httptest.NewRecorder()
	if err := r.Render(rec, req, "site/404", TemplateData{Title: "Not found"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(rec.Body.String(), "Saved") {
		t.Error("flash message should render on the first page")
	}

	rec = httptest.NewRecorder()
	if err := r.Render(rec, req, "site/404", TemplateData{Title: "Not found"}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(rec.Body.String(), "Saved") {
		t.Error("flash message must not survive a second render")
	}
}

func TestTruncateFunc(t *testing.T) {
	r, _ := testRenderer(t)

	fn := r.templateFuncs()["truncate"].(func(string, int) string)
	if got := fn("hello world", 5); got != "hello..." {
		t.Errorf("truncate = %q", got)
	}
	if got := fn("hi", 5); got != "hi" {
		t.Errorf("truncate short = %q", got)
	}
}
