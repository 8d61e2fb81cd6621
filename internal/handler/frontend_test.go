package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/stats"
	"github.com/olegiv/inkwell/internal/store"
)

func newFrontend(t *testing.T) (*FrontendHandler, *scs.SessionManager) {
	t.Helper()

	db := testDB(t)
	sm := testSessionManager(t)
	return NewFrontendHandler(db, testRenderer(t, sm), testCache(t), stats.NewTracker(store.New(db), nil)), sm
}

func TestHome(t *testing.T) {
	h, sm := newFrontend(t)

	req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/", nil))
	rec := httptest.NewRecorder()
	h.Home(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Test Site") {
		t.Error("home page should carry the site name")
	}
	if !strings.Contains(rec.Body.String(), "Nothing published yet") {
		t.Error("empty site should show the placeholder text")
	}
}

func TestBlogListsOnlyPublished(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewFrontendHandler(db, testRenderer(t, sm), testCache(t), stats.NewTracker(store.New(db), nil))

	createTestPost(t, db, "published-post", model.PostStatusPublished)
	createTestPost(t, db, "draft-post", model.PostStatusDraft)

	req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/blog", nil))
	rec := httptest.NewRecorder()
	h.Blog(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "published-post") {
		t.Error("published post missing from blog index")
	}
	if strings.Contains(body, "draft-post") {
		t.Error("draft post must not appear on the blog index")
	}
}

func TestPostRendersMarkdown(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewFrontendHandler(db, testRenderer(t, sm), testCache(t), stats.NewTracker(store.New(db), nil))

	post := createTestPost(t, db, "hello-world", model.PostStatusPublished)

	req := httptest.NewRequest(http.MethodGet, "/blog/hello-world", nil)
	req = requestWithSession(sm, requestWithURLParams(req, map[string]string{"slug": "hello-world"}))
	rec := httptest.NewRecorder()
	h.Post(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, post.Title) {
		t.Error("post title missing")
	}
	if !strings.Contains(body, "<strong>hello-world</strong>") {
		t.Error("markdown body should be rendered to HTML")
	}
}

func TestPostDraftIs404(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewFrontendHandler(db, testRenderer(t, sm), testCache(t), stats.NewTracker(store.New(db), nil))

	createTestPost(t, db, "secret-draft", model.PostStatusDraft)

	req := httptest.NewRequest(http.MethodGet, "/blog/secret-draft", nil)
	req = requestWithSession(sm, requestWithURLParams(req, map[string]string{"slug": "secret-draft"}))
	rec := httptest.NewRecorder()
	h.Post(rec, req)

	assertStatus(t, rec.Code, http.StatusNotFound)
}

func TestRobotsTxt(t *testing.T) {
	h, _ := newFrontend(t)

	rec := httptest.NewRecorder()
	h.RobotsTxt(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))

	assertStatus(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Disallow: /admin") {
		t.Error("robots.txt should keep crawlers out of the admin")
	}
}
