package handler

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/inkwell/internal/editor"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/store"
)

func newAdmin(t *testing.T) (*AdminHandler, *sql.DB, *scs.SessionManager) {
	t.Helper()

	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAdminHandler(db, testRenderer(t, sm), testEditorService(t, db), testCache(t), 12*time.Second)
	return h, db, sm
}

func TestDashboard(t *testing.T) {
	h, db, sm := newAdmin(t)

	createTestPost(t, db, "live-one", model.PostStatusPublished)
	createTestPost(t, db, "live-two", model.PostStatusPublished)
	createTestPost(t, db, "wip", model.PostStatusDraft)

	req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/admin", nil))
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "Dashboard") {
		t.Error("dashboard title missing")
	}
}

func TestPostsList(t *testing.T) {
	h, db, sm := newAdmin(t)

	createTestPost(t, db, "alpha", model.PostStatusPublished)
	createTestPost(t, db, "beta", model.PostStatusDraft)

	req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/admin/posts", nil))
	rec := httptest.NewRecorder()
	h.Posts(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if !strings.Contains(body, "Post alpha") || !strings.Contains(body, "Post beta") {
		t.Error("both posts should appear in the management list")
	}
}

func TestPostsListStatusFilter(t *testing.T) {
	h, db, sm := newAdmin(t)

	createTestPost(t, db, "alpha", model.PostStatusPublished)
	createTestPost(t, db, "beta", model.PostStatusDraft)

	req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/admin/posts?status=draft", nil))
	rec := httptest.NewRecorder()
	h.Posts(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	body := rec.Body.String()
	if strings.Contains(body, "Post alpha") {
		t.Error("published post should be filtered out")
	}
	if !strings.Contains(body, "Post beta") {
		t.Error("draft post should remain")
	}
}

func TestNewPostOpensEditor(t *testing.T) {
	h, _, sm := newAdmin(t)

	req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/admin/posts/new", nil))
	rec := httptest.NewRecorder()
	h.NewPost(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	if !h.svc.Session().IsNew() {
		t.Error("a fresh draft should be open")
	}
}

func TestNewPostBouncesOnDirtyDraft(t *testing.T) {
	h, db, sm := newAdmin(t)

	post := createTestPost(t, db, "in-progress", model.PostStatusDraft)
	if err := h.svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := h.svc.StartEdit(context.Background(), post.ID, false); err != nil {
		t.Fatalf("StartEdit: %v", err)
	}
	title := "Changed"
	if _, err := h.svc.Apply(editor.FieldPatch{Title: &title}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/admin/posts/new", nil))
	rec := httptest.NewRecorder()
	h.NewPost(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	want := "/admin/posts/" + post.ID + "/edit?intent=" + url.QueryEscape("/admin/posts/new?force=1")
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q, want %q", loc, want)
	}
}

func TestEditPostBouncesOnDirtyDraft(t *testing.T) {
	h, db, sm := newAdmin(t)

	post := createTestPost(t, db, "target", model.PostStatusDraft)
	if err := h.svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if _, err := h.svc.StartNew(false); err != nil {
		t.Fatalf("StartNew: %v", err)
	}
	title := "Half written"
	if _, err := h.svc.Apply(editor.FieldPatch{Title: &title}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/posts/"+post.ID+"/edit", nil)
	req = requestWithSession(sm, requestWithURLParams(req, map[string]string{"id": post.ID}))
	rec := httptest.NewRecorder()
	h.EditPost(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	want := redirectEditor + "?intent=" + url.QueryEscape("/admin/posts/"+post.ID+"/edit?force=1")
	if loc := rec.Header().Get("Location"); loc != want {
		t.Errorf("Location = %q, want %q", loc, want)
	}
}

func TestEditPostNotFound(t *testing.T) {
	h, _, sm := newAdmin(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/posts/missing/edit", nil)
	req = requestWithSession(sm, requestWithURLParams(req, map[string]string{"id": "missing"}))
	rec := httptest.NewRecorder()
	h.EditPost(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != redirectPosts {
		t.Errorf("Location = %q, want %q", loc, redirectPosts)
	}
}

func TestToggleFlipsStatus(t *testing.T) {
	h, db, sm := newAdmin(t)

	post := createTestPost(t, db, "toggle-me", model.PostStatusDraft)
	if err := h.svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/admin/posts/"+post.ID+"/toggle", nil)
	req = requestWithSession(sm, requestWithURLParams(req, map[string]string{"id": post.ID}))
	rec := httptest.NewRecorder()
	h.Toggle(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)

	stored, err := store.New(db).GetPostBySlug(context.Background(), "toggle-me")
	if err != nil {
		t.Fatalf("fetching post: %v", err)
	}
	if stored.Status != model.PostStatusPublished {
		t.Errorf("status = %q, want published", stored.Status)
	}
	if !stored.PublishedAt.Valid {
		t.Error("publishing should stamp published_at")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	h, db, sm := newAdmin(t)

	post := createTestPost(t, db, "doomed", model.PostStatusDraft)
	if err := h.svc.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	form := url.Values{}
	req := httptest.NewRequest(http.MethodPost, "/admin/posts/"+post.ID+"/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(sm, requestWithURLParams(req, map[string]string{"id": post.ID}))
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if _, err := store.New(db).GetPostBySlug(context.Background(), "doomed"); err != nil {
		t.Fatal("unconfirmed delete must not remove the post")
	}

	form.Set("confirmed", "1")
	req = httptest.NewRequest(http.MethodPost, "/admin/posts/"+post.ID+"/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = requestWithSession(sm, requestWithURLParams(req, map[string]string{"id": post.ID}))
	rec = httptest.NewRecorder()
	h.Delete(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if _, err := store.New(db).GetPostBySlug(context.Background(), "doomed"); err == nil {
		t.Fatal("confirmed delete should remove the post")
	}
}
