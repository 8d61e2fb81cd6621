package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/olegiv/inkwell/internal/middleware"
	"github.com/olegiv/inkwell/internal/model"
)

func loginRequest(email, password string) *http.Request {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginFormRenders(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	req := requestWithSession(sm, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	rec := httptest.NewRecorder()
	h.LoginForm(rec, req)

	assertStatus(t, rec.Code, http.StatusOK)
	if !strings.Contains(rec.Body.String(), "Sign in") {
		t.Error("login page should render the sign-in form")
	}
}

func TestLoginSuccess(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	user := createTestUser(t, db, "admin@example.com", "correct horse", model.RoleAdmin)

	req := requestWithSession(sm, loginRequest("admin@example.com", "correct horse"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != redirectAdmin {
		t.Errorf("Location = %q, want %q", loc, redirectAdmin)
	}
	if got := sm.GetInt64(req.Context(), middleware.SessionKeyUserID); got != user.ID {
		t.Errorf("session user id = %d, want %d", got, user.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	createTestUser(t, db, "admin@example.com", "correct horse", model.RoleAdmin)

	req := requestWithSession(sm, loginRequest("admin@example.com", "battery staple"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != redirectLogin {
		t.Errorf("Location = %q, want %q", loc, redirectLogin)
	}
	if got := sm.GetInt64(req.Context(), middleware.SessionKeyUserID); got != 0 {
		t.Error("failed login must not set a session user")
	}
}

func TestLoginUnknownUser(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	req := requestWithSession(sm, loginRequest("nobody@example.com", "whatever"))
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != redirectLogin {
		t.Errorf("Location = %q, want %q", loc, redirectLogin)
	}
}

func TestLogout(t *testing.T) {
	db := testDB(t)
	sm := testSessionManager(t)
	h := NewAuthHandler(db, testRenderer(t, sm), sm)

	req := requestWithSession(sm, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))
	sm.Put(req.Context(), middleware.SessionKeyUserID, int64(1))

	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	assertStatus(t, rec.Code, http.StatusSeeOther)
	if loc := rec.Header().Get("Location"); loc != redirectLogin {
		t.Errorf("Location = %q, want %q", loc, redirectLogin)
	}
}
