package handler

import (
	"context"
	"database/sql"
	"io/fs"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/olegiv/inkwell/internal/auth"
	"github.com/olegiv/inkwell/internal/cache"
	"github.com/olegiv/inkwell/internal/editor"
	"github.com/olegiv/inkwell/internal/model"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/store"
	"github.com/olegiv/inkwell/web"
)

// testDB creates a migrated SQLite database for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := store.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// testSessionManager creates an in-memory session manager for testing.
func testSessionManager(t *testing.T) *scs.SessionManager {
	t.Helper()
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	return sm
}

// testRenderer builds a renderer over the embedded templates.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("getting templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		SiteName:       "Test Site",
		SiteTagline:    "Testing",
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("initializing renderer: %v", err)
	}
	return renderer
}

// testCache creates a small memory cache closed with the test.
func testCache(t *testing.T) cache.Cacher {
	t.Helper()
	c := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// testEditorService builds an editor service over the real store gateway.
func testEditorService(t *testing.T, db *sql.DB) *editor.Service {
	t.Helper()
	svc := editor.NewService(editor.NewStoreGateway(store.New(db)))
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refreshing editor service: %v", err)
	}
	return svc
}

// createTestPost inserts a post directly through the store.
func createTestPost(t *testing.T, db *sql.DB, slug, status string) model.Post {
	t.Helper()

	now := time.Now()
	var publishedAt sql.NullTime
	if status == model.PostStatusPublished {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	post, err := store.New(db).CreatePost(context.Background(), store.CreatePostParams{
		ID:          uuid.NewString(),
		Slug:        slug,
		Title:       "Post " + slug,
		Excerpt:     "Excerpt for " + slug,
		Category:    model.DefaultCategory,
		ContentMD:   "# Heading\n\nBody of **" + slug + "**.",
		Status:      status,
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("creating test post: %v", err)
	}
	return post
}

// createTestUser inserts a user and returns it.
func createTestUser(t *testing.T, db *sql.DB, email, password, role string) model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	now := time.Now()
	user, err := store.New(db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// requestWithSession wraps a request with a loaded session context.
func requestWithSession(sm *scs.SessionManager, r *http.Request) *http.Request {
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		return r
	}
	return r.WithContext(ctx)
}

// assertStatus checks the response status code.
func assertStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status = %d; want %d", got, want)
	}
}
