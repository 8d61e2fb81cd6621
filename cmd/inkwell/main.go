// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/inkwell/internal/cache"
	"github.com/olegiv/inkwell/internal/config"
	"github.com/olegiv/inkwell/internal/editor"
	"github.com/olegiv/inkwell/internal/handler"
	"github.com/olegiv/inkwell/internal/logging"
	"github.com/olegiv/inkwell/internal/media"
	"github.com/olegiv/inkwell/internal/middleware"
	"github.com/olegiv/inkwell/internal/render"
	"github.com/olegiv/inkwell/internal/scheduler"
	"github.com/olegiv/inkwell/internal/session"
	"github.com/olegiv/inkwell/internal/stats"
	"github.com/olegiv/inkwell/internal/store"
	"github.com/olegiv/inkwell/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Inkwell - personal author site\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_DB_PATH           SQLite database path (default: ./data/inkwell.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_UPLOADS_DIR       Cover upload directory (default: ./uploads)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_STORAGE_BACKEND   Cover storage: local|s3 (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INKWELL_REDIS_URL         Redis URL for page caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("inkwell %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Page cache
	pageCache := cache.New(cache.Config{
		RedisURL:   cfg.RedisURL,
		Prefix:     cfg.CachePrefix,
		DefaultTTL: time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:    cfg.CacheMaxSize,
	}, logger)
	defer func() { _ = pageCache.Close() }()
	if cfg.UseRedisCache() {
		slog.Info("page cache initialized", "backend", "redis", "prefix", cfg.CachePrefix)
	} else {
		slog.Info("page cache initialized", "backend", "memory")
	}

	// Template renderer
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		SiteName:       cfg.SiteName,
		SiteTagline:    cfg.SiteTagline,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Cover storage
	var coverStorage media.Storage
	if cfg.UseS3Storage() {
		coverStorage, err = media.NewS3Storage(ctx, media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			PublicURL: cfg.S3PublicURL,
		})
		if err != nil {
			return fmt.Errorf("initializing S3 storage: %w", err)
		}
		slog.Info("cover storage initialized", "backend", "s3", "bucket", cfg.S3Bucket)
	} else {
		if err := os.MkdirAll(cfg.UploadsDir, 0755); err != nil {
			return fmt.Errorf("creating uploads directory: %w", err)
		}
		coverStorage = media.NewLocalStorage(cfg.UploadsDir, "/uploads")
		slog.Info("cover storage initialized", "backend", "local", "dir", cfg.UploadsDir)
	}

	// Editor service and autosave loop
	queries := store.New(db)
	editorSvc := editor.NewService(editor.NewStoreGateway(queries), editor.WithLogger(logger))
	if err := editorSvc.Refresh(ctx); err != nil {
		return fmt.Errorf("loading posts: %w", err)
	}

	runnerCtx, stopRunner := context.WithCancel(ctx)
	defer stopRunner()
	go editor.NewRunner(editorSvc, cfg.AutosaveInterval, logger).Run(runnerCtx)
	slog.Info("autosave runner started", "interval", cfg.AutosaveInterval)

	// Nightly maintenance
	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Handlers
	tracker := stats.NewTracker(queries, logger)
	authHandler := handler.NewAuthHandler(db, renderer, sessionManager)
	frontendHandler := handler.NewFrontendHandler(db, renderer, pageCache, tracker)
	adminHandler := handler.NewAdminHandler(db, renderer, editorSvc, pageCache, cfg.AutosaveInterval)
	editorAPI := handler.NewEditorAPI(editorSvc, media.NewProcessor(), coverStorage, pageCache)

	// Router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF([]byte(cfg.SessionSecret), cfg.IsDevelopment())
	loginLimiter := middleware.NewLoginLimiter(0.5, 5)

	// Public site
	r.Group(func(r chi.Router) {
		r.Get("/", frontendHandler.Home)
		r.Get("/blog", frontendHandler.Blog)
		r.Get("/blog/{slug}", frontendHandler.Post)
		r.Get("/robots.txt", frontendHandler.RobotsTxt)
	})

	// Auth routes
	r.Group(func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Get("/admin/login", authHandler.LoginForm)
		r.With(loginLimiter.Middleware).Post("/admin/login", authHandler.Login)
		r.Post("/admin/logout", authHandler.Logout)
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))
		r.Use(middleware.RequireAuthor)

		r.Get("/", adminHandler.Dashboard)
		r.Get("/posts", adminHandler.Posts)
		r.Get("/posts/new", adminHandler.NewPost)
		r.Get("/posts/{id}/edit", adminHandler.EditPost)
		r.Post("/posts/{id}/toggle", adminHandler.Toggle)
		r.Post("/posts/{id}/delete", adminHandler.Delete)

		r.Route("/api/editor", func(r chi.Router) {
			r.Get("/state", editorAPI.State)
			r.Post("/fields", editorAPI.Fields)
			r.Post("/save", editorAPI.Save)
			r.Post("/close", editorAPI.Close)
			r.Post("/slugify", editorAPI.Slugify)
			r.Post("/excerpt", editorAPI.Excerpt)
			r.Post("/preview", editorAPI.Preview)
			r.Post("/cover", editorAPI.Cover)
		})
	})

	// Static assets from the embedded filesystem
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Uploaded covers from disk (local storage backend)
	if !cfg.UseS3Storage() {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadsDir))))
	}

	r.NotFound(frontendHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
