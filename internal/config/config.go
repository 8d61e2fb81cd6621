// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from environment
// variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"INKWELL_DB_PATH" envDefault:"./data/inkwell.db"`
	SessionSecret string `env:"INKWELL_SESSION_SECRET,required"`
	ServerHost    string `env:"INKWELL_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"INKWELL_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"INKWELL_ENV" envDefault:"development"`
	LogLevel      string `env:"INKWELL_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"INKWELL_UPLOADS_DIR" envDefault:"./uploads"`

	// Site identity
	SiteName    string `env:"INKWELL_SITE_NAME" envDefault:"Inkwell"`
	SiteTagline string `env:"INKWELL_SITE_TAGLINE" envDefault:"Notes from the writing desk"`
	BaseURL     string `env:"INKWELL_BASE_URL" envDefault:"http://localhost:8080"`

	// Editor
	AutosaveInterval time.Duration `env:"INKWELL_AUTOSAVE_INTERVAL" envDefault:"12s"`

	// Cache configuration
	RedisURL     string `env:"INKWELL_REDIS_URL"`                         // Optional Redis URL for distributed caching
	CachePrefix  string `env:"INKWELL_CACHE_PREFIX" envDefault:"inkwell:"` // Redis key prefix
	CacheTTL     int    `env:"INKWELL_CACHE_TTL" envDefault:"3600"`       // Default cache TTL in seconds
	CacheMaxSize int    `env:"INKWELL_CACHE_MAX_SIZE" envDefault:"10000"` // Max memory cache entries

	// Cover storage: "local" keeps uploads on disk, "s3" pushes them to a bucket
	StorageBackend string `env:"INKWELL_STORAGE_BACKEND" envDefault:"local"`
	S3Bucket       string `env:"INKWELL_S3_BUCKET"`
	S3Region       string `env:"INKWELL_S3_REGION" envDefault:"us-east-1"`
	S3Endpoint     string `env:"INKWELL_S3_ENDPOINT"` // Optional, for S3-compatible stores
	S3AccessKey    string `env:"INKWELL_S3_ACCESS_KEY"`
	S3SecretKey    string `env:"INKWELL_S3_SECRET_KEY"`
	S3PublicURL    string `env:"INKWELL_S3_PUBLIC_URL"` // Public base URL for stored objects

	// Seeding configuration
	DoSeed        bool   `env:"INKWELL_DO_SEED" envDefault:"true"`
	AdminEmail    string `env:"INKWELL_ADMIN_EMAIL"`
	AdminPassword string `env:"INKWELL_ADMIN_PASSWORD"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// UseS3Storage returns true if cover uploads go to S3.
func (c Config) UseS3Storage() bool {
	return c.StorageBackend == "s3"
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("INKWELL_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("INKWELL_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("INKWELL_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if cfg.UseS3Storage() && cfg.S3Bucket == "" {
		return nil, fmt.Errorf("INKWELL_S3_BUCKET is required when INKWELL_STORAGE_BACKEND=s3")
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
