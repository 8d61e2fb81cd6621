// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config holds cache creation settings.
type Config struct {
	// RedisURL enables the Redis backend when non-empty.
	RedisURL string

	// Prefix is the Redis key prefix.
	Prefix string

	// DefaultTTL is the default entry lifetime.
	DefaultTTL time.Duration

	// MaxSize caps the memory cache entry count (0 = unlimited).
	MaxSize int
}

// New creates a cache for the given configuration. When Redis is configured
// but unreachable it logs a warning and falls back to the in-memory cache
// so the site keeps serving.
func New(cfg Config, log *slog.Logger) Cacher {
	if log == nil {
		log = slog.Default()
	}
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Hour
	}

	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(RedisCacheOptions{
			URL:        cfg.RedisURL,
			Prefix:     cfg.Prefix,
			DefaultTTL: cfg.DefaultTTL,
		})
		if err == nil {
			log.Info("using redis cache", "prefix", cfg.Prefix)
			return rc
		}
		log.Warn("redis cache unavailable, falling back to memory", "error", err)
	}

	return NewMemoryCache(MemoryCacheOptions{
		DefaultTTL:      cfg.DefaultTTL,
		MaxSize:         cfg.MaxSize,
		CleanupInterval: time.Minute,
	})
}
