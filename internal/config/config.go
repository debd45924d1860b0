// Package config loads the gateway configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// Config holds the gateway configuration.
type Config struct {
	Server      ServerConfig
	Meilisearch MeilisearchConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	Search      SearchConfig
	Log         LogConfig

	// AdminJWTSecret verifies bearer tokens on /admin routes
	AdminJWTSecret string
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string
	Port int
	// CORSOrigins is the comma separated STORE_CORS allow list
	CORSOrigins []string
}

// MeilisearchConfig holds the search index connection.
type MeilisearchConfig struct {
	Host   string
	APIKey string
}

// RedisConfig holds the Redis connection URLs.
type RedisConfig struct {
	// URL backs the cached primary search capability and the reindex lock
	URL string
	// EventsURL and WorkflowURL are probed by /admin/redis-health
	EventsURL   string
	WorkflowURL string
}

// DatabaseConfig holds the catalog database connection.
type DatabaseConfig struct {
	URL string
}

// SearchConfig holds search routing and reindex tuning.
type SearchConfig struct {
	CacheTTL       time.Duration
	PrimaryTimeout time.Duration
	SlowWarning    time.Duration
	ReindexBatch   int
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string
}

// Load reads the environment. Values ending in _FILE name a file holding
// the value (Docker secrets).
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:        getEnvOrDefault("HOST", "0.0.0.0"),
			Port:        getEnvIntOrDefault("PORT", 9000),
			CORSOrigins: splitList(getEnvOrDefault("STORE_CORS", "")),
		},
		Meilisearch: MeilisearchConfig{
			Host:   getEnvOrDefault("MEILISEARCH_HOST", ""),
			APIKey: getEnvOrDefault("MEILISEARCH_API_KEY", ""),
		},
		Redis: RedisConfig{
			URL:         getEnvOrDefault("REDIS_URL", ""),
			EventsURL:   getEnvOrDefault("EVENTS_REDIS_URL", "redis://localhost:6379"),
			WorkflowURL: getEnvOrDefault("WE_REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Search: SearchConfig{
			CacheTTL:       time.Duration(getEnvIntOrDefault("SEARCH_CACHE_TTL_SEC", 60)) * time.Second,
			PrimaryTimeout: time.Duration(getEnvIntOrDefault("SEARCH_PRIMARY_TIMEOUT_MS", 2000)) * time.Millisecond,
			SlowWarning:    time.Duration(getEnvIntOrDefault("SLOW_SEARCH_WARN_MS", 500)) * time.Millisecond,
			ReindexBatch:   getEnvIntOrDefault("REINDEX_BATCH_SIZE", 100),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
		},
		AdminJWTSecret: getEnvOrDefault("ADMIN_JWT_SECRET", getEnvOrDefault("JWT_SECRET", "")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing or malformed setting as a
// *domain.ConfigError.
func (c *Config) Validate() error {
	if c.Meilisearch.Host == "" {
		return &domain.ConfigError{Key: "MEILISEARCH_HOST", Reason: "is required"}
	}
	if c.Meilisearch.APIKey == "" {
		return &domain.ConfigError{Key: "MEILISEARCH_API_KEY", Reason: "is required"}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &domain.ConfigError{Key: "PORT", Reason: "must be between 1 and 65535"}
	}
	if c.Search.CacheTTL <= 0 {
		return &domain.ConfigError{Key: "SEARCH_CACHE_TTL_SEC", Reason: "must be positive"}
	}
	if c.Search.PrimaryTimeout <= 0 {
		return &domain.ConfigError{Key: "SEARCH_PRIMARY_TIMEOUT_MS", Reason: "must be positive"}
	}
	if c.Search.ReindexBatch <= 0 {
		return &domain.ConfigError{Key: "REINDEX_BATCH_SIZE", Reason: "must be positive"}
	}
	return nil
}

// Addr is the listen address
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

func getEnvOrDefault(key, defaultValue string) string {
	if file := os.Getenv(key + "_FILE"); file != "" {
		if content, err := os.ReadFile(file); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
