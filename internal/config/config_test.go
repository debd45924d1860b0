package config

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("MEILISEARCH_HOST", "http://meilisearch:7700")
	t.Setenv("MEILISEARCH_API_KEY", "masterKey")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:9000", cfg.Addr())
	assert.Equal(t, 60*time.Second, cfg.Search.CacheTTL)
	assert.Equal(t, 2*time.Second, cfg.Search.PrimaryTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.SlowWarning)
	assert.Equal(t, 100, cfg.Search.ReindexBatch)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.EventsURL)
	assert.Equal(t, "redis://localhost:6379", cfg.Redis.WorkflowURL)
	assert.Empty(t, cfg.Redis.URL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "8080")
	t.Setenv("STORE_CORS", "http://localhost:8000, https://shop.example.com,")
	t.Setenv("SEARCH_CACHE_TTL_SEC", "30")
	t.Setenv("SEARCH_PRIMARY_TIMEOUT_MS", "750")
	t.Setenv("REDIS_URL", "redis://cache:6379/1")
	t.Setenv("JWT_SECRET", "fallback-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:8000", "https://shop.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 30*time.Second, cfg.Search.CacheTTL)
	assert.Equal(t, 750*time.Millisecond, cfg.Search.PrimaryTimeout)
	assert.Equal(t, "redis://cache:6379/1", cfg.Redis.URL)
	assert.Equal(t, "fallback-secret", cfg.AdminJWTSecret)
}

func TestLoad_MalformedIntegerUsesDefault(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "nine-thousand")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoad_SecretFromFile(t *testing.T) {
	setRequired(t)
	path := filepath.Join(t.TempDir(), "meili_key")
	require.NoError(t, os.WriteFile(path, []byte("from-file\n"), 0o600))
	t.Setenv("MEILISEARCH_API_KEY_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Meilisearch.APIKey)
}

func TestLoad_MissingIndexSettingsIsConfigurationError(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		key     string
		wantKey string
	}{
		{name: "missing host", key: "masterKey", wantKey: "MEILISEARCH_HOST"},
		{name: "missing key", host: "http://meilisearch:7700", wantKey: "MEILISEARCH_API_KEY"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MEILISEARCH_HOST", tt.host)
			t.Setenv("MEILISEARCH_API_KEY", tt.key)

			cfg, err := Load()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))

			var cfgErr *domain.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.wantKey, cfgErr.Key)
		})
	}
}

func TestValidate_Bounds(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:      ServerConfig{Port: 9000},
			Meilisearch: MeilisearchConfig{Host: "http://m:7700", APIKey: "k"},
			Search:      SearchConfig{CacheTTL: time.Second, PrimaryTimeout: time.Second, ReindexBatch: 10},
		}
	}
	require.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Server.Port = 70000
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)

	cfg = valid()
	cfg.Search.ReindexBatch = 0
	assert.ErrorIs(t, cfg.Validate(), domain.ErrConfiguration)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "ParseLevel(%q)", in)
	}
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown", "query", "mouse")

	out := buf.String()
	assert.False(t, strings.Contains(out, "hidden"))
	assert.True(t, strings.Contains(out, `"msg":"shown"`))
	assert.True(t, strings.Contains(out, `"query":"mouse"`))
}
