package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-search/internal/metrics"
)

// Verify interface compliance
var _ driven.SearchCapability = (*CachedSearch)(nil)

const (
	searchCachePrefix      = "storefront-search:results:"
	DefaultSearchCacheTTL  = 60 * time.Second
	CachedSearchCapability = "searchService"
)

// CachedSearchConfig holds configuration for CachedSearch
type CachedSearchConfig struct {
	TTL     time.Duration
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// CachedSearch is the primary search capability: product searches against
// the index with the full display projection, memoized in Redis.
// Cache failures degrade to uncached searches.
type CachedSearch struct {
	client  redis.UniversalClient
	index   driven.ProductIndex
	ttl     time.Duration
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewCachedSearch creates a Redis-cached search capability
func NewCachedSearch(client redis.UniversalClient, index driven.ProductIndex, cfg CachedSearchConfig) *CachedSearch {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSearchCacheTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSearch{
		client:  client,
		index:   index,
		ttl:     cfg.TTL,
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

type cachedResponse struct {
	Hits               []domain.SearchHit `json:"hits"`
	EstimatedTotalHits int64              `json:"estimatedTotalHits"`
}

// Search serves from cache when possible, otherwise queries the index and
// caches the response for the configured TTL.
func (c *CachedSearch) Search(ctx context.Context, collection, query string, opts driven.CapabilitySearchOptions) (*driven.IndexSearchResponse, error) {
	key := cacheKey(collection, query, opts.PaginationOptions)

	data, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var cached cachedResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			c.metrics.RecordCacheHit()
			return &driven.IndexSearchResponse{Hits: cached.Hits, EstimatedTotalHits: cached.EstimatedTotalHits}, nil
		}
		c.logger.Warn("discarding unreadable cached search", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("search cache read failed", "error", err)
	}
	c.metrics.RecordCacheMiss()

	resp, err := c.index.Search(ctx, collection, query, driven.IndexSearchOptions{
		Limit:  opts.PaginationOptions.Limit,
		Offset: opts.PaginationOptions.Offset,
		Fields: domain.ProductDisplayedAttributes,
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", collection, err)
	}

	payload, err := json.Marshal(cachedResponse{Hits: resp.Hits, EstimatedTotalHits: resp.EstimatedTotalHits})
	if err == nil {
		err = c.client.Set(ctx, key, payload, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("search cache write failed", "error", err)
	}
	return resp, nil
}

// Invalidate drops every cached result, e.g. after a reindex
func (c *CachedSearch) Invalidate(ctx context.Context) (int, error) {
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, searchCachePrefix+"*", 100).Result()
		if err != nil {
			return removed, fmt.Errorf("scan search cache: %w", err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, fmt.Errorf("delete search cache: %w", err)
			}
			removed += int(n)
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

// cacheKey hashes the normalized query and paging into a fixed-length key
func cacheKey(collection, query string, page driven.PaginationOptions) string {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%s|%d|%d", strings.ToLower(strings.TrimSpace(query)), page.Limit, page.Offset)
	return fmt.Sprintf("%s%s:%x", searchCachePrefix, collection, h.Sum64())
}
