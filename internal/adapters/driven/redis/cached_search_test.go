package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven/mocks"
	"github.com/custodia-labs/storefront-search/internal/metrics"
)

func seededIndex(t *testing.T) *mocks.MockProductIndex {
	t.Helper()
	index := mocks.NewMockProductIndex()
	require.NoError(t, index.AddDocuments(context.Background(), domain.ProductsIndex, []domain.ProductDocument{
		{ID: "prod_1", Title: "Wireless Mouse", Handle: "wireless-mouse", VariantSKU: "MOUSE-W"},
		{ID: "prod_2", Title: "Gaming Mouse", Handle: "gaming-mouse", VariantSKU: "MOUSE-G"},
		{ID: "prod_3", Title: "Keyboard", Handle: "keyboard", VariantSKU: "KB-1"},
	}))
	return index
}

func page(limit, offset int) driven.CapabilitySearchOptions {
	return driven.CapabilitySearchOptions{PaginationOptions: driven.PaginationOptions{Limit: limit, Offset: offset}}
}

func TestCachedSearch_MissThenHit(t *testing.T) {
	client, mr := setupTestRedis(t)
	index := seededIndex(t)
	m := metrics.New()
	search := NewCachedSearch(client, index, CachedSearchConfig{TTL: time.Minute, Metrics: m})
	ctx := context.Background()

	first, err := search.Search(ctx, domain.ProductsIndex, "mouse", page(10, 0))
	require.NoError(t, err)
	require.Len(t, first.Hits, 2)
	assert.Equal(t, "MOUSE-W", first.Hits[0].String("variant_sku"), "primary projection includes variant_sku")
	assert.Equal(t, domain.ProductDisplayedAttributes, index.LastOptions.Fields)

	second, err := search.Search(ctx, domain.ProductsIndex, "  MOUSE ", page(10, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, index.Calls(), "second search should be served from cache")
	assert.Len(t, second.Hits, 2)
	assert.Equal(t, int64(2), second.EstimatedTotalHits)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal))

	key := cacheKey(domain.ProductsIndex, "mouse", driven.PaginationOptions{Limit: 10, Offset: 0})
	assert.True(t, mr.Exists(key))
	assert.InDelta(t, time.Minute.Seconds(), mr.TTL(key).Seconds(), 1)
}

func TestCachedSearch_PagingIsPartOfKey(t *testing.T) {
	client, _ := setupTestRedis(t)
	index := seededIndex(t)
	search := NewCachedSearch(client, index, CachedSearchConfig{})
	ctx := context.Background()

	_, err := search.Search(ctx, domain.ProductsIndex, "mouse", page(1, 0))
	require.NoError(t, err)
	resp, err := search.Search(ctx, domain.ProductsIndex, "mouse", page(1, 1))
	require.NoError(t, err)

	assert.Equal(t, 2, index.Calls())
	require.Len(t, resp.Hits, 1)
	assert.Equal(t, "prod_2", resp.Hits[0].ID())
}

func TestCachedSearch_ExpiresAfterTTL(t *testing.T) {
	client, mr := setupTestRedis(t)
	index := seededIndex(t)
	search := NewCachedSearch(client, index, CachedSearchConfig{TTL: 10 * time.Second})
	ctx := context.Background()

	_, _ = search.Search(ctx, domain.ProductsIndex, "mouse", page(5, 0))
	mr.FastForward(11 * time.Second)
	_, _ = search.Search(ctx, domain.ProductsIndex, "mouse", page(5, 0))

	assert.Equal(t, 2, index.Calls())
}

func TestCachedSearch_IndexErrorPropagates(t *testing.T) {
	client, _ := setupTestRedis(t)
	index := mocks.NewMockProductIndex()
	index.SearchFn = func(indexName, query string, opts driven.IndexSearchOptions) (*driven.IndexSearchResponse, error) {
		return nil, errors.New("index down")
	}
	search := NewCachedSearch(client, index, CachedSearchConfig{})

	_, err := search.Search(context.Background(), domain.ProductsIndex, "mouse", page(5, 0))
	assert.Error(t, err)
}

func TestCachedSearch_RedisDownStillSearches(t *testing.T) {
	client, mr := setupTestRedis(t)
	index := seededIndex(t)
	search := NewCachedSearch(client, index, CachedSearchConfig{})
	mr.Close()

	resp, err := search.Search(context.Background(), domain.ProductsIndex, "keyboard", page(5, 0))
	require.NoError(t, err)
	assert.Len(t, resp.Hits, 1)
}

func TestCachedSearch_Invalidate(t *testing.T) {
	client, mr := setupTestRedis(t)
	index := seededIndex(t)
	search := NewCachedSearch(client, index, CachedSearchConfig{})
	ctx := context.Background()
	require.NoError(t, mr.Set("unrelated", "keep"))

	_, _ = search.Search(ctx, domain.ProductsIndex, "mouse", page(5, 0))
	_, _ = search.Search(ctx, domain.ProductsIndex, "keyboard", page(5, 0))

	removed, err := search.Invalidate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, mr.Exists("unrelated"))

	_, _ = search.Search(ctx, domain.ProductsIndex, "mouse", page(5, 0))
	assert.Equal(t, 3, index.Calls())
}
