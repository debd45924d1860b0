package driving

import (
	"context"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// SearchService routes product searches and exposes their telemetry
type SearchService interface {
	// Search runs a normalized request through the primary or fallback path.
	// An empty query yields domain.EmptySearchResult without touching either path.
	// Fails only with *domain.InternalSearchError when no path produced a result.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error)

	// Stats returns aggregates over recent searches
	Stats() domain.SearchStats
}
