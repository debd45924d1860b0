package driven

import (
	"context"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// IndexSearchOptions configures a direct index query
type IndexSearchOptions struct {
	Limit  int
	Offset int
	// Fields restricts the attributes returned per hit; empty means all displayed attributes
	Fields []string
}

// IndexSearchResponse is what the index (or a capability) returns for a query
type IndexSearchResponse struct {
	Hits               []domain.SearchHit
	EstimatedTotalHits int64
}

// ProductIndex is the full-text index holding product documents (Meilisearch)
type ProductIndex interface {
	// Search queries the named index
	Search(ctx context.Context, indexName, query string, opts IndexSearchOptions) (*IndexSearchResponse, error)

	// HealthCheck verifies the index backend is reachable
	HealthCheck(ctx context.Context) error
}

// ProductIndexAdmin manages index settings and documents
type ProductIndexAdmin interface {
	// EnsureIndex creates the index with the given primary key if it does not exist
	EnsureIndex(ctx context.Context, indexName, primaryKey string) error

	// ConfigureIndex applies searchable, displayed and filterable attributes
	ConfigureIndex(ctx context.Context, indexName string) error

	// AddDocuments upserts documents and waits for the indexing task
	AddDocuments(ctx context.Context, indexName string, docs []domain.ProductDocument) error

	// HealthCheck verifies the index backend is reachable
	HealthCheck(ctx context.Context) error
}
