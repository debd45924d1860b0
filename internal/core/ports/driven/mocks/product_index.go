package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
)

// MockProductIndex is an in-memory implementation of ProductIndex and
// ProductIndexAdmin for testing. Matching is a case-insensitive substring
// check over title, description and variant_sku.
type MockProductIndex struct {
	mu       sync.RWMutex
	indexes  map[string][]domain.ProductDocument
	settings map[string]bool
	calls    int

	// Custom behavior hooks (optional)
	SearchFn func(indexName, query string, opts driven.IndexSearchOptions) (*driven.IndexSearchResponse, error)
	HealthFn func() error

	// LastOptions records the options of the most recent Search call
	LastOptions driven.IndexSearchOptions
	// LastIndex records the index name of the most recent Search call
	LastIndex string
}

// NewMockProductIndex creates a new MockProductIndex
func NewMockProductIndex() *MockProductIndex {
	return &MockProductIndex{
		indexes:  make(map[string][]domain.ProductDocument),
		settings: make(map[string]bool),
	}
}

func (m *MockProductIndex) Search(ctx context.Context, indexName, query string, opts driven.IndexSearchOptions) (*driven.IndexSearchResponse, error) {
	m.mu.Lock()
	m.calls++
	m.LastOptions = opts
	m.LastIndex = indexName
	m.mu.Unlock()

	if m.SearchFn != nil {
		return m.SearchFn(indexName, query, opts)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	queryLower := strings.ToLower(query)
	var matched []domain.ProductDocument
	for _, doc := range m.indexes[indexName] {
		text := strings.ToLower(doc.Title + " " + doc.Description + " " + doc.VariantSKU)
		if strings.Contains(text, queryLower) {
			matched = append(matched, doc)
		}
	}

	total := len(matched)
	hits := []domain.SearchHit{}
	if opts.Offset < total {
		end := total
		if opts.Limit > 0 && opts.Offset+opts.Limit < end {
			end = opts.Offset + opts.Limit
		}
		for _, doc := range matched[opts.Offset:end] {
			hits = append(hits, project(doc, opts.Fields))
		}
	}

	return &driven.IndexSearchResponse{Hits: hits, EstimatedTotalHits: int64(total)}, nil
}

func (m *MockProductIndex) HealthCheck(ctx context.Context) error {
	if m.HealthFn != nil {
		return m.HealthFn()
	}
	return nil
}

func (m *MockProductIndex) EnsureIndex(ctx context.Context, indexName, primaryKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.indexes[indexName]; !ok {
		m.indexes[indexName] = nil
	}
	return nil
}

func (m *MockProductIndex) ConfigureIndex(ctx context.Context, indexName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[indexName] = true
	return nil
}

func (m *MockProductIndex) AddDocuments(ctx context.Context, indexName string, docs []domain.ProductDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.indexes[indexName]
	for _, doc := range docs {
		replaced := false
		for i := range existing {
			if existing[i].ID == doc.ID {
				existing[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			existing = append(existing, doc)
		}
	}
	m.indexes[indexName] = existing
	return nil
}

// Documents returns the documents stored in an index
func (m *MockProductIndex) Documents(indexName string) []domain.ProductDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.ProductDocument(nil), m.indexes[indexName]...)
}

// Configured reports whether ConfigureIndex ran for the index
func (m *MockProductIndex) Configured(indexName string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings[indexName]
}

// Calls returns how many times Search was invoked
func (m *MockProductIndex) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

func project(doc domain.ProductDocument, fields []string) domain.SearchHit {
	all := domain.SearchHit{
		"id":          doc.ID,
		"title":       doc.Title,
		"description": doc.Description,
		"handle":      doc.Handle,
		"thumbnail":   doc.Thumbnail,
		"variant_sku": doc.VariantSKU,
	}
	if len(fields) == 0 {
		return all
	}
	hit := make(domain.SearchHit, len(fields))
	for _, f := range fields {
		if v, ok := all[f]; ok {
			hit[f] = v
		}
	}
	return hit
}
