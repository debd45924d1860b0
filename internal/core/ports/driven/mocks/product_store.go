package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// MockProductStore is an in-memory catalog for testing
type MockProductStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product

	// ListErr, when set, is returned by ListPublished
	ListErr error
}

// NewMockProductStore creates a new MockProductStore
func NewMockProductStore(products ...*domain.Product) *MockProductStore {
	m := &MockProductStore{products: make(map[string]*domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *MockProductStore) ListPublished(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]*domain.Product, 0, len(m.products))
	for _, p := range m.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	if offset >= len(all) {
		return []*domain.Product{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *MockProductStore) CountPublished(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.products), nil
}
