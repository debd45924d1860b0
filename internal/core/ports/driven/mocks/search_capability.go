package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
)

// MockSearchCapability is a mock implementation of SearchCapability for testing
type MockSearchCapability struct {
	mu    sync.Mutex
	calls int

	SearchFn func(ctx context.Context, collection, query string, opts driven.CapabilitySearchOptions) (*driven.IndexSearchResponse, error)

	// LastCollection and LastOptions record the most recent call
	LastCollection string
	LastOptions    driven.CapabilitySearchOptions
}

// NewMockSearchCapability creates a capability answering with the given response
func NewMockSearchCapability(resp *driven.IndexSearchResponse) *MockSearchCapability {
	return &MockSearchCapability{
		SearchFn: func(ctx context.Context, collection, query string, opts driven.CapabilitySearchOptions) (*driven.IndexSearchResponse, error) {
			return resp, nil
		},
	}
}

// NewFailingSearchCapability creates a capability that always returns err
func NewFailingSearchCapability(err error) *MockSearchCapability {
	return &MockSearchCapability{
		SearchFn: func(ctx context.Context, collection, query string, opts driven.CapabilitySearchOptions) (*driven.IndexSearchResponse, error) {
			return nil, err
		},
	}
}

func (m *MockSearchCapability) Search(ctx context.Context, collection, query string, opts driven.CapabilitySearchOptions) (*driven.IndexSearchResponse, error) {
	m.mu.Lock()
	m.calls++
	m.LastCollection = collection
	m.LastOptions = opts
	m.mu.Unlock()

	if m.SearchFn != nil {
		return m.SearchFn(ctx, collection, query, opts)
	}
	return nil, errors.New("not implemented")
}

// Calls returns how many times Search was invoked
func (m *MockSearchCapability) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
