package mocks

import (
	"context"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// MockRedisProber is a mock implementation of RedisProber for testing
type MockRedisProber struct {
	URL     string
	Info    *domain.RedisInfo
	ProbeFn func(ctx context.Context) (*domain.RedisServiceHealth, error)
}

func (m *MockRedisProber) Probe(ctx context.Context) (*domain.RedisServiceHealth, error) {
	if m.ProbeFn != nil {
		return m.ProbeFn(ctx)
	}
	return &domain.RedisServiceHealth{
		Status: domain.ConnectionConnected,
		URL:    m.URL,
		Info:   m.Info,
	}, nil
}
