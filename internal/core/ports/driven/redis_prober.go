package driven

import (
	"context"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// RedisProber checks one Redis instance
type RedisProber interface {
	// Probe pings the server and reads INFO server.
	// A reachable server with unreadable INFO still reports connected.
	Probe(ctx context.Context) (*domain.RedisServiceHealth, error)
}
