package driving

import (
	"context"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// HealthService reports on infrastructure the storefront depends on
type HealthService interface {
	// RedisHealth probes the event bus and workflow engine Redis instances
	RedisHealth(ctx context.Context) (*domain.RedisHealthReport, error)
}
