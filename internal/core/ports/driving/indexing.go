package driving

import (
	"context"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// IndexingService prepares the products index and loads catalog products into it
type IndexingService interface {
	// SetupIndex verifies the connection, creates and configures the products index
	SetupIndex(ctx context.Context) error

	// Reindex pushes every published catalog product into the index
	Reindex(ctx context.Context) (*domain.ReindexReport, error)
}
