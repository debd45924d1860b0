package driven

import (
	"context"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// ProductStore reads published products from the commerce catalog.
// The catalog is owned elsewhere; this port is read-only.
type ProductStore interface {
	// ListPublished returns published products ordered by id, paged
	ListPublished(ctx context.Context, limit, offset int) ([]*domain.Product, error)

	// CountPublished returns the number of published products
	CountPublished(ctx context.Context) (int, error)
}
