package driven

import "github.com/custodia-labs/storefront-search/internal/core/domain"

// SearchTelemetry stores search observations and derives stats from them.
// Implementations must accept concurrent Record calls.
type SearchTelemetry interface {
	Record(obs domain.SearchObservation)
	Stats() domain.SearchStats
}
