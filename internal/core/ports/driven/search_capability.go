package driven

import "context"

// PaginationOptions is the paging block passed to a search capability
type PaginationOptions struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// CapabilitySearchOptions are the options a search capability accepts
type CapabilitySearchOptions struct {
	PaginationOptions PaginationOptions `json:"paginationOptions"`
}

// SearchCapability is an optional, pluggable high-level search service.
// Deployments may or may not register one; callers must tolerate its absence.
type SearchCapability interface {
	// Search queries the named collection
	Search(ctx context.Context, collection, query string, opts CapabilitySearchOptions) (*IndexSearchResponse, error)
}
