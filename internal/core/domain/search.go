package domain

import "time"

// Search request bounds
const (
	DefaultSearchLimit = 20
	MinSearchLimit     = 1
	MaxSearchLimit     = 100
)

// ProductsIndex is the index (and capability collection) products are searched in
const ProductsIndex = "products"

// SearchPath identifies which route served a search
type SearchPath string

const (
	SearchPathPrimary  SearchPath = "primary"  // registered search capability
	SearchPathFallback SearchPath = "fallback" // direct index client
)

// SearchRequest is a normalized product search request.
// Build it with NormalizeSearchRequest; the zero value is not valid.
type SearchRequest struct {
	Query  string `json:"query"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// IsEmpty reports whether the request carries no query text
func (r SearchRequest) IsEmpty() bool {
	return r.Query == ""
}

// SearchHit is a product record as produced by the index. It is passed
// through as-is; only the projection requested from the index shapes it.
// Known keys: id, title, description, handle, thumbnail, variant_sku.
type SearchHit map[string]any

// String returns the string value stored under key, or "" when absent
// or not a string.
func (h SearchHit) String(key string) string {
	if v, ok := h[key].(string); ok {
		return v
	}
	return ""
}

// ID returns the product id
func (h SearchHit) ID() string { return h.String("id") }

// Title returns the product title
func (h SearchHit) Title() string { return h.String("title") }

// Handle returns the product handle
func (h SearchHit) Handle() string { return h.String("handle") }

// SearchResult is the envelope returned to search callers
type SearchResult struct {
	Hits               []SearchHit `json:"hits"`
	Query              string      `json:"query"`
	ProcessingTimeMs   int64       `json:"processingTimeMs"`
	Limit              int         `json:"limit"`
	Offset             int         `json:"offset"`
	EstimatedTotalHits int64       `json:"estimatedTotalHits"`
}

// EmptySearchResult returns the deterministic result for a request that
// must not reach any search path.
func EmptySearchResult(req SearchRequest) *SearchResult {
	return &SearchResult{
		Hits:               []SearchHit{},
		Query:              req.Query,
		ProcessingTimeMs:   0,
		Limit:              req.Limit,
		Offset:             req.Offset,
		EstimatedTotalHits: 0,
	}
}

// SearchObservation is one recorded search outcome
type SearchObservation struct {
	Query            string     `json:"query"`
	ProcessingTimeMs int64      `json:"processingTimeMs"`
	ResultCount      int        `json:"resultCount"`
	Timestamp        time.Time  `json:"timestamp"`
	Path             SearchPath `json:"path"`
}

// PopularQuery is a normalized query text with its occurrence count
type PopularQuery struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// SearchStats is derived from the observation history on demand.
// SlowQueryCount is serialized as "slowQueries", the field name existing
// admin dashboards already read.
type SearchStats struct {
	TotalSearches       int            `json:"totalSearches"`
	AverageResponseTime int64          `json:"averageResponseTime"`
	SlowQueryCount      int            `json:"slowQueries"`
	PopularQueries      []PopularQuery `json:"popularQueries"`
}
