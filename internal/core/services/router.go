package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-search/internal/metrics"
	"github.com/custodia-labs/storefront-search/internal/runtime"
)

// Ensure searchRouter implements SearchService
var _ driving.SearchService = (*searchRouter)(nil)

// DefaultPrimaryTimeout bounds a call to the registered search capability
const DefaultPrimaryTimeout = 2 * time.Second

// SearchRouterConfig holds optional collaborators for the search router
type SearchRouterConfig struct {
	// PrimaryTimeout bounds the primary path before falling back
	PrimaryTimeout time.Duration

	// SlowQueryMs marks searches counted in the slow-search metric
	SlowQueryMs int64

	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// searchRouter tries the registered search capability first and falls
// back to the product index directly.
type searchRouter struct {
	index     driven.ProductIndex
	services  *runtime.Services
	telemetry driven.SearchTelemetry

	primaryTimeout time.Duration
	slowQueryMs    int64
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

// NewSearchRouter creates a SearchService.
// The search capability is resolved per request via runtime.Services.
func NewSearchRouter(
	index driven.ProductIndex,
	services *runtime.Services,
	telemetry driven.SearchTelemetry,
	cfg SearchRouterConfig,
) driving.SearchService {
	if cfg.PrimaryTimeout <= 0 {
		cfg.PrimaryTimeout = DefaultPrimaryTimeout
	}
	if cfg.SlowQueryMs <= 0 {
		cfg.SlowQueryMs = 300
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &searchRouter{
		index:          index,
		services:       services,
		telemetry:      telemetry,
		primaryTimeout: cfg.PrimaryTimeout,
		slowQueryMs:    cfg.SlowQueryMs,
		metrics:        cfg.Metrics,
		logger:         logger,
	}
}

// Search routes a normalized request. Both paths failing is the only error.
func (s *searchRouter) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	if req.IsEmpty() {
		s.metrics.RecordEmptyQuery()
		return domain.EmptySearchResult(req), nil
	}

	start := time.Now()

	resp, path, err := s.route(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		s.metrics.RecordSearch(string(path), "error", elapsed)
		s.logger.Error("search failed",
			"query", req.Query,
			"error", err)
		return nil, &domain.InternalSearchError{Query: req.Query, Cause: err}
	}

	hits := resp.Hits
	if len(hits) > req.Limit {
		hits = hits[:req.Limit]
	}
	if hits == nil {
		hits = []domain.SearchHit{}
	}

	result := &domain.SearchResult{
		Hits:               hits,
		Query:              req.Query,
		Limit:              req.Limit,
		Offset:             req.Offset,
		EstimatedTotalHits: resp.EstimatedTotalHits,
	}
	result.ProcessingTimeMs = time.Since(start).Milliseconds()

	s.metrics.RecordSearch(string(path), "ok", elapsed)
	if result.ProcessingTimeMs > s.slowQueryMs {
		s.metrics.RecordSlowSearch()
	}

	if s.telemetry != nil {
		s.telemetry.Record(domain.SearchObservation{
			Query:            req.Query,
			ProcessingTimeMs: result.ProcessingTimeMs,
			ResultCount:      len(hits),
			Timestamp:        start,
			Path:             path,
		})
	}

	return result, nil
}

// Stats returns telemetry aggregates
func (s *searchRouter) Stats() domain.SearchStats {
	if s.telemetry == nil {
		return domain.SearchStats{PopularQueries: []domain.PopularQuery{}}
	}
	return s.telemetry.Stats()
}

func (s *searchRouter) route(ctx context.Context, req domain.SearchRequest) (*driven.IndexSearchResponse, domain.SearchPath, error) {
	resp, err := s.searchPrimary(ctx, req)
	if err == nil {
		return resp, domain.SearchPathPrimary, nil
	}
	s.logger.Debug("primary search unavailable, using index directly",
		"query", req.Query,
		"error", err)

	resp, err = s.index.Search(ctx, domain.ProductsIndex, req.Query, driven.IndexSearchOptions{
		Limit:  req.Limit,
		Offset: req.Offset,
		Fields: domain.ProductFallbackFields,
	})
	if err != nil {
		return nil, domain.SearchPathFallback, fmt.Errorf("fallback search: %w", err)
	}
	if resp == nil {
		return nil, domain.SearchPathFallback, errors.New("fallback search: empty response")
	}
	return resp, domain.SearchPathFallback, nil
}

type primaryOutcome struct {
	resp *driven.IndexSearchResponse
	err  error
}

// searchPrimary resolves and invokes the search capability within the
// primary timeout. Every failure, including a capability that panics or
// ignores its context, is reported as domain.ErrPrimaryUnavailable.
func (s *searchRouter) searchPrimary(ctx context.Context, req domain.SearchRequest) (*driven.IndexSearchResponse, error) {
	if s.services == nil {
		return nil, domain.ErrPrimaryUnavailable
	}
	capability, err := s.services.ResolveSearchCapability()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.primaryTimeout)
	defer cancel()

	done := make(chan primaryOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- primaryOutcome{err: fmt.Errorf("capability panicked: %v", r)}
			}
		}()
		resp, err := capability.Search(ctx, domain.ProductsIndex, req.Query, driven.CapabilitySearchOptions{
			PaginationOptions: driven.PaginationOptions{Limit: req.Limit, Offset: req.Offset},
		})
		done <- primaryOutcome{resp: resp, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrPrimaryUnavailable, out.err)
		}
		if out.resp == nil {
			return nil, fmt.Errorf("%w: empty response", domain.ErrPrimaryUnavailable)
		}
		return out.resp, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrPrimaryUnavailable, ctx.Err())
	}
}
