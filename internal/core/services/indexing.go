package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driving"
)

// Ensure indexingService implements IndexingService
var _ driving.IndexingService = (*indexingService)(nil)

const (
	// ReindexLockName guards concurrent reindex runs across instances
	ReindexLockName = "reindex:products"

	DefaultReindexBatchSize = 100
	DefaultReindexLockTTL   = 10 * time.Minute
)

// IndexingConfig holds configuration for the indexing service
type IndexingConfig struct {
	BatchSize int
	LockTTL   time.Duration
	Logger    *slog.Logger
}

// indexingService implements the IndexingService interface
type indexingService struct {
	index  driven.ProductIndexAdmin
	store  driven.ProductStore
	lock   driven.DistributedLock // may be nil for single-instance runs
	cfg    IndexingConfig
	logger *slog.Logger
}

// NewIndexingService creates a new IndexingService
func NewIndexingService(
	index driven.ProductIndexAdmin,
	store driven.ProductStore,
	lock driven.DistributedLock,
	cfg IndexingConfig,
) driving.IndexingService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultReindexBatchSize
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = DefaultReindexLockTTL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &indexingService{
		index:  index,
		store:  store,
		lock:   lock,
		cfg:    cfg,
		logger: logger,
	}
}

// SetupIndex tests the connection, then creates and configures the products index
func (s *indexingService) SetupIndex(ctx context.Context) error {
	if err := s.index.HealthCheck(ctx); err != nil {
		return fmt.Errorf("index connection test failed: %w", err)
	}
	if err := s.index.EnsureIndex(ctx, domain.ProductsIndex, "id"); err != nil {
		return fmt.Errorf("ensure products index: %w", err)
	}
	if err := s.index.ConfigureIndex(ctx, domain.ProductsIndex); err != nil {
		return fmt.Errorf("configure products index: %w", err)
	}
	s.logger.Info("products index ready", "index", domain.ProductsIndex)
	return nil
}

// Reindex loads every published product into the index in batches.
// Returns domain.ErrLockHeld when another instance is already reindexing.
func (s *indexingService) Reindex(ctx context.Context) (*domain.ReindexReport, error) {
	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, ReindexLockName, s.cfg.LockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire reindex lock: %w", err)
		}
		if !acquired {
			return nil, domain.ErrLockHeld
		}
		defer func() {
			// release even when ctx was cancelled mid-run
			releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := s.lock.Release(releaseCtx, ReindexLockName); err != nil {
				s.logger.Warn("failed to release reindex lock", "error", err)
			}
		}()
	}

	if err := s.SetupIndex(ctx); err != nil {
		return nil, err
	}

	total, err := s.store.CountPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("count published products: %w", err)
	}
	s.logger.Info("reindexing products", "published", total, "batch_size", s.cfg.BatchSize)

	report := &domain.ReindexReport{}
	for offset := 0; ; offset += s.cfg.BatchSize {
		products, err := s.store.ListPublished(ctx, s.cfg.BatchSize, offset)
		if err != nil {
			return report, fmt.Errorf("list products at offset %d: %w", offset, err)
		}
		if len(products) == 0 {
			break
		}

		docs := make([]domain.ProductDocument, 0, len(products))
		for _, p := range products {
			docs = append(docs, p.ToDocument())
		}
		if err := s.index.AddDocuments(ctx, domain.ProductsIndex, docs); err != nil {
			return report, fmt.Errorf("index batch %d: %w", report.Batches+1, err)
		}
		report.Indexed += len(docs)
		report.Batches++

		if len(products) < s.cfg.BatchSize {
			break
		}
	}

	s.logger.Info("reindex complete", "indexed", report.Indexed, "batches", report.Batches)
	return report, nil
}
