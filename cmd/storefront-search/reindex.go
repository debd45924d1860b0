package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-search/internal/adapters/driven/meilisearch"
	"github.com/custodia-labs/storefront-search/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/storefront-search/internal/adapters/driven/redis"
	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-search/internal/core/services"
)

var reindexSetupOnly bool

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Create the products index and load published catalog products",
	Long: `Creates and configures the Meilisearch "products" index, then copies every
published product (with its variant SKUs) from the catalog database.

Runs under a distributed lock: Redis when REDIS_URL is set, otherwise a
Postgres advisory lock. Cached search results are dropped afterwards.`,
	RunE: runReindex,
}

func init() {
	reindexCmd.Flags().BoolVar(&reindexSetupOnly, "setup-only", false, "create and configure the index without loading documents")
	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	index, err := meilisearch.New(meilisearch.DefaultConfig(cfg.Meilisearch.Host, cfg.Meilisearch.APIKey))
	if err != nil {
		return err
	}

	if reindexSetupOnly {
		indexing := services.NewIndexingService(index, nil, nil, services.IndexingConfig{Logger: logger})
		if err := indexing.SetupIndex(ctx); err != nil {
			return fmt.Errorf("setup index: %w", err)
		}
		cmd.Println("Index configured.")
		return nil
	}

	if cfg.Database.URL == "" {
		return &domain.ConfigError{Key: "DATABASE_URL", Reason: "is required for reindex"}
	}

	logger.Info("connecting to catalog database")
	db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.Database.URL))
	if err != nil {
		return err
	}
	defer db.Close()

	// ===== Distributed Lock (Redis if available, otherwise PostgreSQL advisory locks) =====
	var (
		lock   driven.DistributedLock
		cached *redisadapter.CachedSearch
	)
	if cfg.Redis.URL != "" {
		client, err := redisadapter.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer client.Close()
		lock = redisadapter.NewLock(client)
		cached = redisadapter.NewCachedSearch(client, index, redisadapter.CachedSearchConfig{Logger: logger})
		logger.Info("using redis distributed lock")
	} else {
		lock = postgres.NewAdvisoryLock(db)
		logger.Info("using postgres advisory lock")
	}

	indexing := services.NewIndexingService(index, postgres.NewProductStore(db), lock, services.IndexingConfig{
		BatchSize: cfg.Search.ReindexBatch,
		Logger:    logger,
	})

	report, err := indexing.Reindex(ctx)
	if errors.Is(err, domain.ErrLockHeld) {
		return errors.New("another reindex is already running")
	}
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}

	if cached != nil {
		dropped, err := cached.Invalidate(ctx)
		if err != nil {
			logger.Warn("failed to drop cached search results", "error", err)
		} else {
			logger.Info("dropped cached search results", "keys", dropped)
		}
	}

	cmd.Printf("Indexed %d products in %d batches.\n", report.Indexed, report.Batches)
	return nil
}
