// Package meilisearch adapts the Meilisearch full-text index to the
// product index ports.
package meilisearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.ProductIndex      = (*Client)(nil)
	_ driven.ProductIndexAdmin = (*Client)(nil)
)

// Config holds Meilisearch connection configuration
type Config struct {
	// Host is the Meilisearch endpoint (e.g., http://localhost:7700)
	Host string

	// APIKey is the master or search key
	APIKey string

	// TaskTimeout bounds how long indexing tasks are awaited
	TaskTimeout time.Duration

	// TaskPollInterval is the task status polling interval
	TaskPollInterval time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig(host, apiKey string) Config {
	return Config{
		Host:             host,
		APIKey:           apiKey,
		TaskTimeout:      time.Minute,
		TaskPollInterval: 50 * time.Millisecond,
	}
}

// Validate reports a configuration error when the host or API key is missing
func (c Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return &domain.ConfigError{Key: "MEILISEARCH_HOST", Reason: "is required"}
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return &domain.ConfigError{Key: "MEILISEARCH_API_KEY", Reason: "is required"}
	}
	return nil
}

// Client is a memoized handle to Meilisearch. The underlying service
// manager is built on first use and reused for the process lifetime; it
// manages its own HTTP connections.
type Client struct {
	cfg Config

	once    sync.Once
	manager meilisearch.ServiceManager
	connect func(Config) meilisearch.ServiceManager
}

// New validates cfg and returns a Client. No connection is made until the
// first call that needs one.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	def := DefaultConfig(cfg.Host, cfg.APIKey)
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = def.TaskTimeout
	}
	if cfg.TaskPollInterval <= 0 {
		cfg.TaskPollInterval = def.TaskPollInterval
	}
	return &Client{cfg: cfg, connect: connect}, nil
}

func connect(cfg Config) meilisearch.ServiceManager {
	return meilisearch.New(strings.TrimSuffix(cfg.Host, "/"), meilisearch.WithAPIKey(cfg.APIKey))
}

// Manager returns the shared service manager, constructing it at most once
// even under concurrent first use.
func (c *Client) Manager() meilisearch.ServiceManager {
	c.once.Do(func() {
		c.manager = c.connect(c.cfg)
	})
	return c.manager
}

// searchResponse is the subset of the search payload the gateway uses
type searchResponse struct {
	Hits               []domain.SearchHit `json:"hits"`
	EstimatedTotalHits int64              `json:"estimatedTotalHits"`
	TotalHits          int64              `json:"totalHits"`
}

// Search queries the named index. Hits are decoded from the raw payload so
// documents pass through without a client-side schema.
func (c *Client) Search(ctx context.Context, indexName, query string, opts driven.IndexSearchOptions) (*driven.IndexSearchResponse, error) {
	req := &meilisearch.SearchRequest{
		Query:  query,
		Limit:  int64(opts.Limit),
		Offset: int64(opts.Offset),
	}
	if len(opts.Fields) > 0 {
		req.AttributesToRetrieve = opts.Fields
	}

	raw, err := c.Manager().Index(indexName).SearchRawWithContext(ctx, query, req)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search %s: %w", indexName, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("meilisearch search %s: empty response", indexName)
	}

	var body searchResponse
	if err := json.Unmarshal(*raw, &body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	total := body.EstimatedTotalHits
	if total == 0 && body.TotalHits > 0 {
		// exhaustive pagination reports totalHits instead
		total = body.TotalHits
	}
	hits := body.Hits
	if hits == nil {
		hits = []domain.SearchHit{}
	}
	return &driven.IndexSearchResponse{Hits: hits, EstimatedTotalHits: total}, nil
}

// HealthCheck verifies Meilisearch reports itself available
func (c *Client) HealthCheck(ctx context.Context) error {
	health, err := c.Manager().HealthWithContext(ctx)
	if err != nil {
		return fmt.Errorf("meilisearch health: %w", err)
	}
	if health == nil || health.Status != "available" {
		status := ""
		if health != nil {
			status = health.Status
		}
		return fmt.Errorf("meilisearch health: status %q: %w", status, domain.ErrServiceUnavailable)
	}
	return nil
}

// EnsureIndex creates the index when fetching its info fails
func (c *Client) EnsureIndex(ctx context.Context, indexName, primaryKey string) error {
	if _, err := c.Manager().Index(indexName).FetchInfoWithContext(ctx); err == nil {
		return nil
	}

	task, err := c.Manager().CreateIndexWithContext(ctx, &meilisearch.IndexConfig{
		Uid:        indexName,
		PrimaryKey: primaryKey,
	})
	if err != nil {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return c.wait(ctx, indexName, task, "create index")
}

// ConfigureIndex applies the product attribute settings
func (c *Client) ConfigureIndex(ctx context.Context, indexName string) error {
	index := c.Manager().Index(indexName)

	searchable := append([]string(nil), domain.ProductSearchableAttributes...)
	task, err := index.UpdateSearchableAttributesWithContext(ctx, &searchable)
	if err != nil {
		return fmt.Errorf("update searchable attributes: %w", err)
	}
	if err := c.wait(ctx, indexName, task, "searchable attributes"); err != nil {
		return err
	}

	displayed := append([]string(nil), domain.ProductDisplayedAttributes...)
	task, err = index.UpdateDisplayedAttributesWithContext(ctx, &displayed)
	if err != nil {
		return fmt.Errorf("update displayed attributes: %w", err)
	}
	if err := c.wait(ctx, indexName, task, "displayed attributes"); err != nil {
		return err
	}

	filterable := make([]interface{}, 0, len(domain.ProductFilterableAttributes))
	for _, attr := range domain.ProductFilterableAttributes {
		filterable = append(filterable, attr)
	}
	task, err = index.UpdateFilterableAttributesWithContext(ctx, &filterable)
	if err != nil {
		return fmt.Errorf("update filterable attributes: %w", err)
	}
	return c.wait(ctx, indexName, task, "filterable attributes")
}

// AddDocuments upserts product documents and waits for the indexing task
func (c *Client) AddDocuments(ctx context.Context, indexName string, docs []domain.ProductDocument) error {
	if len(docs) == 0 {
		return nil
	}
	task, err := c.Manager().Index(indexName).AddDocumentsWithContext(ctx, docs, nil)
	if err != nil {
		return fmt.Errorf("add %d documents to %s: %w", len(docs), indexName, err)
	}
	return c.wait(ctx, indexName, task, "add documents")
}

var errTaskFailed = errors.New("meilisearch task failed")

func (c *Client) wait(ctx context.Context, indexName string, info *meilisearch.TaskInfo, op string) error {
	if info == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TaskTimeout)
	defer cancel()

	task, err := c.Manager().Index(indexName).WaitForTaskWithContext(ctx, info.TaskUID, c.cfg.TaskPollInterval)
	if err != nil {
		return fmt.Errorf("%s: wait for task %d: %w", op, info.TaskUID, err)
	}
	if task != nil && task.Status == meilisearch.TaskStatusFailed {
		return fmt.Errorf("%s: task %d: %w", op, info.TaskUID, errTaskFailed)
	}
	return nil
}
