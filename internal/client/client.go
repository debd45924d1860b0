package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

// MinQueryLength is the shortest trimmed query sent over the network
const MinQueryLength = 2

// Request defaults
const (
	DefaultTimeout     = 10 * time.Second
	DefaultCacheMaxAge = 60 * time.Second
	DefaultRateLimit   = 10.0
	DefaultRateBurst   = 5
)

var errRateLimited = errors.New("search rate limited")

// Searcher issues a single product search
type Searcher interface {
	Search(ctx context.Context, query string, limit, offset int) (*domain.SearchResult, error)
}

// Config holds storefront client configuration
type Config struct {
	BaseURL        string        // gateway base URL, e.g. http://localhost:9000
	AuthToken      string        // shopper bearer token, optional
	PublishableKey string        // sent as x-publishable-api-key, optional
	CacheMaxAge    time.Duration // Cache-Control hint on every request
	Timeout        time.Duration
	RatePerSecond  float64
	RateBurst      int
	HTTPClient     *http.Client // overrides Timeout; a cookie jar is added when missing
	Logger         *slog.Logger
}

// Client calls the gateway search endpoint with the shopper's credentials.
// It is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	mu      sync.Mutex
	retryAt time.Time
}

// New creates a Client. The base URL must be absolute.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, &domain.ConfigError{Key: "BaseURL", Reason: "must be an absolute URL"}
	}

	if cfg.CacheMaxAge <= 0 {
		cfg.CacheMaxAge = DefaultCacheMaxAge
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}

	return &Client{
		baseURL: base,
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		logger:  logger,
	}, nil
}

// Search calls GET /store/search and returns the decoded envelope.
// Queries shorter than MinQueryLength return an empty result without a request.
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*domain.SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		return emptyResult(trimmed, limit, offset), nil
	}

	if err := c.wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", trimmed)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	endpoint := c.baseURL.JoinPath("store", "search")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", fmt.Sprintf("max-age=%d", int(c.cfg.CacheMaxAge.Seconds())))
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}
	if c.cfg.PublishableKey != "" {
		req.Header.Set("x-publishable-api-key", c.cfg.PublishableKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.backoff(resp.Header.Get("Retry-After"))
		return nil, errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request: unexpected status %d", resp.StatusCode)
	}

	var result domain.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if result.Hits == nil {
		result.Hits = []domain.SearchHit{}
	}
	return &result, nil
}

// SearchProducts is Search with every failure mapped to an empty result.
// Details are logged; shoppers never see the underlying error.
func (c *Client) SearchProducts(ctx context.Context, query string, limit, offset int) *domain.SearchResult {
	result, err := c.Search(ctx, query, limit, offset)
	if err != nil {
		c.logger.Error("search error", "query", query, "error", err)
		return emptyResult(query, limit, offset)
	}
	return result
}

// Suggestions returns up to five distinct lower-cased title words that
// contain the query, taken from the top five hits.
func (c *Client) Suggestions(ctx context.Context, query string) []string {
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []string{}
	}
	result := c.SearchProducts(ctx, query, 5, 0)
	return suggestionsFromHits(result.Hits, query)
}

func suggestionsFromHits(hits []domain.SearchHit, query string) []string {
	needle := strings.ToLower(query)
	seen := make(map[string]struct{})
	out := []string{}
	for _, hit := range hits {
		for _, word := range strings.Split(strings.ToLower(hit.Title()), " ") {
			if utf8.RuneCountInString(word) <= 2 || !strings.Contains(word, needle) {
				continue
			}
			if _, ok := seen[word]; ok {
				continue
			}
			seen[word] = struct{}{}
			out = append(out, word)
			if len(out) == 5 {
				return out
			}
		}
	}
	return out
}

func (c *Client) wait(ctx context.Context) error {
	c.mu.Lock()
	retryAt := c.retryAt
	c.mu.Unlock()

	if d := time.Until(retryAt); d > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d):
		}
	}
	return c.limiter.Wait(ctx)
}

// backoff honours a Retry-After header given in seconds
func (c *Client) backoff(retryAfter string) {
	seconds, err := strconv.Atoi(retryAfter)
	if err != nil || seconds <= 0 {
		seconds = 1
	}

	c.mu.Lock()
	c.retryAt = time.Now().Add(time.Duration(seconds) * time.Second)
	c.mu.Unlock()
}

func emptyResult(query string, limit, offset int) *domain.SearchResult {
	return &domain.SearchResult{
		Hits:   []domain.SearchHit{},
		Query:  query,
		Limit:  limit,
		Offset: offset,
	}
}
