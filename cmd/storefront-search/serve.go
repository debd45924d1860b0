package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	_ "github.com/custodia-labs/storefront-search/docs"
	"github.com/custodia-labs/storefront-search/internal/adapters/driven/auth"
	"github.com/custodia-labs/storefront-search/internal/adapters/driven/meilisearch"
	redisadapter "github.com/custodia-labs/storefront-search/internal/adapters/driven/redis"
	"github.com/custodia-labs/storefront-search/internal/adapters/driving/http"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driven"
	"github.com/custodia-labs/storefront-search/internal/core/ports/driving"
	"github.com/custodia-labs/storefront-search/internal/core/services"
	"github.com/custodia-labs/storefront-search/internal/metrics"
	"github.com/custodia-labs/storefront-search/internal/runtime"
	"github.com/custodia-labs/storefront-search/internal/telemetry"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP search gateway",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// gateway is the wired search stack shared by serve and search
type gateway struct {
	index   *meilisearch.Client
	search  driving.SearchService
	metrics *metrics.Metrics
	closers []func() error
}

func (g *gateway) Close() {
	for _, closeFn := range g.closers {
		_ = closeFn()
	}
}

// buildGateway wires the index client, the optional cached capability,
// telemetry and the router.
func buildGateway(ctx context.Context) (*gateway, error) {
	index, err := meilisearch.New(meilisearch.DefaultConfig(cfg.Meilisearch.Host, cfg.Meilisearch.APIKey))
	if err != nil {
		return nil, err
	}

	g := &gateway{index: index, metrics: metrics.New()}
	capabilities := runtime.NewServices()

	// ===== Primary search capability (optional) =====
	if cfg.Redis.URL != "" {
		logger.Info("connecting to redis", "url", redisadapter.RedactURL(cfg.Redis.URL))
		client, err := redisadapter.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			// the fallback path still serves every search
			logger.Warn("redis unavailable, primary search capability disabled", "error", err)
		} else {
			g.closers = append(g.closers, client.Close)
			cached := redisadapter.NewCachedSearch(client, index, redisadapter.CachedSearchConfig{
				TTL:     cfg.Search.CacheTTL,
				Metrics: g.metrics,
				Logger:  logger,
			})
			capabilities.RegisterSearchCapability(redisadapter.CachedSearchCapability, cached)
			logger.Info("registered search capability", "name", redisadapter.CachedSearchCapability)
		}
	}

	recorder := telemetry.NewRecorder(telemetry.RecorderConfig{
		SlowWarningMs: cfg.Search.SlowWarning.Milliseconds(),
		Logger:        logger,
	})

	g.search = services.NewSearchRouter(index, capabilities, recorder, services.SearchRouterConfig{
		PrimaryTimeout: cfg.Search.PrimaryTimeout,
		Metrics:        g.metrics,
		Logger:         logger,
	})
	return g, nil
}

// buildHealthService creates lazy probes for the event bus and workflow
// engine instances. Unparseable URLs are reported as not configured.
func buildHealthService() (driving.HealthService, []func() error) {
	var closers []func() error
	newProber := func(name, rawURL string) driven.RedisProber {
		if rawURL == "" {
			return nil
		}
		client, err := redisadapter.NewLazyClient(rawURL)
		if err != nil {
			logger.Warn("invalid redis url", "instance", name, "error", err)
			return nil
		}
		closers = append(closers, client.Close)
		return redisadapter.NewHealthProber(client, rawURL)
	}

	eventBus := newProber("event bus", cfg.Redis.EventsURL)
	workflowEngine := newProber("workflow engine", cfg.Redis.WorkflowURL)
	return services.NewHealthService(eventBus, workflowEngine, logger), closers
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("storefront-search starting", "version", version, "addr", cfg.Addr())

	g, err := buildGateway(ctx)
	if err != nil {
		return fmt.Errorf("build search gateway: %w", err)
	}
	defer g.Close()

	if err := g.index.HealthCheck(ctx); err != nil {
		logger.Warn("meilisearch health check failed, searches will error until it recovers", "error", err)
	}

	healthService, closers := buildHealthService()
	g.closers = append(g.closers, closers...)

	var verifier driven.TokenVerifier
	if cfg.AdminJWTSecret != "" {
		verifier = auth.NewAdapter(cfg.AdminJWTSecret)
	} else {
		logger.Warn("ADMIN_JWT_SECRET not set, admin endpoints will reject every request")
	}

	server := http.NewServer(http.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		Version:     version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Logger:      logger,
	}, g.search, healthService, verifier, g.index, g.metrics)

	return server.Run(ctx)
}
