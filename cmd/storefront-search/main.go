package main

// @title           Storefront Search API
// @version         1.0
// @description     Product search gateway for the storefront. Routes queries to a registered search capability and falls back to Meilisearch.

// @contact.name   Storefront Platform
// @contact.url    https://github.com/custodia-labs/storefront-search/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:9000
// @BasePath  /
// @schemes   http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Admin JWT issued by the commerce platform. Format: "Bearer {token}"

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-search/internal/config"
)

// version is set at build time via ldflags
var version = "dev"

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "storefront-search",
	Short: "Storefront product search gateway",
	Long: `storefront-search serves product search for the storefront.

Queries go to the registered search capability (Redis-cached search when
REDIS_URL is set) and fall back to Meilisearch directly.

  storefront-search serve      # HTTP gateway (default)
  storefront-search reindex    # load published catalog products into the index
  storefront-search search q   # one-off query through the router`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger = config.NewLogger(os.Stderr, cfg.Log.Level)
		slog.SetDefault(logger)
		return nil
	},
	RunE: runServe,
}

func main() {
	// RUN_MODE selects the command when none is given, as in container deployments
	if len(os.Args) == 1 {
		if mode := os.Getenv("RUN_MODE"); mode != "" {
			rootCmd.SetArgs([]string{mode})
		}
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}
}
