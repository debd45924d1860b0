package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-search/internal/core/domain"
)

var (
	searchLimit  int
	searchOffset int
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a product search through the router",
	Long: `Runs one query through the same path the gateway uses: the registered
search capability first, Meilisearch as the fallback.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results to skip")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	g, err := buildGateway(ctx)
	if err != nil {
		return fmt.Errorf("build search gateway: %w", err)
	}
	defer g.Close()

	req := domain.NormalizeSearchRequest(strings.Join(args, " "), searchLimit, searchOffset)
	result, err := g.search.Search(ctx, req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(result.Hits) == 0 {
		cmd.Println("No products found.")
		return nil
	}

	cmd.Printf("%d of ~%d results in %dms:\n\n", len(result.Hits), result.EstimatedTotalHits, result.ProcessingTimeMs)
	for i, hit := range result.Hits {
		cmd.Printf("  [%d] %s (%s)\n", req.Offset+i+1, hit.Title(), hit.ID())
		if sku := hit.String("variant_sku"); sku != "" {
			cmd.Printf("      SKU: %s\n", sku)
		}
	}
	return nil
}
