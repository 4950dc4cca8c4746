package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marketgrid/indexflow/config"
	"github.com/marketgrid/indexflow/internal/csvio"
	"github.com/marketgrid/indexflow/internal/pipeline"
	"github.com/marketgrid/indexflow/internal/universe"
	"github.com/marketgrid/indexflow/pkg/dataflows"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Initialize configuration early
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "indexflow",
		Short: "indexflow - equity index constituent and price extraction",
		Long: `indexflow scrapes the constituent lists of major equity indexes
(Dow 30, NASDAQ-100, S&P 500), enriches every ticker with company metadata,
downloads ten years of daily price history for constituents and benchmark,
and writes the results as CSV files.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Ensure directories exist
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: pick a universe interactively
			return runInteractiveMode(cfg)
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newRunCmd creates the run command
func newRunCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "run [UNIVERSE]",
		Short: "Run the extraction for one universe, or all of them",
		Long: `Run the full extraction for a universe: dow30, nasdaq100, sp500,
or "all" to run every universe in sequence.
Example: indexflow run dow30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "all" {
				return runUniverses(cfg, universe.All())
			}

			u, err := universe.Lookup(args[0])
			if err != nil {
				return err
			}
			return runUniverses(cfg, []universe.Universe{u})
		},
	}
}

// newListCmd creates the list command
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the supported universes",
		Run: func(cmd *cobra.Command, args []string) {
			for _, u := range universe.All() {
				fmt.Printf("%-10s  %s (benchmark %s)\n", u.Slug, u.Name, u.IndexSymbol)
			}
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("indexflow v1.0.0")
			fmt.Println("Equity index constituent and price extraction")
		},
	}
}

// runUniverses runs the pipeline for each universe in turn, printing
// progress and a per-run summary.
func runUniverses(cfg *config.Config, universes []universe.Universe) error {
	pages := dataflows.NewPageClient(cfg)
	yahoo := dataflows.NewYahooFinanceClient(cfg)
	out := csvio.NewWriter(cfg.OutputDir)

	for _, u := range universes {
		fmt.Println(titleStyle.Render(u.Name))

		p := pipeline.New(cfg, pages, yahoo, out)
		p.OnEnrichProgress = func(done, total int, symbol string) {
			fmt.Fprint(os.Stdout, renderProgress("Fetching company metadata", done, total, symbol))
			if done == total {
				fmt.Println()
			}
		}
		p.OnDownloadProgress = func(done, total int, symbol string, err error) {
			fmt.Fprint(os.Stdout, renderProgress("Downloading price history", done, total, symbol))
			if done == total {
				fmt.Println()
			}
		}

		result, err := p.Run(u)
		if err != nil {
			printError("%s extraction failed: %v", u.Name, err)
			return err
		}

		printStage("Constituents: %d (%d metadata lookups failed)",
			result.Constituents, result.EnrichmentFailures)
		for _, ticker := range result.SkippedTickers {
			printWarn("skipped %s: price history download failed", ticker)
		}
		printSuccess("Saved %d tickers to %s", result.Constituents, result.TickersPath)
		printSuccess("Saved %d price rows to %s", result.PriceRows, result.PricesPath)
	}

	return nil
}
