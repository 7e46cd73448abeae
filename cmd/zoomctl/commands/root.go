package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/maltedev/zoom-price-scraper/internal/app"
	"github.com/maltedev/zoom-price-scraper/internal/config"
	"github.com/maltedev/zoom-price-scraper/internal/logger"
	"github.com/spf13/cobra"
)

var (
	baseURL      string
	cacheBackend string
	logLevel     string
	asTable      bool

	stack *app.App
)

var rootCmd = &cobra.Command{
	Use:   "zoomctl",
	Short: "zoomctl runs price-comparison scraping operations from the command line.",
	Long: `zoomctl runs the same search, details and offers operations as the HTTP
service, using the same environment configuration.

Details and offers resolve product ids through the resolver cache, so they
only find products that a previous search stored in a shared Redis cache.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("base-url") {
			cfg.Server.BaseURL = baseURL
		}
		if cmd.Flags().Changed("cache") {
			cfg.Cache.Backend = cacheBackend
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		log := logger.New(logLevel, "text", os.Stderr)

		stack, err = app.New(cmd.Context(), cfg, log)
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if stack == nil {
			return nil
		}
		return stack.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Override BASE_URL.")
	rootCmd.PersistentFlags().StringVar(&cacheBackend, "cache", "", "Override CACHE_BACKEND (redis or memory).")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level written to stderr.")
	rootCmd.PersistentFlags().BoolVar(&asTable, "table", false, "Render results as a table instead of JSON.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
