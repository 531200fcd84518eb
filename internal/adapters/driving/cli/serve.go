package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/api"
	"github.com/custodia-labs/quickfind/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the quickfind HTTP API.

Endpoints:
  GET /healthz                         liveness
  GET /api/v1/categories               categories with item counts
  GET /api/v1/search?q=&category=      one page per category
  GET /api/v1/items/{category}/{id}    a single item
  GET /metrics                         Prometheus metrics

Edits to config.toml are applied without a restart.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	logger.SetTimestamps(true)

	server, err := api.NewServer(&api.Ports{Lookup: a.Engine, Catalog: a.Catalog}, a.Registry)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	sweepCache(ctx, a)
	go func() {
		if err := a.WatchConfig(ctx, nil); err != nil {
			logger.Warn("config watch stopped: %v", err)
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "quickfind listening on http://%s\n", serveAddr)
	return server.Run(ctx, serveAddr)
}
