// Package cli provides the quickfind command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickfind/internal/app"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string
	useMemory bool
)

// newApp builds the application. Tests replace it to inject stores.
var newApp = app.New

// current is the application shared by the running command.
var current *app.App

var rootCmd = &cobra.Command{
	Use:   "quickfind",
	Short: "Search people, posts, events, comments and locations at once",
	Long: `quickfind searches several independent categories of content in
parallel. Every category has its own status, paging and error, so one slow
or failing category never holds back the rest.

Run "quickfind tui" for the interactive search surface, "quickfind serve"
for the HTTP API or "quickfind search <query>" for a one-shot lookup.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.quickfind)")
	rootCmd.PersistentFlags().BoolVar(&useMemory, "memory", false, "use a volatile in-memory catalog")
}

// loadApp returns the shared application, building it on first use.
func loadApp() (*app.App, error) {
	if current != nil {
		return current, nil
	}
	a, err := newApp(app.Options{ConfigDir: configDir, Memory: useMemory})
	if err != nil {
		return nil, err
	}
	current = a
	return current, nil
}

// closeApp releases the shared application, if any.
func closeApp() {
	if current == nil {
		return
	}
	if err := current.Close(); err != nil {
		logger.Warn("closing: %v", err)
	}
	current = nil
}

// sweepCache evicts expired cache entries in the background until ctx is done.
// Long-running commands call it; one-shot searches exit before entries expire.
func sweepCache(ctx context.Context, a *app.App) {
	go func() {
		if err := a.Janitor.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("cache janitor stopped: %v", err)
		}
	}()
}

// Execute runs the root command.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx, which cancels long-running
// commands such as serve and tui.
func ExecuteContext(ctx context.Context) error {
	defer closeApp()
	err := rootCmd.ExecuteContext(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
