package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui"
	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/services"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for quickfind.

Typing searches every category as you go. Results arrive per category and
render in a fixed order; a slow or failing category never blocks the others.

Controls:
  ↑/↓          Move the highlight
  Enter        Select the highlighted item
  Tab/S-Tab    Switch category
  PgDn         Load more of the selected category
  Ctrl+R       Retry failed categories
  Ctrl+S       Settings
  Esc          Close the search (/ reopens it)
  Ctrl+C       Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	a, err := loadApp()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	// The session needs the UI's callbacks and the UI needs the session.
	var ui *tui.App
	session := a.NewSession(ctx, services.SessionCallbacks{
		OnSelect: func(item domain.Item) { ui.OnSelect(item) },
		OnClose:  func() { ui.OnClose() },
	})
	defer session.Release()

	ui, err = tui.NewApp(tui.NewPorts(session, a.Settings))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	ui.WithContext(ctx)
	sweepCache(ctx, a)

	go func() {
		err := a.WatchConfig(ctx, func(settings domain.SearchSettings) {
			session.ApplySettings(settings)
			ui.Reloaded(settings)
		})
		if err != nil {
			logger.Warn("config watch stopped: %v", err)
		}
	}()

	if err := ui.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
