package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `Show and change the settings stored in config.toml.

Running servers and TUIs pick up changes without a restart, except for
storage settings.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every setting and its effective value",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Durations use Go syntax such as 300ms or 5m.

The new value is validated together with the other settings; for example
search.load_more_page_size must stay larger than search.page_size.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	values, err := a.Settings.Values()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	keys := a.Settings.Keys()
	width := 0
	for _, k := range keys {
		width = max(width, len(k))
	}

	cmd.Printf("Config: %s\n\n", a.Config.Path())
	for _, k := range keys {
		value := values[k]
		if value == "" {
			value = "(default)"
		}
		cmd.Printf("  %-*s  %s\n", width, k, value)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	if err := a.Settings.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", args[0], args[1])
	return nil
}
