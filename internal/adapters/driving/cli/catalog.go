package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quickfind/internal/app"
)

var importCmd = &cobra.Command{
	Use:   "import <file.toml>",
	Short: "Import items into the catalog",
	Long: `Import items from a TOML file. Each [[items]] table needs a category
and a title; items whose id already exists are replaced.

Example:
  [[items]]
  id = "p-1"
  category = "people"
  title = "Anna Berg"
  subtitle = "Oslo"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo items into the catalog",
	Long:  `Load a fixed demo data set into every category. Running it again replaces the same items.`,
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(seedCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening import file: %w", err)
	}
	defer f.Close()

	a, err := loadApp()
	if err != nil {
		return err
	}

	n, err := app.Import(cmd.Context(), a.Catalog, f)
	if err != nil {
		return err
	}
	cmd.Printf("Imported %d items.\n", n)
	return nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	n, err := app.Seed(cmd.Context(), a.Catalog)
	if err != nil {
		return err
	}
	cmd.Printf("Seeded %d items.\n", n)
	return nil
}
