package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quickfind/internal/core/domain"
)

var (
	searchCategory string
	searchLimit    int
	searchOffset   int
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search every category once",
	Long: `Runs a one-shot search across every category, or one category with
--category, and prints each category's section in declared order.

A failing category is reported in its own section. The command only fails
when every category in view failed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "restrict to one category")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "items per category (0 = configured page size)")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "items to skip per category")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// searchSection is the JSON shape of one category.
type searchSection struct {
	Category string        `json:"category"`
	Status   string        `json:"status"`
	Items    []domain.Item `json:"items"`
	HasMore  bool          `json:"has_more"`
	Error    string        `json:"error,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	category, err := domain.ParseCategory(searchCategory)
	if err != nil {
		return err
	}
	if searchLimit < 0 || searchOffset < 0 {
		return fmt.Errorf("%w: limit and offset must not be negative", domain.ErrInvalidInput)
	}
	query := domain.NewSearchQuery(args[0], category, searchOffset)
	if query.IsEmpty() {
		return fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	a, err := loadApp()
	if err != nil {
		return err
	}

	state := a.Engine.Lookup(cmd.Context(), query, searchLimit)
	sections := state.Ordered(domain.ViewCategories(category))

	if searchJSON {
		err = outputSearchJSON(cmd, sections)
	} else {
		outputSearchText(cmd, sections)
	}
	if err != nil {
		return err
	}
	return allFailed(sections)
}

// allFailed returns an error only when no category succeeded.
func allFailed(sections []domain.CategoryState) error {
	var errs []string
	for _, st := range sections {
		if st.Status != domain.StatusFailed {
			return nil
		}
		errs = append(errs, fmt.Sprintf("%s: %v", st.Category, st.Err))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("search failed: %s", strings.Join(errs, "; "))
}

func outputSearchJSON(cmd *cobra.Command, sections []domain.CategoryState) error {
	out := make([]searchSection, 0, len(sections))
	for _, st := range sections {
		s := searchSection{
			Category: st.Category.String(),
			Status:   st.Status.String(),
			Items:    st.Items,
			HasMore:  st.HasMore,
		}
		if s.Items == nil {
			s.Items = []domain.Item{}
		}
		if st.Err != nil {
			s.Error = st.Err.Error()
		}
		out = append(out, s)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchText(cmd *cobra.Command, sections []domain.CategoryState) {
	width := terminalWidth()
	for i, st := range sections {
		if i > 0 {
			cmd.Println()
		}
		header := st.Category.Label()
		if n := len(st.Items); n > 0 {
			more := ""
			if st.HasMore {
				more = "+"
			}
			header += fmt.Sprintf(" (%d%s)", n, more)
		}
		cmd.Println(header)

		if st.Status == domain.StatusFailed {
			cmd.Printf("  error: %v\n", st.Err)
			continue
		}
		if len(st.Items) == 0 {
			cmd.Println("  No results.")
			continue
		}
		for _, item := range st.Items {
			line := "  " + item.Title
			if item.Subtitle != "" {
				line += " · " + item.Subtitle
			}
			cmd.Println(clip(line, width))
		}
	}
}

// terminalWidth returns stdout's width, or zero when it is not a terminal.
func terminalWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}

// clip shortens s to width runes. Zero width disables clipping.
func clip(s string, width int) string {
	runes := []rune(s)
	if width <= 0 || len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
