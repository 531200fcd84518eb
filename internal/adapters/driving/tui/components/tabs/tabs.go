// Package tabs renders the category selector.
package tabs

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// Tabs lists "All" followed by every category in declared order.
type Tabs struct {
	styles *styles.Styles
	views  []domain.Category
}

// New creates the category tabs.
func New(s *styles.Styles) *Tabs {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Tabs{
		styles: s,
		views:  append([]domain.Category{domain.CategoryAll}, domain.Categories()...),
	}
}

// Next returns the view after current, wrapping around.
func (t *Tabs) Next(current domain.Category) domain.Category {
	return t.views[(t.index(current)+1)%len(t.views)]
}

// Prev returns the view before current, wrapping around.
func (t *Tabs) Prev(current domain.Category) domain.Category {
	return t.views[(t.index(current)+len(t.views)-1)%len(t.views)]
}

func (t *Tabs) index(view domain.Category) int {
	for i, v := range t.views {
		if v == view {
			return i
		}
	}
	return 0
}

// View renders the tabs with active highlighted. Counts, when present, are
// appended to each label.
func (t *Tabs) View(active domain.Category, state domain.AggregateState) string {
	parts := make([]string, len(t.views))
	for i, v := range t.views {
		label := v.Label()
		if st, ok := state[v]; ok && len(st.Items) > 0 {
			label += " " + count(len(st.Items), st.HasMore)
		}
		if v == active {
			parts[i] = t.styles.ActiveTab.Render(label)
		} else {
			parts[i] = t.styles.Tab.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// count formats a count, marking partial totals with "+".
func count(n int, more bool) string {
	s := strconv.Itoa(n)
	if more {
		s += "+"
	}
	return s
}
