// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickfind/internal/core/domain"
)

// chromeRows is the header and footer around a single-category list.
const chromeRows = 2

// ResultList renders the category sections of an aggregate state with the
// navigator's highlight. In a single-category view it scrolls to keep the
// highlight visible and reports its scroll position for infinite scroll.
type ResultList struct {
	styles      *styles.Styles
	state       domain.AggregateState
	view        domain.Category
	highlighted int
	offset      int
	width       int
	height      int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{
		styles: s,
		view:   domain.CategoryAll,
		width:  80,
		height: 20,
	}
}

// SetState replaces the rendered state and view.
func (r *ResultList) SetState(state domain.AggregateState, view domain.Category) {
	if view != r.view {
		r.offset = 0
	}
	r.state = state
	r.view = view
	r.clampOffset()
}

// SetHighlighted moves the highlight and scrolls it into view.
func (r *ResultList) SetHighlighted(index int) {
	r.highlighted = index
	if r.view.IsAll() {
		return
	}
	rows := r.visibleRows()
	if index < r.offset {
		r.offset = index
	}
	if index >= r.offset+rows {
		r.offset = index - rows + 1
	}
	r.clampOffset()
}

// Highlighted returns the highlighted index.
func (r *ResultList) Highlighted() int {
	return r.highlighted
}

// ScrollPosition reports the single-category list geometry in rows.
func (r *ResultList) ScrollPosition() domain.ScrollPosition {
	return domain.ScrollPosition{
		Top:      r.offset,
		Height:   len(r.state[r.view].Items),
		Viewport: r.visibleRows(),
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
	r.clampOffset()
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of items in view.
func (r *ResultList) Count() int {
	n := 0
	for _, st := range r.state.Ordered(domain.ViewCategories(r.view)) {
		n += len(st.Items)
	}
	return n
}

// View renders the sections in view.
func (r *ResultList) View() string {
	if r.view.IsAll() {
		return r.renderAll()
	}
	return r.renderSingle()
}

func (r *ResultList) renderAll() string {
	var lines []string
	index := 0
	for _, st := range r.state.Ordered(domain.Categories()) {
		if st.Status == domain.StatusIdle {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, r.header(st))
		for i := range st.Items {
			lines = append(lines, r.row(index, &st.Items[i]))
			index++
		}
		lines = append(lines, r.notes(st)...)
		if st.HasMore && st.Status == domain.StatusLoaded {
			lines = append(lines, r.styles.Muted.Render("  tab to see more "+strings.ToLower(st.Category.Label())))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) renderSingle() string {
	st, ok := r.state[r.view]
	if !ok || st.Status == domain.StatusIdle {
		return ""
	}

	lines := []string{r.header(st)}
	end := min(r.offset+r.visibleRows(), len(st.Items))
	for i := r.offset; i < end; i++ {
		lines = append(lines, r.row(i, &st.Items[i]))
	}
	lines = append(lines, r.notes(st)...)

	switch {
	case st.Status == domain.StatusLoading && len(st.Items) > 0:
		lines = append(lines, r.styles.Loading.Render("  loading more..."))
	case st.HasMore:
		lines = append(lines, r.styles.Muted.Render("  pgdn for more"))
	case len(st.Items) > 0 && st.Status == domain.StatusLoaded:
		lines = append(lines, r.styles.Muted.Render("  end of results"))
	}
	return strings.Join(lines, "\n")
}

func (r *ResultList) header(st domain.CategoryState) string {
	title := r.styles.SectionHeader.Render(st.Category.Label())
	if n := len(st.Items); n > 0 {
		title += r.styles.Muted.Render(fmt.Sprintf(" (%d)", n))
	}
	return title
}

// notes renders status lines: searching, no results, or a failure with its retry hint.
func (r *ResultList) notes(st domain.CategoryState) []string {
	switch st.Status {
	case domain.StatusLoading:
		if len(st.Items) == 0 {
			return []string{r.styles.Loading.Render("  searching...")}
		}
	case domain.StatusFailed:
		msg := "couldn't load results"
		if st.Err != nil {
			msg += ": " + st.Err.Error()
		}
		return []string{
			r.styles.Error.Render("  " + truncate(msg, r.width-2)),
			r.styles.Muted.Render("  ctrl+r to retry"),
		}
	case domain.StatusLoaded:
		if len(st.Items) == 0 {
			return []string{r.styles.Muted.Render("  No results")}
		}
	case domain.StatusIdle:
	}
	return nil
}

// row renders one item on a single line: title then subtitle.
func (r *ResultList) row(index int, item *domain.Item) string {
	title := item.Title
	if title == "" {
		title = "(untitled)"
	}
	room := max(r.width-4, 10)
	title = truncate(title, room)
	subtitle := ""
	if item.Subtitle != "" && len([]rune(title))+3 < room {
		subtitle = truncate(item.Subtitle, room-len([]rune(title))-2)
	}

	if index == r.highlighted {
		text := "> " + title
		if subtitle != "" {
			text += "  " + subtitle
		}
		return r.styles.Highlighted.Render(text)
	}
	line := r.styles.Normal.Render("  " + title)
	if subtitle != "" {
		line += r.styles.Muted.Render("  " + subtitle)
	}
	return line
}

func (r *ResultList) visibleRows() int {
	return max(r.height-chromeRows, 1)
}

func (r *ResultList) clampOffset() {
	n := len(r.state[r.view].Items)
	r.offset = max(min(r.offset, n-r.visibleRows()), 0)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:max(n, 0)])
	}
	return string(runes[:n-3]) + "..."
}
