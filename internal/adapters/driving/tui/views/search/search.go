// Package search provides the main search view for the TUI.
package search

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/components/tabs"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/core/ports/driving"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// chromeRows is the space taken by the title, input, tabs and status bar.
const chromeRows = 9

// View is the search surface: input, category tabs, sectioned results and a
// status bar. Typed text goes to the session's debouncer, navigation keys to
// its navigator. Fetching operations run as commands so Update never blocks.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	tabs      *tabs.Tabs
	list      *list.ResultList
	statusbar *status.Bar

	session driving.SearchSession
	ctx     context.Context

	state    domain.AggregateState
	selected *domain.Item

	width  int
	height int
	ready  bool
}

// NewView creates a new search view over session.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.SearchSession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewSearchInput(s),
		tabs:      tabs.New(s),
		list:      list.NewResultList(s),
		statusbar: status.NewBar(s, km),
		session:   session,
		ctx:       context.Background(),
		state:     domain.NewAggregateState(domain.Categories()),
		width:     80,
		height:    24,
	}
	if session != nil {
		v.state = session.Snapshot()
		v.list.SetState(v.state, session.Category())
	}
	return v
}

// WithContext sets the context fetch commands run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init opens the surface and starts the cursor.
func (v *View) Init() tea.Cmd {
	if v.session != nil {
		v.session.Open()
	}
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.session == nil {
			return v, nil
		}
		return v.handleKeyMsg(msg)

	case messages.StateChanged:
		v.apply(msg.State)
		return v, nil

	case messages.ActionFinished:
		if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
			logger.Debug("%s %s: %v", msg.Action, msg.Category, msg.Err)
		}
		return v, nil

	case messages.ItemSelected:
		item := msg.Item
		v.selected = &item
		v.statusbar.SetMessage("Selected " + item.Title)
		return v, nil

	case messages.SurfaceClosed:
		v.closed()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd, _ = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg routes keys to the navigator, the engine or the input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if !v.session.IsOpen() {
		if key.Matches(msg, v.keymap.Open) {
			return v, v.open()
		}
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keymap.Close):
		v.session.HandleKey(domain.KeyEscape)
		if !v.session.IsOpen() {
			v.closed()
		}
		return v, nil

	case key.Matches(msg, v.keymap.Up):
		v.move(domain.KeyUp)
		return v, nil

	case key.Matches(msg, v.keymap.Down):
		v.move(domain.KeyDown)
		return v, nil

	case key.Matches(msg, v.keymap.Select):
		v.session.HandleKey(domain.KeyEnter)
		return v, nil

	case key.Matches(msg, v.keymap.NextCategory):
		return v, v.selectCategory(v.tabs.Next(v.session.Category()))

	case key.Matches(msg, v.keymap.PrevCategory):
		return v, v.selectCategory(v.tabs.Prev(v.session.Category()))

	case key.Matches(msg, v.keymap.LoadMore):
		return v, v.loadMore()

	case key.Matches(msg, v.keymap.Retry):
		return v, v.retry()
	}

	var (
		cmd     tea.Cmd
		changed bool
	)
	v.input, cmd, changed = v.input.Update(msg)
	if changed {
		v.selected = nil
		v.statusbar.SetMessage("")
		v.session.Input(v.input.Value())
	}
	return v, cmd
}

func (v *View) open() tea.Cmd {
	v.session.Open()
	v.statusbar.SetState(status.StateIdle)
	v.state = v.session.Snapshot()
	v.apply(v.state)
	return v.input.Focus()
}

func (v *View) closed() {
	v.input.Blur()
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateClosed)
}

// move shifts the highlight and samples the scroll position, which may start
// a load-more in the single-category view.
func (v *View) move(k domain.Key) {
	v.session.HandleKey(k)
	v.list.SetHighlighted(v.session.Highlighted())
	if !v.session.Category().IsAll() {
		v.session.Scroll(v.ctx, v.list.ScrollPosition())
	}
}

func (v *View) selectCategory(category domain.Category) tea.Cmd {
	session, ctx := v.session, v.ctx
	return func() tea.Msg {
		err := session.SelectCategory(ctx, category)
		return messages.ActionFinished{Action: messages.ActionSearch, Category: category, Err: err}
	}
}

// loadMore extends the selected category, or the category of the highlighted
// item in the all view.
func (v *View) loadMore() tea.Cmd {
	category := v.session.Category()
	if category.IsAll() {
		items := v.session.Flattened()
		i := v.session.Highlighted()
		if i < 0 || i >= len(items) {
			return nil
		}
		category = items[i].Category
	}
	st, ok := v.state[category]
	if !ok || !st.HasMore || st.Loading() {
		return nil
	}

	session, ctx, text := v.session, v.ctx, st.Query
	return func() tea.Msg {
		err := session.LoadMore(ctx, category, text)
		return messages.ActionFinished{Action: messages.ActionLoadMore, Category: category, Err: err}
	}
}

// retry re-runs every failed category in view.
func (v *View) retry() tea.Cmd {
	text := v.session.Text()
	var cmds []tea.Cmd
	for _, st := range v.state.Ordered(domain.ViewCategories(v.session.Category())) {
		if st.Status != domain.StatusFailed {
			continue
		}
		session, ctx, category := v.session, v.ctx, st.Category
		cmds = append(cmds, func() tea.Msg {
			err := session.Retry(ctx, category, text)
			return messages.ActionFinished{Action: messages.ActionRetry, Category: category, Err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (v *View) apply(state domain.AggregateState) {
	v.state = state
	view := v.session.Category()
	v.list.SetState(state, view)
	v.list.SetHighlighted(v.session.Highlighted())
	v.statusbar.Observe(state, view)
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections, v.styles.Title.Render("quickfind"), "")

	if v.session == nil || !v.session.IsOpen() {
		sections = append(sections, v.styles.Muted.Render("Press / to search"))
		return v.withStatus(sections)
	}

	view := v.session.Category()
	sections = append(sections, v.input.View(), v.tabs.View(view, v.state), "")

	results := v.list.View()
	if results == "" && strings.TrimSpace(v.input.Value()) == "" {
		results = v.renderRecent()
	}
	if results != "" {
		sections = append(sections, results)
	}

	if v.selected != nil {
		sections = append(sections, "", v.renderSelected())
	}
	return v.withStatus(sections)
}

func (v *View) withStatus(sections []string) string {
	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderRecent() string {
	recent := v.session.Recent()
	if len(recent) == 0 {
		return ""
	}
	lines := []string{v.styles.SectionHeader.Render("Recent")}
	for _, q := range recent {
		lines = append(lines, v.styles.Muted.Render("  "+q))
	}
	return strings.Join(lines, "\n")
}

func (v *View) renderSelected() string {
	item := v.selected
	lines := []string{v.styles.Success.Render(item.Title)}
	if item.Subtitle != "" {
		lines = append(lines, v.styles.Muted.Render(item.Subtitle))
	}
	if item.Snippet != "" {
		lines = append(lines, v.styles.Normal.Render(item.Snippet))
	}
	if item.URL != "" {
		lines = append(lines, v.styles.Muted.Render(item.URL))
	}
	return v.styles.Border.Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, max(height-chromeRows, 3))
	v.statusbar.SetWidth(width)
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the input.
func (v *View) Query() string {
	return v.input.Value()
}

// State returns the last rendered aggregate state.
func (v *View) State() domain.AggregateState {
	return v.state
}

// Selected returns the last selected item, if any.
func (v *View) Selected() *domain.Item {
	return v.selected
}

// Status returns the status bar state.
func (v *View) Status() status.State {
	return v.statusbar.State()
}
