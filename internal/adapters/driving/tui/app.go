package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/quickfind/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/quickfind/internal/core/domain"
	"github.com/custodia-labs/quickfind/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView   *search.View
	settingsView *settings.View

	// feed delivers engine snapshots and session callbacks to Update.
	feed        *feed
	unsubscribe func()

	// currentView tracks which view is active.
	currentView messages.ViewType

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports. The app
// subscribes to the session immediately; call Close to detach it.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	a := &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		searchView:   search.NewView(s, km, ports.Session),
		settingsView: settings.NewView(s, ports.Settings),
		feed:         newFeed(),
		currentView:  messages.ViewSearch,
	}
	a.unsubscribe = ports.Session.Subscribe(a.feed.publish)
	return a, nil
}

// WithContext sets the context for the app and the fetches it starts.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// OnSelect reports a selected item. It is safe to call from any goroutine
// and is meant to be wired as the session's select callback.
func (a *App) OnSelect(item domain.Item) {
	a.feed.event(messages.ItemSelected{Item: item})
}

// OnClose reports that the search surface was closed.
func (a *App) OnClose() {
	a.feed.event(messages.SurfaceClosed{})
}

// Reloaded reports that new settings were applied from the config file.
func (a *App) Reloaded(settings domain.SearchSettings) {
	a.feed.event(messages.SettingsReloaded{Settings: settings})
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("quickfind"),
		a.searchView.Init(),
		a.feed.listen(a.ctx),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		a.settingsView, _ = a.settingsView.Update(msg)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.StateChanged, messages.ItemSelected, messages.SurfaceClosed:
		if _, ok := msg.(messages.SurfaceClosed); ok {
			logger.Debug("tui: search surface closed")
		}
		a.searchView, cmd = a.searchView.Update(msg)
		return a, tea.Batch(cmd, a.feed.listen(a.ctx))

	case messages.SettingsReloaded:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, tea.Batch(cmd, a.feed.listen(a.ctx))

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ActionFinished:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd
	}

	return a.forward(msg)
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()
	if keymap.Matches(keyStr, a.keymap.Quit) {
		return a, tea.Quit
	}
	if a.currentView == messages.ViewSearch && !a.ports.Session.IsOpen() && keyStr == "q" {
		return a, tea.Quit
	}
	if keymap.Matches(keyStr, a.keymap.Settings) {
		if a.currentView == messages.ViewSettings {
			return a, a.switchTo(messages.ViewSearch)
		}
		return a, a.switchTo(messages.ViewSettings)
	}
	return a.forward(msg)
}

func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	default:
		a.searchView, cmd = a.searchView.Update(msg)
	}
	return a, cmd
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.currentView = view
	if view == messages.ViewSettings {
		return a.settingsView.Init()
	}
	return nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSettings:
		return a.settingsView.View()
	default:
		return a.searchView.View()
	}
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && a.ctx.Err() != nil {
		return nil
	}
	return err
}

// Close detaches the app from the session.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
}
