package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/messages"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/styles"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/views/rundetail"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/views/runs"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/views/settings"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// App is the root Bubbletea model. It routes messages to the active view.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles

	runsView      *runs.View
	runDetailView *rundetail.View
	settingsView  *settings.View

	currentView messages.ViewType
	err         error
	width       int
	height      int
	ready       bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		runsView:      runs.NewView(s, ports.History),
		runDetailView: rundetail.NewView(s),
		settingsView:  settings.NewView(s, ports.Settings),
		currentView:   messages.ViewRuns,
	}, nil
}

// WithContext sets the context passed to service calls.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.runsView.SetContext(ctx)
	a.settingsView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("racg - repair runs"),
		a.runsView.Init(),
	)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.runsView.SetDimensions(msg.Width, msg.Height)
		a.runDetailView.SetDimensions(msg.Width, msg.Height)
		a.settingsView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewRuns:
			return a, a.runsView.Init()
		case messages.ViewRunDetail:
			// filled by RunLoaded
		}
		return a, nil

	case messages.RunSelected:
		return a, a.loadRun(msg.ID)

	case messages.RunLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.runsView, cmd = a.runsView.Update(messages.ErrorOccurred{Err: msg.Err})
			return a, cmd
		}
		a.runDetailView.SetRun(msg.Run)
		a.currentView = messages.ViewRunDetail
		return a, nil

	case messages.RunsLoaded, messages.RunDeleted:
		a.runsView, cmd = a.runsView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingsSaved, messages.LLMValidated:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		logger.Debug("tui: %v", msg.Err)
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward hands msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewRuns:
		a.runsView, cmd = a.runsView.Update(msg)
	case messages.ViewRunDetail:
		a.runDetailView, cmd = a.runDetailView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	}
	return cmd
}

func (a *App) loadRun(id string) tea.Cmd {
	history, ctx := a.ports.History, a.ctx
	return func() tea.Msg {
		run, err := history.Get(ctx, id)
		if err != nil {
			return messages.RunLoaded{Err: fmt.Errorf("load run %s: %w", id, err)}
		}
		return messages.RunLoaded{Run: run}
	}
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	switch a.currentView {
	case messages.ViewRunDetail:
		return a.runDetailView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	default:
		return a.runsView.View()
	}
}

// Run starts the Bubbletea program and blocks until the user quits or ctx ends.
func (a *App) Run(ctx context.Context) error {
	a.WithContext(ctx)
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error routed through the app.
func (a *App) Err() error {
	return a.err
}
