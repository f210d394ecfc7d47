// Package runs provides the run list view for the TUI.
package runs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/keymap"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/messages"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/styles"
	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// DefaultLimit is the number of runs fetched per load.
const DefaultLimit = 100

var errNoHistory = errors.New("history service not available")

// View is the run list view.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	history driving.HistoryService
	ctx     context.Context

	runs         []domain.RepairRun
	selected     int
	scrollOffset int
	confirming   bool
	loading      bool
	err          error
	width        int
	height       int
}

// NewView creates a run list view.
func NewView(s *styles.Styles, history driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		history: history,
		ctx:     context.Background(),
	}
}

// SetContext sets the context used for history calls.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Init loads the run list.
func (v *View) Init() tea.Cmd {
	v.loading = true
	return v.loadRuns()
}

func (v *View) loadRuns() tea.Cmd {
	history, ctx := v.history, v.ctx
	return func() tea.Msg {
		if history == nil {
			return messages.RunsLoaded{Err: errNoHistory}
		}
		runs, err := history.List(ctx, DefaultLimit)
		return messages.RunsLoaded{Runs: runs, Err: err}
	}
}

func (v *View) deleteRun(id string) tea.Cmd {
	history, ctx := v.history, v.ctx
	return func() tea.Msg {
		if history == nil {
			return messages.RunDeleted{ID: id, Err: errNoHistory}
		}
		return messages.RunDeleted{ID: id, Err: history.Delete(ctx, id)}
	}
}

// Update handles messages for the run list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.confirming {
			return v.handleConfirmKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.RunsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.runs = msg.Runs
		v.err = nil
		if v.selected >= len(v.runs) {
			v.selected = max(len(v.runs)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.RunDeleted:
		if msg.Err != nil {
			v.err = fmt.Errorf("delete %s: %w", msg.ID, msg.Err)
			return v, nil
		}
		v.loading = true
		return v, v.loadRuns()

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Up):
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keys.Down):
		if v.selected < len(v.runs)-1 {
			v.selected++
			v.adjustScroll()
		}
	case keymap.Matches(k, v.keys.Select):
		if run := v.SelectedRun(); run != nil {
			id := run.ID
			return v, func() tea.Msg { return messages.RunSelected{ID: id} }
		}
	case keymap.Matches(k, v.keys.Delete):
		if v.SelectedRun() != nil {
			v.confirming = true
		}
	case keymap.Matches(k, v.keys.Reload):
		v.loading = true
		return v, v.loadRuns()
	case keymap.Matches(k, v.keys.Settings):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewSettings} }
	case keymap.Matches(k, v.keys.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	}
	return v, nil
}

func (v *View) handleConfirmKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	v.confirming = false
	if !keymap.Matches(msg.String(), v.keys.Confirm) {
		return v, nil
	}
	run := v.SelectedRun()
	if run == nil {
		return v, nil
	}
	return v, v.deleteRun(run.ID)
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	return max(v.height-6, 1)
}

// View renders the run list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Repair runs (%d)", len(v.runs))))
	b.WriteString("\n\n")

	switch {
	case v.loading && len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("Loading runs..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.runs) == 0:
		b.WriteString(v.styles.Muted.Render("No repair runs recorded yet. Run 'racg repair' first."))
	default:
		visible := v.visibleItemCount()
		end := min(v.scrollOffset+visible, len(v.runs))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderRun(i, &v.runs[i]))
			b.WriteString("\n")
		}
		if len(v.runs) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]", v.scrollOffset+1, end, len(v.runs))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if v.confirming {
		if run := v.SelectedRun(); run != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Delete run %s? (y/N)", shortID(run.ID))))
			return b.String()
		}
	}
	b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keys.RunsHelp()...)))
	return b.String()
}

func (v *View) renderRun(index int, run *domain.RepairRun) string {
	source := run.Source
	if limit := max(v.width-48, 12); len(source) > limit {
		source = "..." + source[len(source)-limit+3:]
	}
	line := fmt.Sprintf("%-8s  %-10s  %-10s  %2d rounds  %s",
		shortID(run.ID),
		run.Language,
		run.Status,
		len(run.Rounds),
		source,
	)
	if index == v.selected {
		return v.styles.Selected.Render("> " + line)
	}
	return "  " + v.styles.Status(run.Status).Render(line)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Runs returns the loaded runs.
func (v *View) Runs() []domain.RepairRun {
	return v.runs
}

// SelectedRun returns the highlighted run, or nil when the list is empty.
func (v *View) SelectedRun() *domain.RepairRun {
	if v.selected < 0 || v.selected >= len(v.runs) {
		return nil
	}
	return &v.runs[v.selected]
}

// Err returns the last error shown by the view.
func (v *View) Err() error {
	return v.err
}
