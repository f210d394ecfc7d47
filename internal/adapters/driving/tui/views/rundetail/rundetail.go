// Package rundetail provides the scrollable round-by-round view of one repair run.
package rundetail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/keymap"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/messages"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/styles"
	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// reservedLines is the space taken by the title and help line.
const reservedLines = 4

// View shows a single run.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap

	viewport viewport.Model
	run      *domain.RepairRun
	showCode bool
	err      error
}

// NewView creates a run detail view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		keys:     keymap.DefaultKeyMap(),
		viewport: viewport.New(80, 20),
	}
}

// SetRun replaces the displayed run and scrolls to the top.
func (v *View) SetRun(run *domain.RepairRun) {
	v.run = run
	v.err = nil
	v.showCode = false
	v.refresh()
	v.viewport.GotoTop()
}

// SetDimensions sizes the viewport.
func (v *View) SetDimensions(width, height int) {
	v.viewport.Width = width
	v.viewport.Height = max(height-reservedLines, 1)
	v.refresh()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles scrolling and navigation.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewRuns} }
		case "c":
			v.showCode = !v.showCode
			v.refresh()
			return v, nil
		}

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

func (v *View) refresh() {
	v.viewport.SetContent(strings.Join(v.buildContent(), "\n"))
}

func (v *View) buildContent() []string {
	run := v.run
	if run == nil {
		return nil
	}

	lines := []string{
		v.field("Source", fmt.Sprintf("%s (%s)", run.Source, run.Language.Description())),
		v.field("Status", v.styles.Status(run.Status).Render(run.Status.String())),
		v.field("Rounds", fmt.Sprintf("%d", len(run.Rounds))),
	}
	if run.Model != "" {
		lines = append(lines, v.field("Model", run.Model))
	}
	if !run.StartedAt.IsZero() {
		lines = append(lines, v.field("Started", run.StartedAt.Format("2006-01-02 15:04:05")))
	}
	if d := run.Duration(); d > 0 {
		lines = append(lines, v.field("Duration", d.Round(time.Millisecond).String()))
	}
	if run.Error != "" {
		lines = append(lines, v.field("Error", v.styles.Error.Render(run.Error)))
	}

	for _, round := range run.Rounds {
		lines = append(lines, "", v.styles.Subtitle.Render(fmt.Sprintf("Round %d", round.Number)))
		lines = append(lines, v.roundLines(round)...)
	}

	if v.showCode {
		lines = append(lines, "", v.styles.Subtitle.Render("Final code"))
		lines = append(lines, strings.Split(run.FinalCode, "\n")...)
	}
	return lines
}

func (v *View) roundLines(round domain.RepairRound) []string {
	var lines []string
	if c := round.Compile; c != nil {
		if c.HasErrors() {
			lines = append(lines, v.styles.Error.Render(fmt.Sprintf("  %s failed (exit %d)", c.Tool, c.ExitCode)))
			for _, l := range strings.Split(strings.TrimRight(c.Output(), "\n"), "\n") {
				lines = append(lines, "    "+l)
			}
		} else {
			lines = append(lines, v.styles.Success.Render(fmt.Sprintf("  %s passed", c.Tool)))
		}
	}
	if r := round.Validation; r != nil {
		if r.OK() {
			lines = append(lines, v.styles.Success.Render(fmt.Sprintf("  imports ok (%d packages)", len(r.Packages))))
		}
		for _, f := range r.Findings {
			style := v.styles.Warning
			if f.Kind.IsMalicious() {
				style = v.styles.Error
			}
			lines = append(lines, "  "+style.Render(f.String()))
		}
	}
	if v.showCode && round.RepairedCode != "" {
		lines = append(lines, v.styles.Muted.Render("  Repaired code:"))
		for _, l := range strings.Split(round.RepairedCode, "\n") {
			lines = append(lines, "    "+l)
		}
	}
	return lines
}

func (v *View) field(label, value string) string {
	return v.styles.Muted.Render(fmt.Sprintf("%-9s", label+":")) + " " + value
}

// View renders the run.
func (v *View) View() string {
	var b strings.Builder

	title := "Run"
	if v.run != nil {
		title = "Run " + v.run.ID
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.run == nil:
		b.WriteString(v.styles.Muted.Render("No run selected."))
	default:
		b.WriteString(v.viewport.View())
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keys.Up, v.keys.Down, v.keys.Back) + " • c toggle code"))
	return b.String()
}

// Run returns the displayed run.
func (v *View) Run() *domain.RepairRun {
	return v.run
}

// ShowingCode reports whether repaired code is expanded.
func (v *View) ShowingCode() bool {
	return v.showCode
}
