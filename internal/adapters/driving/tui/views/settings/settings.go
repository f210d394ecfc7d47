// Package settings provides the repair settings view for the TUI.
package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/keymap"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/messages"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui/styles"
	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// Field is an editable row.
type Field int

const (
	FieldMaxRounds Field = iota
	FieldRegistryOffline
	FieldPopularFallback
	fieldCount
)

var errNoSettings = errors.New("settings service not available")

// View shows and edits the repair settings.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	service  driving.SettingsService
	ctx      context.Context
	settings *domain.AppSettings

	selected   Field
	editing    bool
	roundInput textinput.Model

	status string
	err    error
	width  int
	height int
}

// NewView creates a settings view.
func NewView(s *styles.Styles, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	input := textinput.New()
	input.Placeholder = strconv.Itoa(domain.DefaultMaxRounds)
	input.CharLimit = 3
	input.Validate = func(s string) error {
		if _, err := strconv.Atoi(s); s != "" && err != nil {
			return errors.New("rounds must be a number")
		}
		return nil
	}
	return &View{
		styles:     s,
		keys:       keymap.DefaultKeyMap(),
		service:    service,
		ctx:        context.Background(),
		roundInput: input,
	}
}

// SetContext sets the context used for LLM validation.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Reset clears transient state before the view is shown again.
func (v *View) Reset() {
	v.editing = false
	v.roundInput.Blur()
	v.status = ""
	v.err = nil
}

// Init loads the current settings.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: errNoSettings}
		}
		s, err := service.Get()
		return messages.SettingsLoaded{Settings: s, Err: err}
	}
}

func (v *View) save(apply func(driving.SettingsService) error) tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsSaved{Err: errNoSettings}
		}
		return messages.SettingsSaved{Err: apply(service)}
	}
}

func (v *View) validateLLM() tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.LLMValidated{Err: errNoSettings}
		}
		return messages.LLMValidated{Err: service.ValidateLLMConfig(ctx)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.err = nil
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.status = "Settings saved"
		v.err = nil
		return v, v.load()

	case messages.LLMValidated:
		if msg.Err != nil {
			v.err = fmt.Errorf("llm check failed: %w", msg.Err)
			v.status = ""
			return v, nil
		}
		v.err = nil
		v.status = "LLM reachable"
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewRuns} }
	case keymap.Matches(k, v.keys.Quit):
		return v, func() tea.Msg { return messages.Quit{} }
	case keymap.Matches(k, v.keys.Up):
		if v.selected > 0 {
			v.selected--
		}
	case keymap.Matches(k, v.keys.Down):
		if v.selected < fieldCount-1 {
			v.selected++
		}
	case keymap.Matches(k, v.keys.Validate):
		v.status = "Checking LLM..."
		return v, v.validateLLM()
	case keymap.Matches(k, v.keys.Toggle):
		return v.activate()
	}
	return v, nil
}

func (v *View) activate() (*View, tea.Cmd) {
	if v.settings == nil {
		return v, nil
	}
	switch v.selected {
	case FieldMaxRounds:
		v.editing = true
		v.roundInput.SetValue(strconv.Itoa(v.settings.Repair.MaxRounds))
		v.roundInput.CursorEnd()
		return v, v.roundInput.Focus()
	case FieldRegistryOffline:
		offline := !v.settings.Registry.Offline
		return v, v.save(func(s driving.SettingsService) error { return s.SetRegistryOffline(offline) })
	case FieldPopularFallback:
		updated := *v.settings
		updated.Registry.PopularFallback = !updated.Registry.PopularFallback
		return v, v.save(func(s driving.SettingsService) error { return s.Save(&updated) })
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.roundInput.Blur()
		return v, nil
	case tea.KeyEnter:
		v.editing = false
		v.roundInput.Blur()
		rounds, err := strconv.Atoi(strings.TrimSpace(v.roundInput.Value()))
		if err != nil {
			v.err = fmt.Errorf("invalid round count %q", v.roundInput.Value())
			return v, nil
		}
		return v, v.save(func(s driving.SettingsService) error { return s.SetMaxRounds(rounds) })
	}

	var cmd tea.Cmd
	v.roundInput, cmd = v.roundInput.Update(msg)
	return v, cmd
}

// View renders the settings.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.settings == nil {
		if v.err != nil {
			b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		} else {
			b.WriteString(v.styles.Muted.Render("Loading settings..."))
		}
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keys.Back)))
		return b.String()
	}

	s := v.settings
	b.WriteString(v.styles.Subtitle.Render("LLM"))
	b.WriteString("\n")
	if s.LLM.IsConfigured() {
		model := s.LLM.Model
		if model == "" {
			model = "default model"
		}
		b.WriteString(fmt.Sprintf("  %s (%s)\n", s.LLM.Provider.Description(), model))
	} else {
		b.WriteString(v.styles.Warning.Render("  not configured, run 'racg settings llm'"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Repair"))
	b.WriteString("\n")
	rounds := strconv.Itoa(s.Repair.MaxRounds)
	if v.editing {
		rounds = v.roundInput.View()
	}
	b.WriteString(v.row(FieldMaxRounds, "Max rounds", rounds))

	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Registry"))
	b.WriteString("\n")
	b.WriteString(v.row(FieldRegistryOffline, "Offline", onOff(s.Registry.Offline)))
	b.WriteString(v.row(FieldPopularFallback, "Popular fallback", onOff(s.Registry.PopularFallback)))
	b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  timeout %ds • %.0f req/s • cache %dh",
		s.Registry.TimeoutSeconds, s.Registry.RequestsPerSecond, s.Registry.CacheTTLHours)))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	case v.status != "":
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}

	b.WriteString(v.styles.Help.Render(keymap.HelpLine(v.keys.Up, v.keys.Down, v.keys.Toggle, v.keys.Validate, v.keys.Back)))
	return b.String()
}

func (v *View) row(f Field, label, value string) string {
	line := fmt.Sprintf("%-18s %s", label, value)
	if f == v.selected {
		return v.styles.Selected.Render("> "+line) + "\n"
	}
	return "  " + v.styles.Normal.Render(line) + "\n"
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// Settings returns the loaded settings.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Editing reports whether the round count input is focused.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error shown by the view.
func (v *View) Err() error {
	return v.err
}
