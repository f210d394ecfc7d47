// Package messages defines the Bubbletea messages exchanged between the TUI views.
package messages

import (
	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewRuns lists recorded repair runs.
	ViewRuns ViewType = iota
	// ViewRunDetail shows one run round by round.
	ViewRunDetail
	// ViewSettings edits the repair settings.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewRuns:
		return "runs"
	case ViewRunDetail:
		return "run_detail"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// RunsLoaded carries the run list back to the model.
type RunsLoaded struct {
	Runs []domain.RepairRun
	Err  error
}

// RunSelected is sent when a run is picked from the list.
type RunSelected struct {
	ID string
}

// RunLoaded carries a fully loaded run.
type RunLoaded struct {
	Run *domain.RepairRun
	Err error
}

// RunDeleted reports the outcome of deleting a run.
type RunDeleted struct {
	ID  string
	Err error
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved reports the outcome of a settings change.
type SettingsSaved struct {
	Err error
}

// LLMValidated reports the outcome of pinging the configured LLM.
type LLMValidated struct {
	Err error
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// Quit is sent to exit the application.
type Quit struct{}
