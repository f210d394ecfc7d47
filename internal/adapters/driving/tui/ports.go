// Package tui provides an interactive terminal browser for recorded repair
// runs and the repair settings.
package tui

import (
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI talks to.
type Ports struct {
	// History lists, loads and deletes recorded runs.
	History driving.HistoryService

	// Settings reads and updates the repair settings. Optional.
	Settings driving.SettingsService
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.History == nil {
		return ErrMissingHistoryService
	}
	return nil
}
