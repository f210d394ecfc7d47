package mcp

import (
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Validator checks imported packages.
	Validator driving.ImportValidator

	// Compiler runs the language toolchain. Optional.
	Compiler driving.CompileService

	// Repair runs the repair loop. Optional; needs a configured LLM.
	Repair driving.RepairService

	// History exposes recorded runs. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Validator == nil {
		return ErrMissingValidator
	}
	return nil
}
