package driving

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// RepairRequest describes one snippet to repair.
type RepairRequest struct {
	// Source names where the code came from (file name or "stdin").
	Source string

	// Language of the code.
	Language domain.Language

	// Code is the snippet to check and repair.
	Code string

	// MaxRounds overrides the configured round limit when > 0.
	MaxRounds int
}

// RepairService runs the compiler-guided repair loop.
type RepairService interface {
	// Repair checks and, where needed, repairs code with the LLM.
	// The returned run is recorded in history whatever its status.
	// On infrastructure failure both the failed run and the error are returned.
	Repair(ctx context.Context, req RepairRequest) (*domain.RepairRun, error)
}
