package driven

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// RunStore persists repair runs.
type RunStore interface {
	// Save stores or updates a run, including its rounds.
	Save(ctx context.Context, run *domain.RepairRun) error

	// Get retrieves a run by ID. Returns domain.ErrNotFound if absent.
	Get(ctx context.Context, id string) (*domain.RepairRun, error)

	// List returns the most recent runs first. limit <= 0 means no limit.
	List(ctx context.Context, limit int) ([]domain.RepairRun, error)

	// Delete removes a run and its rounds.
	Delete(ctx context.Context, id string) error
}
