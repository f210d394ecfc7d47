package driving

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// HistoryService exposes recorded repair runs.
type HistoryService interface {
	// List returns recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.RepairRun, error)

	// Get retrieves a run by ID.
	Get(ctx context.Context, id string) (*domain.RepairRun, error)

	// Delete removes a run.
	Delete(ctx context.Context, id string) error
}
