package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService exposes recorded repair runs.
type HistoryService struct {
	runs driven.RunStore
}

// NewHistoryService creates a history service.
func NewHistoryService(runs driven.RunStore) *HistoryService {
	return &HistoryService{runs: runs}
}

// List returns recent runs, newest first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]domain.RepairRun, error) {
	if s.runs == nil {
		return nil, errors.New("run store not configured")
	}
	runs, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get retrieves a run by ID.
func (s *HistoryService) Get(ctx context.Context, id string) (*domain.RepairRun, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: run id required", domain.ErrInvalidInput)
	}
	if s.runs == nil {
		return nil, errors.New("run store not configured")
	}
	return s.runs.Get(ctx, id)
}

// Delete removes a run.
func (s *HistoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: run id required", domain.ErrInvalidInput)
	}
	if s.runs == nil {
		return errors.New("run store not configured")
	}
	if _, err := s.runs.Get(ctx, id); err != nil {
		return err
	}
	return s.runs.Delete(ctx, id)
}
