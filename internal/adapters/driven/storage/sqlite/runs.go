package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	db *sql.DB
}

var _ driven.RunStore = (*runStore)(nil)

const runColumns = `id, source, language, status, model, original_code, final_code, error, started_at, finished_at`

// Save stores or replaces a run and all of its rounds.
func (s *runStore) Save(ctx context.Context, run *domain.RepairRun) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("saving run: %w: missing id", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var finishedAt sql.NullTime
	if !run.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: run.FinishedAt.UTC(), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO repair_runs (`+runColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			language = excluded.language,
			status = excluded.status,
			model = excluded.model,
			original_code = excluded.original_code,
			final_code = excluded.final_code,
			error = excluded.error,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, run.ID, run.Source, string(run.Language), string(run.Status), nullString(run.Model),
		run.OriginalCode, run.FinalCode, nullString(run.Error), run.StartedAt.UTC(), finishedAt)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM repair_rounds WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clearing rounds: %w", err)
	}
	for _, round := range run.Rounds {
		compileJSON, err := marshalNullable(round.Compile)
		if err != nil {
			return fmt.Errorf("marshalling compile result: %w", err)
		}
		validationJSON, err := marshalNullable(round.Validation)
		if err != nil {
			return fmt.Errorf("marshalling validation report: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO repair_rounds (run_id, number, compile, validation, feedback, repaired_code)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, round.Number, compileJSON, validationJSON,
			nullString(round.Feedback), nullString(round.RepairedCode))
		if err != nil {
			return fmt.Errorf("saving round %d: %w", round.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves a run with its rounds.
func (s *runStore) Get(ctx context.Context, id string) (*domain.RepairRun, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM repair_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	if run.Rounds, err = s.rounds(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

// List returns runs newest first with their rounds. limit <= 0 means all.
func (s *runStore) List(ctx context.Context, limit int) ([]domain.RepairRun, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+` FROM repair_runs
		ORDER BY started_at DESC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RepairRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		if runs[i].Rounds, err = s.rounds(ctx, runs[i].ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

// Delete removes a run; its rounds cascade.
func (s *runStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM repair_runs WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	return nil
}

func (s *runStore) rounds(ctx context.Context, runID string) ([]domain.RepairRound, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT number, compile, validation, feedback, repaired_code
		FROM repair_rounds WHERE run_id = ? ORDER BY number
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying rounds: %w", err)
	}
	defer rows.Close()

	var rounds []domain.RepairRound //nolint:prealloc // size unknown from query
	for rows.Next() {
		var round domain.RepairRound
		var compileJSON, validationJSON, feedback, repaired sql.NullString
		if err := rows.Scan(&round.Number, &compileJSON, &validationJSON, &feedback, &repaired); err != nil {
			return nil, fmt.Errorf("scanning round: %w", err)
		}
		if compileJSON.Valid {
			round.Compile = &domain.CompileResult{}
			if err := json.Unmarshal([]byte(compileJSON.String), round.Compile); err != nil {
				return nil, fmt.Errorf("unmarshalling compile result: %w", err)
			}
		}
		if validationJSON.Valid {
			round.Validation = &domain.ValidationReport{}
			if err := json.Unmarshal([]byte(validationJSON.String), round.Validation); err != nil {
				return nil, fmt.Errorf("unmarshalling validation report: %w", err)
			}
		}
		round.Feedback = feedback.String
		round.RepairedCode = repaired.String
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rounds: %w", err)
	}
	return rounds, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*domain.RepairRun, error) {
	var run domain.RepairRun
	var language, status string
	var model, runErr sql.NullString
	var startedAt time.Time
	var finishedAt sql.NullTime
	if err := row.Scan(&run.ID, &run.Source, &language, &status, &model,
		&run.OriginalCode, &run.FinalCode, &runErr, &startedAt, &finishedAt); err != nil {
		return nil, err
	}

	run.Language = domain.Language(language)
	run.Status = domain.RepairStatus(status)
	run.Model = model.String
	run.Error = runErr.String
	run.StartedAt = startedAt
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}

// marshalNullable encodes v as JSON, or NULL when v is a nil pointer.
func marshalNullable[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}
