package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Ensure RepairService implements the interface.
var _ driving.RepairService = (*RepairService)(nil)

// RepairService runs the compiler-guided repair loop: compile, validate
// imports, and hand the diagnostics to the LLM until the code is clean or
// the round limit is reached.
type RepairService struct {
	compiler  driving.CompileService
	validator driving.ImportValidator
	llm       driven.LLMService
	prompts   driven.PromptStore
	runs      driven.RunStore
	metrics   driven.Metrics
	settings  domain.RepairSettings

	now func() time.Time
}

// NewRepairService creates a repair service.
// llm, runs and metrics are optional. Without an LLM, code that needs a
// repair step fails with domain.ErrLLMUnavailable.
func NewRepairService(
	compiler driving.CompileService,
	validator driving.ImportValidator,
	llm driven.LLMService,
	prompts driven.PromptStore,
	runs driven.RunStore,
	metrics driven.Metrics,
	settings domain.RepairSettings,
) *RepairService {
	if metrics == nil {
		metrics = driven.NopMetrics{}
	}
	if settings.MaxRounds <= 0 {
		settings.MaxRounds = domain.DefaultMaxRounds
	}
	return &RepairService{
		compiler:  compiler,
		validator: validator,
		llm:       llm,
		prompts:   prompts,
		runs:      runs,
		metrics:   metrics,
		settings:  settings,
		now:       time.Now,
	}
}

// Repair checks and, where needed, repairs code with the LLM.
func (s *RepairService) Repair(ctx context.Context, req driving.RepairRequest) (*domain.RepairRun, error) {
	if !req.Language.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, req.Language)
	}
	if req.Source == "" {
		req.Source = "stdin"
	}
	rounds := s.settings.MaxRounds
	if req.MaxRounds > 0 {
		rounds = req.MaxRounds
	}

	run := &domain.RepairRun{
		ID:           uuid.NewString(),
		Source:       req.Source,
		Language:     req.Language,
		OriginalCode: req.Code,
		StartedAt:    s.now(),
	}
	if s.llm != nil {
		run.Model = s.llm.ModelName()
	}

	code := req.Code
	for n := 1; n <= rounds; n++ {
		logger.Section(fmt.Sprintf("Round %d", n))
		round := domain.RepairRound{Number: n}

		result, err := s.compiler.Check(ctx, req.Language, code)
		if err != nil {
			return s.finish(ctx, run, code, domain.RepairStatusFailed, err)
		}
		round.Compile = result
		feedback := result.Output()

		if !result.HasErrors() {
			if !req.Language.SupportsImportCheck() {
				run.Rounds = append(run.Rounds, round)
				return s.finish(ctx, run, code, domain.RepairStatusClean, nil)
			}

			report, err := s.validator.Validate(ctx, req.Language, code)
			if err != nil {
				run.Rounds = append(run.Rounds, round)
				return s.finish(ctx, run, code, domain.RepairStatusFailed, err)
			}
			round.Validation = report
			if report.OK() {
				logger.Info("%s passes compile and import checks", req.Source)
				run.Rounds = append(run.Rounds, round)
				return s.finish(ctx, run, code, domain.RepairStatusClean, nil)
			}
			logger.Info("Import validation failed:\n%s", report.Message())
			feedback = report.Message()
		}

		round.Feedback = feedback
		repaired, err := s.askLLM(ctx, code, feedback)
		switch {
		case errors.Is(err, domain.ErrNoCodeBlock):
			logger.Warn("Round %d: answer carried no code, keeping the current code", n)
			repaired = code
		case err != nil:
			run.Rounds = append(run.Rounds, round)
			return s.finish(ctx, run, code, domain.RepairStatusFailed, err)
		}
		logger.Debug("Repaired code:\n%s", repaired)
		round.RepairedCode = repaired
		run.Rounds = append(run.Rounds, round)
		code = repaired
	}

	return s.finish(ctx, run, code, domain.RepairStatusUnresolved, nil)
}

// askLLM sends one repair request and extracts the code from the answer.
func (s *RepairService) askLLM(ctx context.Context, code, feedback string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}
	if s.prompts == nil {
		return "", errors.New("prompt store not configured")
	}

	system, err := s.prompts.Load(driven.PromptRepairSystem)
	if err != nil {
		return "", fmt.Errorf("load %s prompt: %w", driven.PromptRepairSystem, err)
	}
	userTmpl, err := s.prompts.Load(driven.PromptRepairUser)
	if err != nil {
		return "", fmt.Errorf("load %s prompt: %w", driven.PromptRepairUser, err)
	}

	answer, err := s.llm.Complete(ctx, driven.CompletionRequest{
		System:      system,
		Messages:    []driven.ChatMessage{{Role: driven.RoleUser, Content: fmt.Sprintf(userTmpl, code, feedback)}},
		Temperature: s.settings.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("repair request: %w", err)
	}

	repaired, err := ExtractCode(answer)
	if err != nil {
		return "", fmt.Errorf("repair answer: %w", err)
	}
	return repaired, nil
}

// finish stamps the run, records it and returns it with cause.
func (s *RepairService) finish(
	ctx context.Context,
	run *domain.RepairRun,
	code string,
	status domain.RepairStatus,
	cause error,
) (*domain.RepairRun, error) {
	run.FinalCode = code
	run.Status = status
	run.FinishedAt = s.now()
	if cause != nil {
		run.Error = cause.Error()
	}

	logger.Info("Run %s finished %s after %d round(s)", run.ID, status, len(run.Rounds))
	s.metrics.ObserveRepair(run)

	if s.runs != nil {
		// Saving uses a fresh context so cancelled runs are still recorded.
		if err := s.runs.Save(context.WithoutCancel(ctx), run); err != nil {
			logger.Warn("Failed to record run %s: %v", run.ID, err)
		}
	}
	return run, cause
}
