package services

import (
	"context"
	"fmt"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Ensure CompileService implements the interface.
var _ driving.CompileService = (*CompileService)(nil)

// CompileService dispatches snippets to the compiler for their language.
type CompileService struct {
	compilers map[domain.Language]driven.Compiler
}

// NewCompileService creates a compile service from the available compilers.
func NewCompileService(compilers ...driven.Compiler) *CompileService {
	s := &CompileService{compilers: make(map[domain.Language]driven.Compiler, len(compilers))}
	for _, c := range compilers {
		s.compilers[c.Language()] = c
	}
	return s
}

// Check compiles code and returns the diagnostics.
func (s *CompileService) Check(ctx context.Context, lang domain.Language, code string) (*domain.CompileResult, error) {
	compiler, ok := s.compilers[lang]
	if !ok {
		return nil, fmt.Errorf("%w: no compiler for %q", domain.ErrUnsupportedLanguage, lang)
	}

	result, err := compiler.Check(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", lang, err)
	}

	logger.Debug("%s exited %d", result.Tool, result.ExitCode)
	if out := result.Output(); out != "" {
		logger.Debug("Compiler output:\n%s", out)
	}
	return result, nil
}
