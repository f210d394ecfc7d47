package driving

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// ImportValidator checks the packages a snippet imports.
type ImportValidator interface {
	// Validate extracts imports from code and applies the language's import policy.
	// Languages without import checks return an OK report.
	Validate(ctx context.Context, lang domain.Language, code string) (*domain.ValidationReport, error)
}

// CompileService runs the language toolchain over a snippet.
type CompileService interface {
	// Check compiles code and returns the diagnostics.
	// Returns domain.ErrUnsupportedLanguage when no compiler is registered.
	Check(ctx context.Context, lang domain.Language, code string) (*domain.CompileResult, error)
}
