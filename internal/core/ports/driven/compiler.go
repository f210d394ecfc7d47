package driven

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// Compiler runs a language toolchain over a code snippet.
type Compiler interface {
	// Language returns the language this compiler checks.
	Language() domain.Language

	// Check compiles or syntax-checks code and returns the diagnostics.
	// A non-zero exit code is reported in the result, not as an error.
	// Errors are reserved for failures to run the toolchain at all
	// (wrapping domain.ErrCompilerUnavailable when the binary is missing).
	Check(ctx context.Context, code string) (*domain.CompileResult, error)
}
