package driven

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// ParsedImports is the result of extracting imports from a snippet.
type ParsedImports struct {
	// Packages are top-level package names, deduplicated and sorted.
	// Relative imports are excluded.
	Packages []string

	// SyntaxError describes the first parse error, or is empty.
	SyntaxError string
}

// ImportParser extracts imported packages from source code.
type ImportParser interface {
	// Language returns the language this parser understands.
	Language() domain.Language

	// Parse extracts the top-level packages code imports.
	// A syntax error in code is reported in ParsedImports, not as an error.
	Parse(ctx context.Context, code string) (*ParsedImports, error)
}
