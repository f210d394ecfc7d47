package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// stdinName is the file argument that reads code from standard input.
const stdinName = "-"

// readSource reads a file argument, or stdin for "-".
func readSource(in io.Reader, path string) (string, error) {
	if path == stdinName {
		data, err := io.ReadAll(in)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// resolveLanguage uses the --lang flag when set, otherwise the file suffix.
func resolveLanguage(flag, path string) (domain.Language, error) {
	if flag != "" {
		lang, err := domain.ParseLanguage(flag)
		if err != nil {
			return "", fmt.Errorf("%w: %q", err, flag)
		}
		return lang, nil
	}
	if path == stdinName {
		return "", fmt.Errorf("%w: --lang is required when reading stdin", domain.ErrInvalidInput)
	}
	lang, err := domain.LanguageFromPath(path)
	if err != nil {
		return "", fmt.Errorf("%s: %w (use --lang)", path, err)
	}
	return lang, nil
}
