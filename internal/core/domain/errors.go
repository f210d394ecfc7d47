package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedLanguage indicates a language racg has no toolchain or parser for.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Repair is disabled; checks still run.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrCompilerUnavailable indicates the toolchain binary for a language
	// could not be started.
	ErrCompilerUnavailable = errors.New("compiler unavailable")

	// ErrRegistryUnavailable indicates a package registry could not be reached
	// or answered with an unexpected status.
	ErrRegistryUnavailable = errors.New("package registry unavailable")

	// ErrRateLimited indicates a registry or LLM provider rejected the request as over quota.
	ErrRateLimited = errors.New("rate limited")

	// ErrNoCodeBlock indicates an LLM answer contained no usable code.
	ErrNoCodeBlock = errors.New("no code in LLM response")
)
