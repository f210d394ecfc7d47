package driven

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// PackageRegistry answers whether a package is published in a public registry.
type PackageRegistry interface {
	// Ecosystem returns the registry name (domain.EcosystemPyPI etc).
	Ecosystem() string

	// Exists reports whether the package is published.
	// A definite "not published" answer is (false, nil); network failures and
	// unexpected statuses return an error wrapping domain.ErrRegistryUnavailable.
	Exists(ctx context.Context, name string) (bool, error)
}

// RegistryCache stores registry lookups between runs.
type RegistryCache interface {
	// Get returns a cached lookup, or domain.ErrNotFound when absent.
	Get(ctx context.Context, ecosystem, name string) (*domain.RegistryLookup, error)

	// Put stores or replaces a lookup.
	Put(ctx context.Context, lookup domain.RegistryLookup) error
}
