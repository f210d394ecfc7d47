package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
)

// registryCache implements driven.RegistryCache.
type registryCache struct {
	db *sql.DB
}

var _ driven.RegistryCache = (*registryCache)(nil)

// Get retrieves a cached lookup.
func (c *registryCache) Get(ctx context.Context, ecosystem, name string) (*domain.RegistryLookup, error) {
	row := c.db.QueryRowContext(ctx, `
		SELECT found, checked_at FROM registry_lookups
		WHERE ecosystem = ? AND name = ?
	`, ecosystem, name)

	lookup := domain.RegistryLookup{Ecosystem: ecosystem, Name: name}
	var checkedAt time.Time
	if err := row.Scan(&lookup.Exists, &checkedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning registry lookup: %w", err)
	}
	lookup.CheckedAt = checkedAt
	return &lookup, nil
}

// Put stores or replaces a lookup.
func (c *registryCache) Put(ctx context.Context, lookup domain.RegistryLookup) error {
	checkedAt := lookup.CheckedAt
	if checkedAt.IsZero() {
		checkedAt = time.Now()
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO registry_lookups (ecosystem, name, found, checked_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(ecosystem, name) DO UPDATE SET
			found = excluded.found,
			checked_at = excluded.checked_at
	`, lookup.Ecosystem, lookup.Name, lookup.Exists, checkedAt.UTC())
	if err != nil {
		return fmt.Errorf("saving registry lookup: %w", err)
	}
	return nil
}
