package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// setupTestStore creates a SQLite store in a temp directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestNewStore_Success(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	_, err = os.Stat(store.Path())
	assert.NoError(t, err)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStore_ErrorHandling(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	_, err := NewStore(filepath.Join(blocker, "data"))

	assert.Error(t, err)
}

func TestNewStore_Migrations(t *testing.T) {
	store := setupTestStore(t)

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	for _, table := range []string{"registry_lookups", "repair_runs", "repair_rounds"} {
		var exists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&exists)
		require.NoError(t, err)
		assert.Equal(t, 1, exists, "table %s should exist", table)
	}
}

func TestNewStore_ReopenDoesNotReapply(t *testing.T) {
	dir := t.TempDir()
	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store := setupTestStore(t)

	var enabled int
	require.NoError(t, store.db.QueryRow("PRAGMA foreign_keys").Scan(&enabled))
	assert.Equal(t, 1, enabled)
}

func sampleRun(id string, started time.Time) *domain.RepairRun {
	return &domain.RepairRun{
		ID:           id,
		Source:       "regex_safe.rs",
		Language:     domain.LanguageRust,
		Status:       domain.RepairStatusClean,
		Model:        "deepseek-chat",
		OriginalCode: "use regex_safe::Regex;",
		FinalCode:    "use regex::Regex;",
		StartedAt:    started,
		FinishedAt:   started.Add(3 * time.Second),
		Rounds: []domain.RepairRound{
			{
				Number: 1,
				Compile: &domain.CompileResult{
					Tool:     "rustc",
					ExitCode: 1,
					Stderr:   "error[E0432]: unresolved import `regex_safe`",
				},
				Feedback:     "error[E0432]: unresolved import `regex_safe`",
				RepairedCode: "use regex::Regex;",
			},
			{
				Number:  2,
				Compile: &domain.CompileResult{Tool: "rustc"},
				Validation: &domain.ValidationReport{
					Language: domain.LanguageRust,
					Packages: []string{"regex"},
				},
			},
		},
	}
}

func TestRunStore_SaveAndGet(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	run := sampleRun("run-1", started)

	require.NoError(t, runs.Save(ctx, run))

	got, err := runs.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Source, got.Source)
	assert.Equal(t, domain.LanguageRust, got.Language)
	assert.Equal(t, domain.RepairStatusClean, got.Status)
	assert.Equal(t, "deepseek-chat", got.Model)
	assert.Equal(t, run.FinalCode, got.FinalCode)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 3*time.Second, got.Duration())

	require.Len(t, got.Rounds, 2)
	assert.Equal(t, 1, got.Rounds[0].Number)
	assert.Equal(t, run.Rounds[0].Compile, got.Rounds[0].Compile)
	assert.Nil(t, got.Rounds[0].Validation)
	assert.Equal(t, "use regex::Regex;", got.Rounds[0].RepairedCode)
	assert.Equal(t, []string{"regex"}, got.Rounds[1].Validation.Packages)
	assert.True(t, got.Rounds[1].Validation.OK())
}

func TestRunStore_SaveReplacesRounds(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	ctx := context.Background()
	run := sampleRun("run-1", time.Now())
	require.NoError(t, runs.Save(ctx, run))

	run.Status = domain.RepairStatusUnresolved
	run.Rounds = run.Rounds[:1]
	run.Error = ""
	require.NoError(t, runs.Save(ctx, run))

	got, err := runs.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, domain.RepairStatusUnresolved, got.Status)
	assert.Len(t, got.Rounds, 1)
}

func TestRunStore_SaveRequiresID(t *testing.T) {
	runs := setupTestStore(t).RunStore()

	err := runs.Save(context.Background(), &domain.RepairRun{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunStore_UnfinishedRun(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	ctx := context.Background()
	run := &domain.RepairRun{
		ID:        "pending",
		Source:    "stdin",
		Language:  domain.LanguagePython,
		Status:    domain.RepairStatusFailed,
		Error:     "compiler unavailable",
		StartedAt: time.Now(),
	}
	require.NoError(t, runs.Save(ctx, run))

	got, err := runs.Get(ctx, "pending")
	require.NoError(t, err)
	assert.True(t, got.FinishedAt.IsZero())
	assert.Equal(t, "compiler unavailable", got.Error)
	assert.Empty(t, got.Rounds)
}

func TestRunStore_Get_NotFound(t *testing.T) {
	runs := setupTestStore(t).RunStore()

	_, err := runs.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_List(t *testing.T) {
	runs := setupTestStore(t).RunStore()
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, runs.Save(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	all, err := runs.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})
	assert.Len(t, all[0].Rounds, 2)

	limited, err := runs.List(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
	assert.Equal(t, "c", limited[0].ID)
}

func TestRunStore_DeleteCascades(t *testing.T) {
	store := setupTestStore(t)
	runs := store.RunStore()
	ctx := context.Background()
	require.NoError(t, runs.Save(ctx, sampleRun("run-1", time.Now())))

	require.NoError(t, runs.Delete(ctx, "run-1"))

	_, err := runs.Get(ctx, "run-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var rounds int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM repair_rounds").Scan(&rounds))
	assert.Equal(t, 0, rounds)
}

func TestRegistryCache_PutAndGet(t *testing.T) {
	cache := setupTestStore(t).RegistryCache()
	ctx := context.Background()
	checked := time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC)

	require.NoError(t, cache.Put(ctx, domain.RegistryLookup{
		Ecosystem: domain.EcosystemCrates,
		Name:      "serde",
		Exists:    true,
		CheckedAt: checked,
	}))

	got, err := cache.Get(ctx, domain.EcosystemCrates, "serde")
	require.NoError(t, err)
	assert.True(t, got.Exists)
	assert.True(t, checked.Equal(got.CheckedAt))

	_, err = cache.Get(ctx, domain.EcosystemNPM, "serde")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistryCache_PutOverwrites(t *testing.T) {
	cache := setupTestStore(t).RegistryCache()
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, domain.RegistryLookup{Ecosystem: "pypi", Name: "x", Exists: true}))
	require.NoError(t, cache.Put(ctx, domain.RegistryLookup{Ecosystem: "pypi", Name: "x", Exists: false}))

	got, err := cache.Get(ctx, "pypi", "x")
	require.NoError(t, err)
	assert.False(t, got.Exists)
	assert.False(t, got.CheckedAt.IsZero())
}
