// Command racg checks and repairs LLM-generated code.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/asdzza/RACG-Defense/internal/adapters/driven/ai"
	"github.com/asdzza/RACG-Defense/internal/adapters/driven/compiler/exec"
	"github.com/asdzza/RACG-Defense/internal/adapters/driven/config/file"
	"github.com/asdzza/RACG-Defense/internal/adapters/driven/metrics"
	"github.com/asdzza/RACG-Defense/internal/adapters/driven/parser/treesitter"
	"github.com/asdzza/RACG-Defense/internal/adapters/driven/policy"
	"github.com/asdzza/RACG-Defense/internal/adapters/driven/registry"
	"github.com/asdzza/RACG-Defense/internal/adapters/driven/storage/memory"
	"github.com/asdzza/RACG-Defense/internal/adapters/driven/storage/sqlite"
	"github.com/asdzza/RACG-Defense/internal/adapters/driving/cli"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/core/services"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx, wire)
	stop()

	if err != nil {
		if !cli.IsReported(err) && !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// wire builds the adapters and core services for one command invocation.
func wire(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	configDir := opts.ConfigDir
	if configDir == "" {
		dir, err := file.DefaultConfigDir()
		if err != nil {
			return nil, nil, err
		}
		configDir = dir
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}

	fallback := settings.Registry.PopularFallback
	policies, err := policy.NewStore(policy.Options{File: settings.PolicyFile, PopularFallback: &fallback})
	if err != nil {
		return nil, nil, fmt.Errorf("loading import policy: %w", err)
	}

	var (
		runs    driven.RunStore
		cache   driven.RegistryCache
		closers []func() error
	)
	if opts.NoStore {
		logger.Debug("Run history and registry cache kept in memory")
		runs = memory.NewRunStore()
		cache = memory.NewRegistryCache()
	} else {
		store, err := sqlite.NewStore(filepath.Join(configDir, "data"))
		if err != nil {
			return nil, nil, fmt.Errorf("opening store: %w", err)
		}
		logger.Debug("Using database %s", store.Path())
		runs = store.RunStore()
		cache = store.RegistryCache()
		closers = append(closers, store.Close)
	}

	m := metrics.New()
	ttl := time.Duration(settings.Registry.CacheTTLHours) * time.Hour
	registries := registry.WrapAll(registry.NewRegistries(settings.Registry), cache, ttl, m)

	validator := services.NewImportValidator(treesitter.NewParsers(), registries, policies, m, services.ValidatorOptions{
		Offline: settings.Registry.Offline,
	})
	compiler := services.NewCompileService(exec.NewCompilers(settings.Toolchain, exec.Options{})...)

	llm, err := ai.CreateAndValidateLLMService(ctx, &settings.LLM)
	switch {
	case err != nil:
		logger.Warn("%v", err)
	case llm == nil:
		logger.Debug("No LLM configured, repairs are disabled")
	default:
		logger.Debug("Repair LLM: %s", llm.ModelName())
		closers = append(closers, llm.Close)
	}

	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Cleanup failed: %v", err)
			}
		}
	}

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("loading prompts: %w", err)
	}

	repair := services.NewRepairService(compiler, validator, llm, prompts, runs, m, settings.Repair)

	return &cli.Services{
		Settings:        settingsService,
		Validator:       validator,
		Compiler:        compiler,
		Repair:          repair,
		Experiment:      services.NewExperimentService(repair),
		History:         services.NewHistoryService(runs),
		Instrumentation: m,
	}, cleanup, nil
}
