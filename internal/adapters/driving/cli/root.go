// Package cli provides the racg command-line interface built on cobra.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/httpapi"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=v1.2.3".
var version = "dev"

// Options holds the global flags.
type Options struct {
	Verbose   bool
	ConfigDir string

	// NoStore keeps run history and the registry cache in memory.
	NoStore bool
}

// Services holds the driving ports the commands use.
type Services struct {
	Settings   driving.SettingsService
	Validator  driving.ImportValidator
	Compiler   driving.CompileService
	Repair     driving.RepairService
	Experiment driving.ExperimentService
	History    driving.HistoryService

	// Instrumentation backs the HTTP API metrics. Optional.
	Instrumentation httpapi.Instrumentation
}

// WireFunc builds the services once the global flags are parsed.
// The returned cleanup is called after the command finishes.
type WireFunc func(ctx context.Context, opts Options) (*Services, func(), error)

// skipWireAnnotation marks commands that run without services.
const skipWireAnnotation = "racg/skip-wire"

var (
	opts    Options
	wire    WireFunc
	cleanup func()

	settingsService   driving.SettingsService
	validatorService  driving.ImportValidator
	compileService    driving.CompileService
	repairService     driving.RepairService
	experimentService driving.ExperimentService
	historyService    driving.HistoryService
	instrumentation   httpapi.Instrumentation
)

var rootCmd = &cobra.Command{
	Use:   "racg",
	Short: "Compiler-guided repair and import guard for generated code",
	Long: `racg checks LLM-generated code before you run it.

It compiles snippets with the real toolchain, flags imports that typosquat
popular packages or do not exist in PyPI, npm or crates.io, and can hand
the diagnostics back to an LLM until the code is clean.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print debug and progress logs")
	rootCmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.racg)")
	rootCmd.PersistentFlags().BoolVar(&opts.NoStore, "no-store", false, "do not persist run history or the registry cache")
}

// SetServices installs the services used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	settingsService = s.Settings
	validatorService = s.Validator
	compileService = s.Compiler
	repairService = s.Repair
	experimentService = s.Experiment
	historyService = s.History
	instrumentation = s.Instrumentation
}

// Execute runs the root command. w is called before any command that needs services.
func Execute(ctx context.Context, w WireFunc) error {
	wire = w
	defer func() {
		if cleanup != nil {
			cleanup()
			cleanup = nil
		}
	}()
	return rootCmd.ExecuteContext(ctx)
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	if wire == nil || cmd.Annotations[skipWireAnnotation] == "true" {
		return nil
	}
	services, done, err := wire(cmd.Context(), opts)
	if err != nil {
		return err
	}
	SetServices(services)
	cleanup = done
	return nil
}

// errSilent signals a failure that has already been reported on the output.
type errSilent struct{ msg string }

func (e *errSilent) Error() string { return e.msg }

// IsReported returns true if err was already printed by the command.
func IsReported(err error) bool {
	var s *errSilent
	return errors.As(err, &s)
}
