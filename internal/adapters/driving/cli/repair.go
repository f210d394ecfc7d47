package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

var repairCmd = &cobra.Command{
	Use:   "repair <file>",
	Short: "Repair a source file with the compiler-guided LLM loop",
	Long: `Compile the file, validate its imports and ask the configured LLM to
fix whatever fails, round after round, until the code is clean or the
round limit is reached. Every run is recorded in history.

The repaired code is printed to stdout, or written to --output.

Examples:
  racg repair snippet.rs
  racg repair --rounds 2 -o fixed.py generated.py`,
	Args: cobra.ExactArgs(1),
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().StringP("lang", "l", "", "language of the file (python, js, rust, cpp)")
	repairCmd.Flags().IntP("rounds", "r", 0, "round limit (default from settings)")
	repairCmd.Flags().StringP("output", "o", "", "write the repaired code to this file")
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	if repairService == nil {
		return errors.New("repair service not configured")
	}
	langFlag, _ := cmd.Flags().GetString("lang") //nolint:errcheck // flag is registered in init
	rounds, _ := cmd.Flags().GetInt("rounds")    //nolint:errcheck // flag is registered in init
	output, _ := cmd.Flags().GetString("output") //nolint:errcheck // flag is registered in init
	if rounds < 0 {
		return fmt.Errorf("%w: --rounds must be positive", domain.ErrInvalidInput)
	}

	path := args[0]
	lang, err := resolveLanguage(langFlag, path)
	if err != nil {
		return err
	}
	code, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	source := path
	if path == stdinName {
		source = "stdin"
	}
	run, err := repairService.Repair(cmd.Context(), driving.RepairRequest{
		Source:    source,
		Language:  lang,
		Code:      code,
		MaxRounds: rounds,
	})
	if run == nil {
		if err == nil {
			err = errors.New("repair returned no run")
		}
		return err
	}

	// Progress goes to stderr so stdout carries only the code.
	printRunSummary(cmd.ErrOrStderr(), run)
	if err != nil {
		return fmt.Errorf("repair failed: %w", err)
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(ensureNewline(run.FinalCode)), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Repaired code written to %s\n", output)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), ensureNewline(run.FinalCode))
	}

	if run.Status != domain.RepairStatusClean {
		return &errSilent{msg: fmt.Sprintf("code still fails checks after %d round(s)", len(run.Rounds))}
	}
	return nil
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
