package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

var runCmd = &cobra.Command{
	Use:   "run [python|rust|js|cpp|all]",
	Short: "Batch-repair a directory of samples",
	Long: `Repair every sample under <samples>/<language>/ and write the final code
of each file to <results>/repair_results_<language>.txt.

Languages are processed in the order python, rust, js, cpp. A missing
language directory is reported in its results file and skipped.

Examples:
  racg run all
  racg run rust --samples ./test_samples --results ./out`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExperiment,
}

func init() {
	runCmd.Flags().String("samples", "test_samples", "directory with one sub-directory per language")
	runCmd.Flags().String("results", ".", "directory for the results files")
	rootCmd.AddCommand(runCmd)
}

func runExperiment(cmd *cobra.Command, args []string) error {
	if experimentService == nil {
		return errors.New("experiment service not configured")
	}
	arg := ""
	if len(args) == 1 {
		arg = args[0]
	}
	langs, err := parseLanguages(arg)
	if err != nil {
		return err
	}
	samples, _ := cmd.Flags().GetString("samples") //nolint:errcheck // flag is registered in init
	results, _ := cmd.Flags().GetString("results") //nolint:errcheck // flag is registered in init

	summary, err := experimentService.Run(cmd.Context(), driving.ExperimentRequest{
		Languages:  langs,
		SamplesDir: samples,
		ResultsDir: results,
	})
	if summary != nil {
		printExperimentSummary(cmd, summary)
	}
	if err != nil {
		return fmt.Errorf("experiment failed: %w", err)
	}
	return nil
}

func printExperimentSummary(cmd *cobra.Command, summary *driving.ExperimentSummary) {
	cmd.Println(titleStyle.Render("Experiment summary"))
	for _, ls := range summary.Languages {
		if ls.Skipped {
			cmd.Printf("  %-7s %s\n", ls.Language, warningStyle.Render(markWarn+" skipped (folder "+ls.InputDir+" not found)"))
			continue
		}
		cmd.Printf("  %-7s %d file(s): %s clean, %s unresolved, %s failed  %s\n",
			ls.Language,
			ls.Files,
			successStyle.Render(fmt.Sprint(ls.Clean)),
			warningStyle.Render(fmt.Sprint(ls.Unresolved)),
			errorStyle.Render(fmt.Sprint(ls.Failed)),
			mutedStyle.Render(ls.ResultsPath),
		)
	}
	t := summary.Totals()
	cmd.Printf("  %-7s %d file(s): %d clean, %d unresolved, %d failed\n", "total", t.Files, t.Clean, t.Unresolved, t.Failed)
}
