package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect recorded repair runs",
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent repair runs",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Show a repair run round by round",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete [run-id]",
	Short: "Delete a repair run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	historyCmd.PersistentFlags().IntP("limit", "n", 20, "maximum number of runs to list")
	historyShowCmd.Flags().Bool("code", false, "print the code of every round")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	limit, _ := cmd.Flags().GetInt("limit") //nolint:errcheck // flag is registered in init

	runs, err := historyService.List(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No repair runs recorded.")
		return nil
	}

	cmd.Println(titleStyle.Render("Recent repair runs:"))
	for i := range runs {
		r := &runs[i]
		cmd.Printf("  %s  %-8s %-24s %s  %s\n",
			mutedStyle.Render(r.ID),
			r.Language,
			truncate(r.Source, 24),
			renderStatus(r.Status),
			mutedStyle.Render(fmt.Sprintf("%d round(s), %s", len(r.Rounds), r.StartedAt.Local().Format(time.DateTime))),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	showCode, _ := cmd.Flags().GetBool("code") //nolint:errcheck // flag is registered in init

	run, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	out := cmd.OutOrStdout()
	printRunSummary(out, run)
	for _, round := range run.Rounds {
		fmt.Fprintln(out)
		fmt.Fprintln(out, boldStyle.Render(fmt.Sprintf("Round %d", round.Number)))
		if round.Compile != nil {
			renderCompile(out, run.Source, round.Compile)
		}
		if round.Validation != nil {
			renderReport(out, run.Source, round.Validation)
		}
		if showCode && round.RepairedCode != "" {
			fmt.Fprintln(out, mutedStyle.Render("Repaired code:"))
			fmt.Fprintln(out, codeStyle.Render(round.RepairedCode))
		}
	}
	if showCode {
		fmt.Fprintln(out)
		fmt.Fprintln(out, mutedStyle.Render("Final code:"))
		fmt.Fprintln(out, codeStyle.Render(run.FinalCode))
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	if err := historyService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	cmd.Printf("Deleted run: %s\n", args[0])
	return nil
}

// printRunSummary writes the header of a run.
func printRunSummary(w io.Writer, run *domain.RepairRun) {
	fmt.Fprintf(w, "%s %s\n", titleStyle.Render("Run"), run.ID)
	fmt.Fprintf(w, "  Source:   %s (%s)\n", run.Source, run.Language.Description())
	fmt.Fprintf(w, "  Status:   %s\n", renderStatus(run.Status))
	if run.Model != "" {
		fmt.Fprintf(w, "  Model:    %s\n", run.Model)
	}
	fmt.Fprintf(w, "  Rounds:   %d\n", len(run.Rounds))
	if d := run.Duration(); d > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", d.Round(time.Millisecond))
	}
	if run.Error != "" {
		fmt.Fprintf(w, "  Error:    %s\n", errorStyle.Render(run.Error))
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// parseLanguages expands a run argument ("all", "", or a language name).
func parseLanguages(arg string) ([]domain.Language, error) {
	if arg == "" || strings.EqualFold(arg, "all") {
		return domain.AllLanguages(), nil
	}
	lang, err := domain.ParseLanguage(arg)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (choose python, rust, js, cpp or all)", err, arg)
	}
	return []domain.Language{lang}, nil
}
