package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Validate imports of files as they are saved",
	Long: `Watch a directory tree and validate the imports of every Python,
JavaScript, Rust or C++ file when it is created or saved.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a changed file is checked")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if validatorService == nil {
		return errors.New("import validator not configured")
	}
	debounce, _ := cmd.Flags().GetDuration("debounce") //nolint:errcheck // flag is registered in init

	w, err := watch.New(args[0], validatorService, watch.Options{Debounce: debounce})
	if err != nil {
		return err
	}
	events, err := w.Watch(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Watching %s for changes (Ctrl+C to stop)\n", args[0])
	for ev := range events {
		stamp := mutedStyle.Render(time.Now().Format(time.TimeOnly))
		if ev.Err != nil {
			fmt.Fprintf(out, "%s %s %s %s\n", stamp, errorStyle.Render(markFail), boldStyle.Render(ev.Path), errorStyle.Render(ev.Err.Error()))
			continue
		}
		fmt.Fprint(out, stamp+" ")
		renderReport(out, ev.Path, ev.Report)
	}
	return nil
}
