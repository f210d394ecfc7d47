package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/asdzza/RACG-Defense/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse repair runs and settings in a terminal UI",
	Long: `Launch an interactive browser for recorded repair runs.

Controls:
  ↑/k, ↓/j  Navigate
  Enter     Open run / edit setting
  c         Toggle repaired code in a run
  d, y      Delete run
  r         Reload
  s         Settings
  v         Check the LLM connection (settings)
  Esc       Back
  q         Quit`,
	RunE: runTUI,
}

// runProgram starts the Bubbletea program. Tests replace it.
var runProgram = func(cmd *cobra.Command, app *tui.App) error {
	return app.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := tui.NewApp(&tui.Ports{
		History:  historyService,
		Settings: settingsService,
	})
	if err != nil {
		return err
	}

	err = runProgram(cmd, app)
	if errors.Is(err, tea.ErrProgramKilled) && cmd.Context().Err() != nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
