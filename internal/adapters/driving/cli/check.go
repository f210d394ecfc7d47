package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate the imports of source files",
	Long: `Validate the packages imported by each file.

Imports are flagged when they typosquat a popular package, are missing
from the public registry, or are not on the npm allowlist. With --compile
the file is also run through the language toolchain.

Use "-" to read from stdin (requires --lang).

Examples:
  racg check app.py
  racg check --compile src/main.rs
  cat snippet.js | racg check --lang js -`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringP("lang", "l", "", "language of the files (python, js, rust, cpp)")
	checkCmd.Flags().BoolP("compile", "c", false, "also compile-check the files")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if validatorService == nil {
		return errors.New("import validator not configured")
	}
	langFlag, _ := cmd.Flags().GetString("lang") //nolint:errcheck // flag is registered in init
	compile, _ := cmd.Flags().GetBool("compile") //nolint:errcheck // flag is registered in init
	if compile && compileService == nil {
		return errors.New("compile service not configured")
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		ok, err := checkFile(cmd, path, langFlag, compile)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(out, "%s %s %s\n", errorStyle.Render(markFail), boldStyle.Render(path), errorStyle.Render(err.Error()))
			failed++
			continue
		}
		if !ok {
			failed++
		}
	}

	if failed > 0 {
		return &errSilent{msg: fmt.Sprintf("%d of %d file(s) failed checks", failed, len(args))}
	}
	return nil
}

// checkFile validates one file and reports whether it passed.
func checkFile(cmd *cobra.Command, path, langFlag string, compile bool) (bool, error) {
	lang, err := resolveLanguage(langFlag, path)
	if err != nil {
		return false, err
	}
	code, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return false, err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	ok := true

	if compile {
		result, err := compileService.Check(ctx, lang, code)
		if err != nil {
			return false, err
		}
		renderCompile(out, path, result)
		ok = !result.HasErrors()
	}

	report, err := validatorService.Validate(ctx, lang, code)
	if err != nil {
		return false, err
	}
	renderReport(out, path, report)
	return ok && report.OK(), nil
}
