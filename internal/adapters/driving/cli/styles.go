package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

const (
	markOK   = "✔"
	markFail = "❌"
	markWarn = "⚠"
)

// Terminal palette shared by the report renderers.
var (
	colorSuccess = lipgloss.Color("#A6E3A1")
	colorError   = lipgloss.Color("#F38BA8")
	colorWarning = lipgloss.Color("#F9E2AF")
	colorMuted   = lipgloss.Color("#6C7086")
	colorAccent  = lipgloss.Color("#7C3AED")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	codeStyle    = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(colorMuted).
			PaddingLeft(1)
)

// renderReport writes the import validation outcome for one source.
func renderReport(w io.Writer, source string, report *domain.ValidationReport) {
	if report.OK() {
		detail := report.Message()
		if len(report.Packages) > 0 {
			detail = fmt.Sprintf("%d package(s) checked: %s", len(report.Packages), strings.Join(report.Packages, ", "))
		}
		fmt.Fprintf(w, "%s %s %s\n", successStyle.Render(markOK), boldStyle.Render(source), mutedStyle.Render(detail))
		return
	}

	fmt.Fprintf(w, "%s %s\n", errorStyle.Render(markFail), boldStyle.Render(source))
	for _, f := range report.Findings {
		style := warningStyle
		if f.Kind.IsMalicious() {
			style = errorStyle
		}
		fmt.Fprintf(w, "   %s\n", style.Render(f.String()))
	}
}

// renderCompile writes the toolchain outcome for one source.
func renderCompile(w io.Writer, source string, result *domain.CompileResult) {
	if !result.HasErrors() {
		fmt.Fprintf(w, "%s %s %s\n", successStyle.Render(markOK), boldStyle.Render(source),
			mutedStyle.Render("compiles with "+result.Tool))
		return
	}
	fmt.Fprintf(w, "%s %s %s\n", errorStyle.Render(markFail), boldStyle.Render(source),
		mutedStyle.Render(fmt.Sprintf("%s exited %d", result.Tool, result.ExitCode)))
	fmt.Fprintln(w, codeStyle.Render(result.Output()))
}

// renderStatus styles a repair status.
func renderStatus(status domain.RepairStatus) string {
	switch status {
	case domain.RepairStatusClean:
		return successStyle.Render(markOK + " " + status.String())
	case domain.RepairStatusUnresolved:
		return warningStyle.Render(markWarn + " " + status.String())
	default:
		return errorStyle.Render(markFail + " " + status.String())
	}
}
