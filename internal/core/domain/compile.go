package domain

import "strings"

// CompileResult holds toolchain diagnostics for one snippet.
type CompileResult struct {
	// Tool is the command that produced the diagnostics (e.g. "rustc").
	Tool string `json:"tool"`

	// ExitCode is the process exit status.
	ExitCode int `json:"exit_code"`

	Stdout string `json:"stdout,omitempty"`
	Stderr string `json:"stderr,omitempty"`
}

// Output returns the diagnostic text handed to the repair agent.
// Compilers report on stderr; type checkers such as mypy report on stdout,
// so both streams are included when present.
func (r *CompileResult) Output() string {
	if r == nil {
		return ""
	}
	stdout := strings.TrimSpace(r.Stdout)
	stderr := strings.TrimSpace(r.Stderr)
	switch {
	case stdout == "":
		return stderr
	case stderr == "":
		return stdout
	default:
		return stdout + "\n" + stderr
	}
}

// HasErrors reports whether the diagnostics mention an error.
// The check is a keyword heuristic over the output, not the exit code:
// warnings-only output counts as clean.
func (r *CompileResult) HasErrors() bool {
	out := strings.ToLower(r.Output())
	return strings.Contains(out, "error") || strings.Contains(out, "undefined")
}
