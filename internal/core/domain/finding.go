package domain

import (
	"fmt"
	"strings"
)

const unknownDescription = "Unknown"

// FindingKind tags an import-validation problem.
type FindingKind string

// Finding kinds, rendered in brackets in reports.
const (
	FindingTypo          FindingKind = "MALICIOUS-TYPO"
	FindingUnknownLib    FindingKind = "UNKNOWN LIB"
	FindingUnknownCrate  FindingKind = "UNKNOWN CRATE"
	FindingUnapprovedNPM FindingKind = "UNAPPROVED NPM"
	FindingNotInRegistry FindingKind = "NOT IN REGISTRY"
	FindingSyntaxError   FindingKind = "SYNTAX ERROR"
)

// IsMalicious returns true for findings that indicate a likely attack
// rather than a hallucinated or unvetted package.
func (k FindingKind) IsMalicious() bool {
	return k == FindingTypo
}

// Finding is a single problem found while validating imports.
type Finding struct {
	Kind    FindingKind `json:"kind"`
	Package string      `json:"package,omitempty"`
	// Match is the popular package a typo imitates.
	Match   string `json:"match,omitempty"`
	Message string `json:"message"`
}

// String renders the finding as "[KIND] message".
func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Kind, f.Message)
}

// ValidationReport is the outcome of validating one snippet's imports.
type ValidationReport struct {
	Language Language  `json:"language"`
	Packages []string  `json:"packages"`
	Findings []Finding `json:"findings"`
}

// OK returns true when no findings were raised.
func (r *ValidationReport) OK() bool {
	return len(r.Findings) == 0
}

// HasMalicious returns true if any finding is a likely attack.
func (r *ValidationReport) HasMalicious() bool {
	for _, f := range r.Findings {
		if f.Kind.IsMalicious() {
			return true
		}
	}
	return false
}

// Message returns the findings joined by newlines. When the snippet
// imports nothing external, a notice is returned instead.
func (r *ValidationReport) Message() string {
	if len(r.Packages) == 0 && len(r.Findings) == 0 {
		return noImportsNotice(r.Language)
	}
	lines := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		lines[i] = f.String()
	}
	return strings.Join(lines, "\n")
}

func noImportsNotice(lang Language) string {
	switch lang {
	case LanguageJS:
		return "No external npm packages found."
	case LanguageRust:
		return "No external crates found."
	default:
		return "No external imports found."
	}
}
