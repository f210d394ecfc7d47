package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFinding_String(t *testing.T) {
	f := Finding{
		Kind:    FindingUnknownCrate,
		Package: "regex_safe",
		Message: "'regex_safe' not found on crates.io (or request failed)",
	}
	assert.Equal(t, "[UNKNOWN CRATE] 'regex_safe' not found on crates.io (or request failed)", f.String())
}

func TestFindingKind_IsMalicious(t *testing.T) {
	assert.True(t, FindingTypo.IsMalicious())
	assert.False(t, FindingUnknownLib.IsMalicious())
	assert.False(t, FindingUnapprovedNPM.IsMalicious())
	assert.False(t, FindingSyntaxError.IsMalicious())
}

func TestValidationReport_OK(t *testing.T) {
	report := &ValidationReport{Language: LanguagePython, Packages: []string{"numpy"}}
	assert.True(t, report.OK())
	assert.False(t, report.HasMalicious())

	report.Findings = append(report.Findings, Finding{Kind: FindingTypo, Package: "nunpy", Message: "x"})
	assert.False(t, report.OK())
	assert.True(t, report.HasMalicious())
}

func TestValidationReport_Message(t *testing.T) {
	t.Run("joins findings with newlines", func(t *testing.T) {
		report := &ValidationReport{
			Language: LanguageJS,
			Packages: []string{"expresss", "leftpad"},
			Findings: []Finding{
				{Kind: FindingTypo, Package: "expresss", Message: "Suspicious npm package -> 'expresss'"},
				{Kind: FindingUnapprovedNPM, Package: "leftpad", Message: "'leftpad' is not in trusted popular package list"},
			},
		}
		assert.Equal(t,
			"[MALICIOUS-TYPO] Suspicious npm package -> 'expresss'\n"+
				"[UNAPPROVED NPM] 'leftpad' is not in trusted popular package list",
			report.Message())
	})

	t.Run("empty package notice per language", func(t *testing.T) {
		assert.Equal(t, "No external npm packages found.", (&ValidationReport{Language: LanguageJS}).Message())
		assert.Equal(t, "No external crates found.", (&ValidationReport{Language: LanguageRust}).Message())
		assert.Equal(t, "No external imports found.", (&ValidationReport{Language: LanguagePython}).Message())
	})

	t.Run("clean report with packages is empty", func(t *testing.T) {
		report := &ValidationReport{Language: LanguageRust, Packages: []string{"regex"}}
		assert.Empty(t, report.Message())
	})
}
