package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

func TestServer_handleValidateImports(t *testing.T) {
	ctx := context.Background()

	t.Run("returns findings", func(t *testing.T) {
		validator := &mockValidator{
			report: &domain.ValidationReport{
				Language: domain.LanguagePython,
				Packages: []string{"pandaz"},
				Findings: []domain.Finding{{
					Kind:    domain.FindingTypo,
					Package: "pandaz",
					Match:   "pandas",
					Message: "'pandaz' looks like 'pandas'",
				}},
			},
		}
		server, err := NewServer(&Ports{Validator: validator})
		require.NoError(t, err)

		_, output, err := server.handleValidateImports(ctx, nil, CodeInput{Language: "py", Code: "import pandaz"})

		require.NoError(t, err)
		assert.Equal(t, domain.LanguagePython, validator.gotLang)
		assert.Equal(t, "import pandaz", validator.gotCode)
		assert.Equal(t, "python", output.Language)
		assert.False(t, output.OK)
		assert.True(t, output.Malicious)
		assert.Equal(t, []string{"pandaz"}, output.Packages)
		require.Len(t, output.Findings, 1)
		assert.Contains(t, output.Message, "[MALICIOUS-TYPO]")
	})

	t.Run("clean report has empty lists", func(t *testing.T) {
		validator := &mockValidator{report: &domain.ValidationReport{Language: domain.LanguageRust}}
		server, err := NewServer(&Ports{Validator: validator})
		require.NoError(t, err)

		_, output, err := server.handleValidateImports(ctx, nil, CodeInput{Language: "rust", Code: "fn main() {}"})

		require.NoError(t, err)
		assert.True(t, output.OK)
		assert.NotNil(t, output.Packages)
		assert.NotNil(t, output.Findings)
		assert.Equal(t, "No external crates found.", output.Message)
	})

	t.Run("unknown language", func(t *testing.T) {
		server, err := NewServer(&Ports{Validator: &mockValidator{}})
		require.NoError(t, err)

		_, _, err = server.handleValidateImports(ctx, nil, CodeInput{Language: "cobol"})

		assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
		assert.Contains(t, err.Error(), "cobol")
	})

	t.Run("validator failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Validator: &mockValidator{err: errors.New("parse failed")}})
		require.NoError(t, err)

		_, _, err = server.handleValidateImports(ctx, nil, CodeInput{Language: "js"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse failed")
	})
}

func TestServer_handleCheckCode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns diagnostics", func(t *testing.T) {
		compiler := &mockCompiler{result: &domain.CompileResult{
			Tool:     "clang",
			ExitCode: 1,
			Stderr:   "fatal error: 'missing.h' file not found",
		}}
		server, err := NewServer(&Ports{Validator: &mockValidator{}, Compiler: compiler})
		require.NoError(t, err)

		_, output, err := server.handleCheckCode(ctx, nil, CodeInput{Language: "cpp", Code: "#include \"missing.h\""})

		require.NoError(t, err)
		assert.Equal(t, "clang", output.Tool)
		assert.Equal(t, 1, output.ExitCode)
		assert.True(t, output.HasErrors)
		assert.Contains(t, output.Output, "missing.h")
	})

	t.Run("compiler unavailable", func(t *testing.T) {
		compiler := &mockCompiler{err: domain.ErrCompilerUnavailable}
		server, err := NewServer(&Ports{Validator: &mockValidator{}, Compiler: compiler})
		require.NoError(t, err)

		_, _, err = server.handleCheckCode(ctx, nil, CodeInput{Language: "rust"})

		assert.ErrorIs(t, err, domain.ErrCompilerUnavailable)
	})
}

func TestServer_handleRepairCode(t *testing.T) {
	ctx := context.Background()

	t.Run("returns repaired code", func(t *testing.T) {
		repair := &mockRepair{run: &domain.RepairRun{
			ID:        "run-1",
			Status:    domain.RepairStatusClean,
			FinalCode: "use regex::Regex;",
			Rounds: []domain.RepairRound{
				{Number: 1, RepairedCode: "use regex::Regex;"},
				{Number: 2},
			},
		}}
		server, err := NewServer(&Ports{Validator: &mockValidator{}, Repair: repair})
		require.NoError(t, err)

		_, output, err := server.handleRepairCode(ctx, nil, RepairInput{
			Language:  "rs",
			Code:      "use regex_safe::Regex;",
			MaxRounds: 3,
		})

		require.NoError(t, err)
		assert.Equal(t, "mcp", repair.got.Source)
		assert.Equal(t, domain.LanguageRust, repair.got.Language)
		assert.Equal(t, 3, repair.got.MaxRounds)
		assert.Equal(t, "run-1", output.RunID)
		assert.Equal(t, "clean", output.Status)
		assert.Equal(t, 2, output.Rounds)
		assert.True(t, output.Repaired)
		assert.Equal(t, "use regex::Regex;", output.FinalCode)
	})

	t.Run("failed run is reported with its error", func(t *testing.T) {
		repair := &mockRepair{
			run: &domain.RepairRun{ID: "run-2", Status: domain.RepairStatusFailed},
			err: domain.ErrLLMUnavailable,
		}
		server, err := NewServer(&Ports{Validator: &mockValidator{}, Repair: repair})
		require.NoError(t, err)

		_, output, err := server.handleRepairCode(ctx, nil, RepairInput{Language: "python", Code: "x"})

		require.NoError(t, err)
		assert.Equal(t, "failed", output.Status)
		assert.Contains(t, output.Error, "LLM service unavailable")
	})

	t.Run("error without run", func(t *testing.T) {
		repair := &mockRepair{err: domain.ErrUnsupportedLanguage}
		server, err := NewServer(&Ports{Validator: &mockValidator{}, Repair: repair})
		require.NoError(t, err)

		_, _, err = server.handleRepairCode(ctx, nil, RepairInput{Language: "python"})

		assert.ErrorIs(t, err, domain.ErrUnsupportedLanguage)
	})
}
