package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// CodeInput is the input schema for the validate_imports and check_code tools.
type CodeInput struct {
	Language string `json:"language" jsonschema:"source language: python, js, rust or cpp"`
	Code     string `json:"code" jsonschema:"the source code to check"`
}

// ValidateOutput is the output schema for the validate_imports tool.
type ValidateOutput struct {
	Language  string           `json:"language"`
	OK        bool             `json:"ok"`
	Malicious bool             `json:"malicious"`
	Packages  []string         `json:"packages"`
	Findings  []domain.Finding `json:"findings"`
	Message   string           `json:"message"`
}

// CheckOutput is the output schema for the check_code tool.
type CheckOutput struct {
	Tool      string `json:"tool"`
	ExitCode  int    `json:"exit_code"`
	HasErrors bool   `json:"has_errors"`
	Output    string `json:"output,omitempty"`
}

// RepairInput is the input schema for the repair_code tool.
type RepairInput struct {
	Language  string `json:"language" jsonschema:"source language: python, js, rust or cpp"`
	Code      string `json:"code" jsonschema:"the source code to repair"`
	MaxRounds int    `json:"max_rounds,omitempty" jsonschema:"repair round limit (default from settings)"`
}

// RepairOutput is the output schema for the repair_code tool.
type RepairOutput struct {
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	Rounds    int    `json:"rounds"`
	Repaired  bool   `json:"repaired"`
	FinalCode string `json:"final_code"`
	Error     string `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_imports",
		Description: "Flag typosquatted, unpublished and unapproved packages imported by a code snippet",
	}, s.handleValidateImports)

	if s.ports.Compiler != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "check_code",
			Description: "Compile-check a code snippet with the language toolchain",
		}, s.handleCheckCode)
	}

	if s.ports.Repair != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "repair_code",
			Description: "Repair a code snippet with the compiler-guided LLM loop until it compiles and imports only safe packages",
		}, s.handleRepairCode)
	}
}

func (s *Server) handleValidateImports(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CodeInput,
) (*mcp.CallToolResult, ValidateOutput, error) {
	lang, err := parseLanguage(input.Language)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	report, err := s.ports.Validator.Validate(ctx, lang, input.Code)
	if err != nil {
		return nil, ValidateOutput{}, err
	}

	output := ValidateOutput{
		Language:  lang.String(),
		OK:        report.OK(),
		Malicious: report.HasMalicious(),
		Packages:  report.Packages,
		Findings:  report.Findings,
		Message:   report.Message(),
	}
	if output.Packages == nil {
		output.Packages = []string{}
	}
	if output.Findings == nil {
		output.Findings = []domain.Finding{}
	}
	return nil, output, nil
}

func (s *Server) handleCheckCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CodeInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	lang, err := parseLanguage(input.Language)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	result, err := s.ports.Compiler.Check(ctx, lang, input.Code)
	if err != nil {
		return nil, CheckOutput{}, err
	}

	return nil, CheckOutput{
		Tool:      result.Tool,
		ExitCode:  result.ExitCode,
		HasErrors: result.HasErrors(),
		Output:    result.Output(),
	}, nil
}

func (s *Server) handleRepairCode(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RepairInput,
) (*mcp.CallToolResult, RepairOutput, error) {
	lang, err := parseLanguage(input.Language)
	if err != nil {
		return nil, RepairOutput{}, err
	}

	run, err := s.ports.Repair.Repair(ctx, driving.RepairRequest{
		Source:    "mcp",
		Language:  lang,
		Code:      input.Code,
		MaxRounds: input.MaxRounds,
	})
	if run == nil {
		if err == nil {
			err = fmt.Errorf("repair returned no run")
		}
		return nil, RepairOutput{}, err
	}

	// A failed run is still reported so the caller sees the partial rounds.
	output := RepairOutput{
		RunID:     run.ID,
		Status:    run.Status.String(),
		Rounds:    len(run.Rounds),
		Repaired:  run.Repaired(),
		FinalCode: run.FinalCode,
		Error:     run.Error,
	}
	if output.Error == "" && err != nil {
		output.Error = err.Error()
	}
	return nil, output, nil
}

func parseLanguage(name string) (domain.Language, error) {
	lang, err := domain.ParseLanguage(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, name)
	}
	return lang, nil
}
