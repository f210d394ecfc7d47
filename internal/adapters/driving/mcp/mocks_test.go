package mcp

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// mockValidator is a mock implementation of driving.ImportValidator.
type mockValidator struct {
	report *domain.ValidationReport
	err    error

	gotLang domain.Language
	gotCode string
}

func (m *mockValidator) Validate(_ context.Context, lang domain.Language, code string) (*domain.ValidationReport, error) {
	m.gotLang = lang
	m.gotCode = code
	return m.report, m.err
}

// mockCompiler is a mock implementation of driving.CompileService.
type mockCompiler struct {
	result *domain.CompileResult
	err    error
}

func (m *mockCompiler) Check(_ context.Context, _ domain.Language, _ string) (*domain.CompileResult, error) {
	return m.result, m.err
}

// mockRepair is a mock implementation of driving.RepairService.
type mockRepair struct {
	run *domain.RepairRun
	err error

	got driving.RepairRequest
}

func (m *mockRepair) Repair(_ context.Context, req driving.RepairRequest) (*domain.RepairRun, error) {
	m.got = req
	return m.run, m.err
}

// mockHistory is a mock implementation of driving.HistoryService.
type mockHistory struct {
	runs []domain.RepairRun
	run  *domain.RepairRun
	err  error

	gotLimit int
}

func (m *mockHistory) List(_ context.Context, limit int) ([]domain.RepairRun, error) {
	m.gotLimit = limit
	return m.runs, m.err
}

func (m *mockHistory) Get(_ context.Context, _ string) (*domain.RepairRun, error) {
	return m.run, m.err
}

func (m *mockHistory) Delete(_ context.Context, _ string) error {
	return m.err
}
