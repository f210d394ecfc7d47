package cli

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

type mockSettingsService struct {
	settings   *domain.AppSettings
	validate   error
	pingErr    error
	lastLLM    []string
	lastRounds int
	offline    *bool
}

func newMockSettingsService() *mockSettingsService {
	s := domain.DefaultAppSettings()
	return &mockSettingsService{settings: &s}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := *m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	s := *settings
	m.settings = &s
	return nil
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, baseURL, apiKey string) error {
	m.lastLLM = []string{string(provider), model, baseURL, apiKey}
	m.settings.LLM = domain.LLMSettings{Provider: provider, Model: model, BaseURL: baseURL, APIKey: apiKey}
	if model == "" {
		m.settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}
	return nil
}

func (m *mockSettingsService) SetMaxRounds(rounds int) error {
	m.lastRounds = rounds
	m.settings.Repair.MaxRounds = rounds
	return nil
}

func (m *mockSettingsService) SetRegistryOffline(offline bool) error {
	m.offline = &offline
	m.settings.Registry.Offline = offline
	return nil
}

func (m *mockSettingsService) Validate() error                         { return m.validate }
func (m *mockSettingsService) GetDefaults() domain.AppSettings         { return domain.DefaultAppSettings() }
func (m *mockSettingsService) ValidateLLMConfig(context.Context) error { return m.pingErr }

type mockValidator struct {
	reports map[domain.Language]*domain.ValidationReport
	err     error
}

func (m *mockValidator) Validate(_ context.Context, lang domain.Language, _ string) (*domain.ValidationReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if r, ok := m.reports[lang]; ok {
		return r, nil
	}
	return &domain.ValidationReport{Language: lang}, nil
}

type mockCompiler struct {
	result *domain.CompileResult
	err    error
}

func (m *mockCompiler) Check(_ context.Context, _ domain.Language, _ string) (*domain.CompileResult, error) {
	if m.result == nil && m.err == nil {
		return &domain.CompileResult{Tool: "mock"}, nil
	}
	return m.result, m.err
}

type mockRepairService struct {
	run *domain.RepairRun
	err error
	got driving.RepairRequest
}

func (m *mockRepairService) Repair(_ context.Context, req driving.RepairRequest) (*domain.RepairRun, error) {
	m.got = req
	return m.run, m.err
}

type mockExperimentService struct {
	summary *driving.ExperimentSummary
	err     error
	got     driving.ExperimentRequest
}

func (m *mockExperimentService) Run(_ context.Context, req driving.ExperimentRequest) (*driving.ExperimentSummary, error) {
	m.got = req
	return m.summary, m.err
}

type mockHistoryService struct {
	runs     []domain.RepairRun
	run      *domain.RepairRun
	err      error
	gotLimit int
	deleted  string
}

func (m *mockHistoryService) List(_ context.Context, limit int) ([]domain.RepairRun, error) {
	m.gotLimit = limit
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, _ string) (*domain.RepairRun, error) {
	return m.run, m.err
}

func (m *mockHistoryService) Delete(_ context.Context, id string) error {
	m.deleted = id
	return m.err
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	settings   *mockSettingsService
	validator  *mockValidator
	compiler   *mockCompiler
	repair     *mockRepairService
	experiment *mockExperimentService
	history    *mockHistoryService
}

// setupTestServices installs mock services and returns a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		settings:   newMockSettingsService(),
		validator:  &mockValidator{reports: map[domain.Language]*domain.ValidationReport{}},
		compiler:   &mockCompiler{},
		repair:     &mockRepairService{},
		experiment: &mockExperimentService{},
		history:    &mockHistoryService{},
	}
	oldWire := wire
	wire = nil
	SetServices(&Services{
		Settings:   ts.settings,
		Validator:  ts.validator,
		Compiler:   ts.compiler,
		Repair:     ts.repair,
		Experiment: ts.experiment,
		History:    ts.history,
	})
	return ts, func() {
		SetServices(nil)
		wire = oldWire
	}
}
