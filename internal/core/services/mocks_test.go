package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// --- Mock implementations ---

// mockParser implements driven.ImportParser for testing.
type mockParser struct {
	lang      domain.Language
	packages  []string
	syntaxErr string
	err       error
	lastCode  string
}

func (m *mockParser) Language() domain.Language { return m.lang }

func (m *mockParser) Parse(_ context.Context, code string) (*driven.ParsedImports, error) {
	m.lastCode = code
	if m.err != nil {
		return nil, m.err
	}
	return &driven.ParsedImports{Packages: m.packages, SyntaxError: m.syntaxErr}, nil
}

// mockRegistry implements driven.PackageRegistry for testing.
// Names in exists are published, names in errs fail, everything else is missing.
type mockRegistry struct {
	ecosystem string
	exists    map[string]bool
	errs      map[string]error
	delay     time.Duration
	block     bool

	mu       sync.Mutex
	calls    []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (m *mockRegistry) Ecosystem() string { return m.ecosystem }

func (m *mockRegistry) Exists(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()

	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	if m.block {
		<-ctx.Done()
		return false, ctx.Err()
	}
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if err := m.errs[name]; err != nil {
		return false, err
	}
	return m.exists[name], nil
}

func (m *mockRegistry) called() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockPolicyStore implements driven.PolicyStore for testing.
type mockPolicyStore map[domain.Language]domain.ImportPolicy

func (m mockPolicyStore) Policy(lang domain.Language) (domain.ImportPolicy, bool) {
	p, ok := m[lang]
	return p, ok
}

func testPolicies() mockPolicyStore {
	return mockPolicyStore{
		domain.LanguagePython: {
			Language:        domain.LanguagePython,
			Builtins:        []string{"os", "sys", "json", "re"},
			Popular:         []string{"pandas", "numpy", "requests", "matplotlib", "cv2"},
			TypoMaxDistance: 1,
		},
		domain.LanguageJS: {
			Language:         domain.LanguageJS,
			Builtins:         []string{"fs", "path", "http"},
			Popular:          []string{"express", "react", "lodash", "axios"},
			TypoMaxDistance:  1,
			RequireAllowlist: true,
		},
		domain.LanguageRust: {
			Language:        domain.LanguageRust,
			Builtins:        []string{"std", "core", "alloc"},
			Popular:         []string{"serde", "tokio", "regex", "reqwest"},
			TypoMaxDistance: 1,
			PopularFallback: true,
		},
	}
}

// mockMetrics implements driven.Metrics for testing.
type mockMetrics struct {
	mu          sync.Mutex
	validations []*domain.ValidationReport
	lookups     map[string]int
	repairs     []*domain.RepairRun
}

func (m *mockMetrics) ObserveValidation(r *domain.ValidationReport) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validations = append(m.validations, r)
}

func (m *mockMetrics) ObserveRegistryLookup(ecosystem, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.lookups == nil {
		m.lookups = make(map[string]int)
	}
	m.lookups[ecosystem+"/"+outcome]++
}

func (m *mockMetrics) ObserveRepair(run *domain.RepairRun) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repairs = append(m.repairs, run)
}

// mockCompiler implements driven.Compiler, returning scripted results in order.
// The last result repeats once the script runs out.
type mockCompiler struct {
	lang    domain.Language
	results []*domain.CompileResult
	err     error
	codes   []string
}

func (m *mockCompiler) Language() domain.Language { return m.lang }

func (m *mockCompiler) Check(_ context.Context, code string) (*domain.CompileResult, error) {
	m.codes = append(m.codes, code)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.results) == 0 {
		return &domain.CompileResult{Tool: "mock"}, nil
	}
	i := len(m.codes) - 1
	if i >= len(m.results) {
		i = len(m.results) - 1
	}
	return m.results[i], nil
}

// mockValidator implements driving.ImportValidator with scripted reports.
type mockValidator struct {
	reports []*domain.ValidationReport
	err     error
	calls   int
}

func (m *mockValidator) Validate(_ context.Context, lang domain.Language, _ string) (*domain.ValidationReport, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.reports) == 0 {
		return &domain.ValidationReport{Language: lang}, nil
	}
	i := m.calls - 1
	if i >= len(m.reports) {
		i = len(m.reports) - 1
	}
	return m.reports[i], nil
}

// mockLLM implements driven.LLMService with scripted answers.
type mockLLM struct {
	answers  []string
	err      error
	requests []driven.CompletionRequest
}

func (m *mockLLM) Complete(_ context.Context, req driven.CompletionRequest) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	i := len(m.requests) - 1
	if i >= len(m.answers) {
		return "", fmt.Errorf("unexpected chat call %d", i+1)
	}
	return m.answers[i], nil
}

func (m *mockLLM) ModelName() string            { return "mock-model" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPrompts implements driven.PromptStore for testing.
type mockPrompts map[string]string

func (m mockPrompts) Load(name string) (string, error) {
	p, ok := m[name]
	if !ok {
		return "", fmt.Errorf("prompt %s: %w", name, domain.ErrNotFound)
	}
	return p, nil
}

func (m mockPrompts) Reload() {}

func testPrompts() mockPrompts {
	return mockPrompts{
		driven.PromptRepairSystem: "You are the repair agent.",
		driven.PromptRepairUser:   "Code:\n<code>\n%s\n</code>\nErrors:\n<error>\n%s\n</error>",
	}
}

// mockRepairService implements driving.RepairService for testing the experiment runner.
type mockRepairService struct {
	fn    func(req driving.RepairRequest) (*domain.RepairRun, error)
	mu    sync.Mutex
	order []string
}

func (m *mockRepairService) Repair(_ context.Context, req driving.RepairRequest) (*domain.RepairRun, error) {
	m.mu.Lock()
	m.order = append(m.order, req.Source)
	m.mu.Unlock()
	return m.fn(req)
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	err    error
	called *domain.LLMSettings
}

func (m *mockAIValidator) ValidateLLM(_ context.Context, cfg *domain.LLMSettings) error {
	m.called = cfg
	return m.err
}
