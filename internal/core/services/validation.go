package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Ensure ImportValidator implements the interface.
var _ driving.ImportValidator = (*ImportValidator)(nil)

// DefaultLookupConcurrency bounds parallel registry lookups per report.
const DefaultLookupConcurrency = 8

// ValidatorOptions tunes the import validator.
type ValidatorOptions struct {
	// Offline skips registry lookups. Packages that would need one pass.
	Offline bool

	// Concurrency bounds parallel registry lookups. 0 means DefaultLookupConcurrency.
	Concurrency int
}

// lookupOutcome is the registry's answer for one package.
type lookupOutcome int

const (
	outcomeUnchecked lookupOutcome = iota
	outcomeFound
	outcomeMissing
)

// ImportValidator flags typosquatted and unpublished imports.
type ImportValidator struct {
	parsers    map[domain.Language]driven.ImportParser
	registries map[string]driven.PackageRegistry
	policies   driven.PolicyStore
	metrics    driven.Metrics
	opts       ValidatorOptions
}

// NewImportValidator creates an import validator.
// Registries are keyed by their ecosystem; a language whose registry is
// missing is validated without lookups. metrics may be nil.
func NewImportValidator(
	parsers []driven.ImportParser,
	registries []driven.PackageRegistry,
	policies driven.PolicyStore,
	metrics driven.Metrics,
	opts ValidatorOptions,
) *ImportValidator {
	v := &ImportValidator{
		parsers:    make(map[domain.Language]driven.ImportParser, len(parsers)),
		registries: make(map[string]driven.PackageRegistry, len(registries)),
		policies:   policies,
		metrics:    metrics,
		opts:       opts,
	}
	for _, p := range parsers {
		v.parsers[p.Language()] = p
	}
	for _, r := range registries {
		v.registries[r.Ecosystem()] = r
	}
	if v.metrics == nil {
		v.metrics = driven.NopMetrics{}
	}
	if v.opts.Concurrency <= 0 {
		v.opts.Concurrency = DefaultLookupConcurrency
	}
	return v
}

// Validate extracts imports from code and applies the language's import policy.
func (v *ImportValidator) Validate(
	ctx context.Context,
	lang domain.Language,
	code string,
) (*domain.ValidationReport, error) {
	if !lang.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, lang)
	}

	logger.Section("Import Validation")
	report := &domain.ValidationReport{Language: lang}

	policy, ok := v.policies.Policy(lang)
	if !lang.SupportsImportCheck() || !ok {
		logger.Debug("No import policy for %s, skipping", lang)
		v.metrics.ObserveValidation(report)
		return report, nil
	}

	parser, ok := v.parsers[lang]
	if !ok {
		return nil, fmt.Errorf("no import parser for %s: %w", lang, domain.ErrUnsupportedLanguage)
	}

	parsed, err := parser.Parse(ctx, CleanCode(code))
	if err != nil {
		return nil, fmt.Errorf("parse imports: %w", err)
	}
	if parsed.SyntaxError != "" {
		logger.Debug("Syntax error: %s", parsed.SyntaxError)
		if lang == domain.LanguagePython {
			report.Findings = []domain.Finding{{
				Kind:    domain.FindingSyntaxError,
				Message: parsed.SyntaxError,
			}}
			v.metrics.ObserveValidation(report)
			return report, nil
		}
	}

	report.Packages = dedupeSorted(parsed.Packages)
	logger.Debug("Packages: %v", report.Packages)

	outcomes, err := v.lookupAll(ctx, lang, policy, report.Packages)
	if err != nil {
		return nil, err
	}

	for i, pkg := range report.Packages {
		if f, flagged := judge(lang, policy, pkg, outcomes[i]); flagged {
			report.Findings = append(report.Findings, f)
		}
	}

	logger.Info("Validated %d %s package(s), %d finding(s)", len(report.Packages), lang, len(report.Findings))
	v.metrics.ObserveValidation(report)
	return report, nil
}

// needsLookup reports whether a package's verdict depends on the registry.
func needsLookup(policy domain.ImportPolicy, pkg string) bool {
	if isBuiltin(policy, pkg) {
		return false
	}
	if _, typo := IsTypo(pkg, policy.Popular, policy.TypoMaxDistance); typo {
		return false
	}
	if policy.RequireAllowlist && !policy.IsPopular(pkg) {
		return false
	}
	return true
}

// lookupAll queries the registry concurrently for every package that needs it.
// Registry failures count as missing; only context cancellation aborts.
func (v *ImportValidator) lookupAll(
	ctx context.Context,
	lang domain.Language,
	policy domain.ImportPolicy,
	packages []string,
) ([]lookupOutcome, error) {
	outcomes := make([]lookupOutcome, len(packages))
	ecosystem := lang.Ecosystem()

	registry, ok := v.registries[ecosystem]
	if v.opts.Offline || !ok {
		for _, pkg := range packages {
			if needsLookup(policy, pkg) {
				v.metrics.ObserveRegistryLookup(ecosystem, driven.LookupSkipped)
			}
		}
		return outcomes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.opts.Concurrency)
	for i, pkg := range packages {
		if !needsLookup(policy, pkg) {
			continue
		}
		g.Go(func() error {
			exists, err := registry.Exists(gctx, pkg)
			switch {
			case err != nil && gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				logger.Warn("%s lookup for %q failed: %v", ecosystem, pkg, err)
				v.metrics.ObserveRegistryLookup(ecosystem, driven.LookupError)
				outcomes[i] = outcomeMissing
			case exists:
				v.metrics.ObserveRegistryLookup(ecosystem, driven.LookupFound)
				outcomes[i] = outcomeFound
			default:
				v.metrics.ObserveRegistryLookup(ecosystem, driven.LookupMissing)
				outcomes[i] = outcomeMissing
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("registry lookups: %w", err)
	}
	return outcomes, nil
}

// judge applies the language rules to one package.
func judge(lang domain.Language, policy domain.ImportPolicy, pkg string, outcome lookupOutcome) (domain.Finding, bool) {
	if isBuiltin(policy, pkg) {
		return domain.Finding{}, false
	}

	if match, typo := IsTypo(pkg, policy.Popular, policy.TypoMaxDistance); typo {
		return typoFinding(lang, pkg, match), true
	}

	switch lang {
	case domain.LanguagePython:
		if outcome == outcomeMissing {
			return domain.Finding{
				Kind:    domain.FindingUnknownLib,
				Package: pkg,
				Message: fmt.Sprintf("'%s' not found in PyPI or stdlib", pkg),
			}, true
		}

	case domain.LanguageJS:
		if !policy.IsPopular(pkg) {
			return domain.Finding{
				Kind:    domain.FindingUnapprovedNPM,
				Package: pkg,
				Message: fmt.Sprintf("'%s' is not in trusted popular package list", pkg),
			}, true
		}
		if outcome == outcomeMissing {
			return domain.Finding{
				Kind:    domain.FindingNotInRegistry,
				Package: pkg,
				Message: fmt.Sprintf("'%s' not found in registry.npmjs.org", pkg),
			}, true
		}

	case domain.LanguageRust:
		if outcome == outcomeMissing && !(policy.PopularFallback && policy.IsPopular(pkg)) {
			msg := fmt.Sprintf("'%s' not found on crates.io", pkg)
			if policy.PopularFallback {
				msg += " (or request failed)"
			}
			return domain.Finding{
				Kind:    domain.FindingUnknownCrate,
				Package: pkg,
				Message: msg,
			}, true
		}
	}

	return domain.Finding{}, false
}

// isBuiltin also accepts Node's "node:" scheme for core modules.
func isBuiltin(policy domain.ImportPolicy, pkg string) bool {
	if policy.Language == domain.LanguageJS {
		if rest, ok := strings.CutPrefix(pkg, "node:"); ok {
			return rest != ""
		}
	}
	return policy.IsBuiltin(pkg)
}

func typoFinding(lang domain.Language, pkg, match string) domain.Finding {
	var msg string
	switch lang {
	case domain.LanguageJS:
		msg = fmt.Sprintf("Suspicious npm package -> '%s'", pkg)
	case domain.LanguageRust:
		msg = fmt.Sprintf("Suspicious crate name (typo) -> '%s'", pkg)
	default:
		msg = fmt.Sprintf("Suspicious typo import → '%s' (imitates '%s')", pkg, match)
	}
	return domain.Finding{
		Kind:    domain.FindingTypo,
		Package: pkg,
		Match:   match,
		Message: msg,
	}
}

func dedupeSorted(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
