// Package policy loads per-language import policies: the embedded defaults,
// optionally extended by a user YAML file.
package policy

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.PolicyStore = (*Store)(nil)

//go:embed default.yaml
var defaultYAML []byte

// languageFile is one language section of a policy file. Pointer fields
// distinguish "unset" from false/zero in user overrides.
type languageFile struct {
	TypoMaxDistance  *int     `yaml:"typo_max_distance"`
	RequireAllowlist *bool    `yaml:"require_allowlist"`
	PopularFallback  *bool    `yaml:"popular_fallback"`
	Replace          bool     `yaml:"replace"`
	Popular          []string `yaml:"popular"`
	Builtins         []string `yaml:"builtins"`
}

// policyFile maps language names ("python", "js", "rust") to sections.
type policyFile map[string]languageFile

// Options adjusts the loaded policies.
type Options struct {
	// File is an optional user policy file. Lists are appended to the
	// defaults unless the section sets replace: true.
	File string

	// PopularFallback, when non-nil, overrides popular_fallback for every language.
	PopularFallback *bool
}

// Store holds immutable import policies keyed by language.
type Store struct {
	mu       sync.RWMutex
	policies map[domain.Language]domain.ImportPolicy
}

// NewStore loads the embedded defaults and applies opts.
func NewStore(opts Options) (*Store, error) {
	defaults, err := decode(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("decode default policy: %w", err)
	}

	policies := make(map[domain.Language]domain.ImportPolicy)
	if err := merge(policies, defaults); err != nil {
		return nil, fmt.Errorf("default policy: %w", err)
	}

	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return nil, fmt.Errorf("read policy file: %w", err)
		}
		user, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("parse policy file %s: %w", opts.File, err)
		}
		if err := merge(policies, user); err != nil {
			return nil, fmt.Errorf("policy file %s: %w", opts.File, err)
		}
	}

	if opts.PopularFallback != nil {
		for lang, p := range policies {
			p.PopularFallback = *opts.PopularFallback
			policies[lang] = p
		}
	}

	return &Store{policies: policies}, nil
}

// Policy returns the import policy for lang.
func (s *Store) Policy(lang domain.Language) (domain.ImportPolicy, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.policies[lang]
	return p, ok
}

// Languages returns the languages with a policy.
func (s *Store) Languages() []domain.Language {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var langs []domain.Language
	for _, lang := range domain.AllLanguages() {
		if _, ok := s.policies[lang]; ok {
			langs = append(langs, lang)
		}
	}
	return langs
}

func decode(data []byte) (policyFile, error) {
	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f, nil
}

func merge(into map[domain.Language]domain.ImportPolicy, f policyFile) error {
	for name, section := range f {
		lang, err := domain.ParseLanguage(name)
		if err != nil {
			return fmt.Errorf("section %q: %w", name, err)
		}
		if !lang.SupportsImportCheck() {
			return fmt.Errorf("section %q: %s imports are not validated", name, lang.Description())
		}

		p, exists := into[lang]
		if !exists {
			p = domain.ImportPolicy{Language: lang, TypoMaxDistance: 1}
		}
		if section.Replace {
			p.Popular = nil
			p.Builtins = nil
		}
		p.Popular = appendUnique(p.Popular, section.Popular)
		p.Builtins = appendUnique(p.Builtins, section.Builtins)

		if section.TypoMaxDistance != nil {
			if *section.TypoMaxDistance < 1 {
				return fmt.Errorf("section %q: typo_max_distance must be at least 1", name)
			}
			p.TypoMaxDistance = *section.TypoMaxDistance
		}
		if section.RequireAllowlist != nil {
			p.RequireAllowlist = *section.RequireAllowlist
		}
		if section.PopularFallback != nil {
			p.PopularFallback = *section.PopularFallback
		}
		into[lang] = p
	}
	return nil
}

func appendUnique(list, extra []string) []string {
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		seen[item] = struct{}{}
	}
	for _, item := range extra {
		if _, ok := seen[item]; ok || item == "" {
			continue
		}
		seen[item] = struct{}{}
		list = append(list, item)
	}
	return list
}
