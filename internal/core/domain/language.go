package domain

import (
	"path/filepath"
	"strings"
)

// Language identifies a source language racg can check.
type Language string

// Supported languages.
const (
	LanguagePython Language = "python"
	LanguageCPP    Language = "cpp"
	LanguageRust   Language = "rust"
	LanguageJS     Language = "js"
)

// Ecosystem names for public package registries.
const (
	EcosystemPyPI   = "pypi"
	EcosystemNPM    = "npm"
	EcosystemCrates = "crates.io"
)

// IsValid returns true if the language is recognised.
func (l Language) IsValid() bool {
	switch l {
	case LanguagePython, LanguageCPP, LanguageRust, LanguageJS:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (l Language) String() string {
	return string(l)
}

// Description returns a human-readable name.
func (l Language) Description() string {
	switch l {
	case LanguagePython:
		return "Python"
	case LanguageCPP:
		return "C++"
	case LanguageRust:
		return "Rust"
	case LanguageJS:
		return "JavaScript"
	default:
		return unknownDescription
	}
}

// FileSuffix returns the file extension used for sources in this language.
func (l Language) FileSuffix() string {
	switch l {
	case LanguagePython:
		return ".py"
	case LanguageCPP:
		return ".cpp"
	case LanguageRust:
		return ".rs"
	case LanguageJS:
		return ".js"
	default:
		return ""
	}
}

// ResultsName is the short name used in batch result file names.
func (l Language) ResultsName() string {
	if l == LanguagePython {
		return "py"
	}
	return string(l)
}

// Ecosystem returns the package registry that serves this language,
// or "" when imports are not validated against a registry.
func (l Language) Ecosystem() string {
	switch l {
	case LanguagePython:
		return EcosystemPyPI
	case LanguageRust:
		return EcosystemCrates
	case LanguageJS:
		return EcosystemNPM
	default:
		return ""
	}
}

// SupportsImportCheck reports whether imports in this language are validated.
func (l Language) SupportsImportCheck() bool {
	return l.Ecosystem() != ""
}

// AllLanguages returns the supported languages in batch order.
func AllLanguages() []Language {
	return []Language{LanguagePython, LanguageRust, LanguageJS, LanguageCPP}
}

// ParseLanguage converts a user supplied name or alias to a Language.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "python", "py", "python3":
		return LanguagePython, nil
	case "cpp", "c++", "cxx":
		return LanguageCPP, nil
	case "rust", "rs":
		return LanguageRust, nil
	case "js", "javascript", "node":
		return LanguageJS, nil
	default:
		return "", ErrUnsupportedLanguage
	}
}

// LanguageFromPath infers the language from a file extension.
func LanguageFromPath(path string) (Language, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw":
		return LanguagePython, nil
	case ".cpp", ".cc", ".cxx", ".hpp":
		return LanguageCPP, nil
	case ".rs":
		return LanguageRust, nil
	case ".js", ".mjs", ".cjs":
		return LanguageJS, nil
	default:
		return "", ErrUnsupportedLanguage
	}
}
