package driving

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// ExperimentRequest selects which sample directories to process.
type ExperimentRequest struct {
	// Languages to run. Empty means all languages.
	Languages []domain.Language

	// SamplesDir holds one sub-directory per language (python, rust, js, cpp).
	SamplesDir string

	// ResultsDir receives repair_results_<lang>.txt files.
	ResultsDir string
}

// LanguageSummary reports the outcome for one language.
type LanguageSummary struct {
	Language    domain.Language
	InputDir    string
	ResultsPath string

	// Skipped is true when the input directory does not exist.
	Skipped bool

	Files      int
	Clean      int
	Unresolved int
	Failed     int
}

// ExperimentSummary reports the outcome of a batch run.
type ExperimentSummary struct {
	Languages []LanguageSummary
}

// Totals sums file counts across languages.
func (s *ExperimentSummary) Totals() LanguageSummary {
	var t LanguageSummary
	if s == nil {
		return t
	}
	for _, l := range s.Languages {
		t.Files += l.Files
		t.Clean += l.Clean
		t.Unresolved += l.Unresolved
		t.Failed += l.Failed
	}
	return t
}

// ExperimentService batch-repairs sample directories.
type ExperimentService interface {
	// Run repairs every sample file and writes per-language results files.
	Run(ctx context.Context, req ExperimentRequest) (*ExperimentSummary, error)
}
