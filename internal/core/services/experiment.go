package services

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// Ensure ExperimentService implements the interface.
var _ driving.ExperimentService = (*ExperimentService)(nil)

const resultsFooter = "\n=============================\n"

// ExperimentService batch-repairs a directory of samples per language.
type ExperimentService struct {
	repair driving.RepairService
}

// NewExperimentService creates an experiment runner.
func NewExperimentService(repair driving.RepairService) *ExperimentService {
	return &ExperimentService{repair: repair}
}

// ResultsPath returns the results file for lang under dir.
func ResultsPath(dir string, lang domain.Language) string {
	return filepath.Join(dir, "repair_results_"+lang.ResultsName()+".txt")
}

// Run repairs every sample file and writes per-language results files.
func (s *ExperimentService) Run(ctx context.Context, req driving.ExperimentRequest) (*driving.ExperimentSummary, error) {
	langs := req.Languages
	if len(langs) == 0 {
		langs = domain.AllLanguages()
	}
	for _, lang := range langs {
		if !lang.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedLanguage, lang)
		}
	}

	if err := os.MkdirAll(req.ResultsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}

	summary := &driving.ExperimentSummary{}
	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		ls, err := s.runLanguage(ctx, lang, req)
		if err != nil {
			return summary, err
		}
		summary.Languages = append(summary.Languages, *ls)
	}
	return summary, nil
}

func (s *ExperimentService) runLanguage(
	ctx context.Context,
	lang domain.Language,
	req driving.ExperimentRequest,
) (*driving.LanguageSummary, error) {
	ls := &driving.LanguageSummary{
		Language:    lang,
		InputDir:    filepath.Join(req.SamplesDir, lang.String()),
		ResultsPath: ResultsPath(req.ResultsDir, lang),
	}
	logger.Section(fmt.Sprintf("Processing %s samples", strings.ToUpper(lang.String())))

	f, err := os.Create(ls.ResultsPath)
	if err != nil {
		return nil, fmt.Errorf("create results file: %w", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	files, err := sampleFiles(ls.InputDir, lang.FileSuffix())
	if err != nil {
		logger.Warn("Skipped (folder %s not found)", ls.InputDir)
		ls.Skipped = true
		fmt.Fprintf(w, "[ERROR] Directory not found: %s\n", ls.InputDir)
		return ls, flush(w)
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			_ = flush(w)
			return ls, err
		}
		logger.Info("Processing: %s", name)
		ls.Files++

		body := s.repairFile(ctx, lang, ls.InputDir, name, ls)
		fmt.Fprintf(w, "\n===== FILE: %s =====\n", name)
		w.WriteString(body)
		w.WriteString(resultsFooter)
	}

	logger.Info("%s results saved to %s", strings.ToUpper(lang.String()), ls.ResultsPath)
	return ls, flush(w)
}

// repairFile returns the text to record for one sample and updates the tallies.
func (s *ExperimentService) repairFile(
	ctx context.Context,
	lang domain.Language,
	dir, name string,
	ls *driving.LanguageSummary,
) string {
	code, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		ls.Failed++
		return fmt.Sprintf("[ERROR when repairing %s: %v]", name, err)
	}

	run, err := s.repair.Repair(ctx, driving.RepairRequest{
		Source:   name,
		Language: lang,
		Code:     string(code),
	})
	if err != nil {
		ls.Failed++
		return fmt.Sprintf("[ERROR when repairing %s: %v]", name, err)
	}

	switch run.Status {
	case domain.RepairStatusClean:
		ls.Clean++
	case domain.RepairStatusUnresolved:
		ls.Unresolved++
	default:
		ls.Failed++
	}
	return run.FinalCode
}

// sampleFiles lists regular files in dir with the given suffix, sorted by name.
func sampleFiles(dir, suffix string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), suffix) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func flush(w *bufio.Writer) error {
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	return nil
}
