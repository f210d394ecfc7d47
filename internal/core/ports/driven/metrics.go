package driven

import "github.com/asdzza/RACG-Defense/internal/core/domain"

// Registry lookup outcomes reported to Metrics.
const (
	LookupFound    = "found"
	LookupMissing  = "missing"
	LookupError    = "error"
	LookupCacheHit = "cache_hit"
	LookupSkipped  = "skipped"
)

// Metrics records operational measurements.
type Metrics interface {
	// ObserveValidation records one import validation report.
	ObserveValidation(report *domain.ValidationReport)

	// ObserveRegistryLookup records one registry lookup outcome.
	ObserveRegistryLookup(ecosystem, outcome string)

	// ObserveRepair records a finished repair run.
	ObserveRepair(run *domain.RepairRun)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

// ObserveValidation implements Metrics.
func (NopMetrics) ObserveValidation(*domain.ValidationReport) {}

// ObserveRegistryLookup implements Metrics.
func (NopMetrics) ObserveRegistryLookup(string, string) {}

// ObserveRepair implements Metrics.
func (NopMetrics) ObserveRepair(*domain.RepairRun) {}
