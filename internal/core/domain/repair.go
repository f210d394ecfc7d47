package domain

import "time"

// RepairStatus is the outcome of a repair run.
type RepairStatus string

// Repair outcomes.
const (
	// RepairStatusClean means the final code passed compilation and import checks.
	RepairStatusClean RepairStatus = "clean"

	// RepairStatusUnresolved means the round budget ran out before the code passed.
	RepairStatusUnresolved RepairStatus = "unresolved"

	// RepairStatusFailed means an infrastructure error (LLM, toolchain) ended the run.
	RepairStatusFailed RepairStatus = "failed"
)

// IsValid returns true if the status is recognised.
func (s RepairStatus) IsValid() bool {
	switch s {
	case RepairStatusClean, RepairStatusUnresolved, RepairStatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s RepairStatus) String() string {
	return string(s)
}

// DefaultMaxRounds is the repair round budget when none is configured.
const DefaultMaxRounds = 4

// RepairRound captures one iteration of the repair loop.
type RepairRound struct {
	// Number is 1-based.
	Number int `json:"number"`

	Compile    *CompileResult    `json:"compile,omitempty"`
	Validation *ValidationReport `json:"validation,omitempty"`

	// Feedback is the text sent to the LLM (empty when the round passed).
	Feedback string `json:"feedback,omitempty"`

	// RepairedCode is the LLM's rewrite (empty when the round passed).
	RepairedCode string `json:"repaired_code,omitempty"`
}

// RepairRun is one execution of the compiler-guided repair loop.
type RepairRun struct {
	ID           string        `json:"id"`
	Source       string        `json:"source"`
	Language     Language      `json:"language"`
	Status       RepairStatus  `json:"status"`
	Model        string        `json:"model,omitempty"`
	OriginalCode string        `json:"original_code"`
	FinalCode    string        `json:"final_code"`
	Rounds       []RepairRound `json:"rounds"`
	Error        string        `json:"error,omitempty"`
	StartedAt    time.Time     `json:"started_at"`
	FinishedAt   time.Time     `json:"finished_at"`
}

// Duration returns how long the run took.
func (r *RepairRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Repaired reports whether the LLM changed the code during the run.
func (r *RepairRun) Repaired() bool {
	for _, round := range r.Rounds {
		if round.RepairedCode != "" {
			return true
		}
	}
	return false
}
