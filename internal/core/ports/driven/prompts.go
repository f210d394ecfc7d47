package driven

// PromptStore resolves named prompt templates for the repair agent.
type PromptStore interface {
	// Load returns the template registered under name, preferring a user
	// override over the built-in default. Unknown names are an error.
	Load(name string) (string, error)

	// Reload drops cached templates so edits on disk are picked up.
	Reload()
}

// Prompt names.
const (
	// PromptRepairSystem is the repair agent's system prompt. No placeholders.
	PromptRepairSystem = "repair_system"

	// PromptRepairUser formats one repair round: %s code, then %s diagnostics.
	PromptRepairUser = "repair_user"
)
