package driven

import "github.com/asdzza/RACG-Defense/internal/core/domain"

// PolicyStore provides the import policy for each language.
type PolicyStore interface {
	// Policy returns the policy for lang. ok is false for languages
	// without import validation.
	Policy(lang domain.Language) (policy domain.ImportPolicy, ok bool)
}
