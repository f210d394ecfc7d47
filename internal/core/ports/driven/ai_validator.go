package driven

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// AIConfigValidator checks LLM settings against the live provider before
// they are relied on.
type AIConfigValidator interface {
	// ValidateLLM returns nil when the provider answers, or when no
	// provider is configured.
	ValidateLLM(ctx context.Context, config *domain.LLMSettings) error
}
