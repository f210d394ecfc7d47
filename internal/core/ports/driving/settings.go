package driving

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, baseURL, apiKey string) error

	// SetMaxRounds updates the repair round limit.
	SetMaxRounds(rounds int) error

	// SetRegistryOffline toggles registry lookups.
	SetRegistryOffline(offline bool) error

	// Validate checks that the current settings are usable.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig(ctx context.Context) error
}
