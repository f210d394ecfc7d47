package services

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// APIKeyEnv is consulted when no API key is stored in the config file.
//
//nolint:gosec // G101: This is an environment variable name, not a credential.
const APIKeyEnv = "RACG_API_KEY"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyRepairMaxRounds   = "repair.max_rounds"
	keyRepairTemperature = "repair.temperature"
	keyRegistryTimeout   = "registry.timeout_seconds"
	keyRegistryRPS       = "registry.requests_per_second"
	keyRegistryCacheTTL  = "registry.cache_ttl_hours"
	keyRegistryOffline   = "registry.offline"
	keyRegistryFallback  = "registry.popular_fallback"
	keyToolchainPython   = "toolchain.python"
	keyToolchainMypy     = "toolchain.mypy"
	keyToolchainClang    = "toolchain.clang"
	keyToolchainRustc    = "toolchain.rustc"
	keyToolchainNode     = "toolchain.node"
	keyPolicyFile        = "policy.file"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	maxRepairRounds      = 20
	maxTemperature       = 2.0
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, errors.New("config store not configured")
	}
	defaults := domain.DefaultAppSettings()

	apiKey := s.configStore.GetString(keyLLMAPIKey)
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty means the provider default
			APIKey:   apiKey,
		},
		Repair: domain.RepairSettings{
			MaxRounds:   s.getInt(keyRepairMaxRounds, defaults.Repair.MaxRounds),
			Temperature: s.getFloat(keyRepairTemperature, defaults.Repair.Temperature),
		},
		Registry: domain.RegistrySettings{
			TimeoutSeconds:    s.getInt(keyRegistryTimeout, defaults.Registry.TimeoutSeconds),
			RequestsPerSecond: s.getFloat(keyRegistryRPS, defaults.Registry.RequestsPerSecond),
			CacheTTLHours:     s.getInt(keyRegistryCacheTTL, defaults.Registry.CacheTTLHours),
			Offline:           s.getBool(keyRegistryOffline, defaults.Registry.Offline),
			PopularFallback:   s.getBool(keyRegistryFallback, defaults.Registry.PopularFallback),
		},
		Toolchain: domain.ToolchainSettings{
			Python: s.getString(keyToolchainPython, defaults.Toolchain.Python),
			Mypy:   s.getString(keyToolchainMypy, defaults.Toolchain.Mypy),
			Clang:  s.getString(keyToolchainClang, defaults.Toolchain.Clang),
			Rustc:  s.getString(keyToolchainRustc, defaults.Toolchain.Rustc),
			Node:   s.getString(keyToolchainNode, defaults.Toolchain.Node),
		},
		PolicyFile: s.configStore.GetString(keyPolicyFile),
	}

	return settings, nil
}

// Save persists application settings.
// The API key is only written when set, so a key taken from the
// environment is written back only if the caller keeps it.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return errors.New("config store not configured")
	}

	values := map[string]any{
		keyLLMProvider:       settings.LLM.Provider.String(),
		keyLLMModel:          settings.LLM.Model,
		keyLLMBaseURL:        settings.LLM.BaseURL,
		keyRepairMaxRounds:   settings.Repair.MaxRounds,
		keyRepairTemperature: settings.Repair.Temperature,
		keyRegistryTimeout:   settings.Registry.TimeoutSeconds,
		keyRegistryRPS:       settings.Registry.RequestsPerSecond,
		keyRegistryCacheTTL:  settings.Registry.CacheTTLHours,
		keyRegistryOffline:   settings.Registry.Offline,
		keyRegistryFallback:  settings.Registry.PopularFallback,
		keyToolchainPython:   settings.Toolchain.Python,
		keyToolchainMypy:     settings.Toolchain.Mypy,
		keyToolchainClang:    settings.Toolchain.Clang,
		keyToolchainRustc:    settings.Toolchain.Rustc,
		keyToolchainNode:     settings.Toolchain.Node,
		keyPolicyFile:        settings.PolicyFile,
	}
	// A key taken from the environment is not written to disk.
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != os.Getenv(APIKeyEnv) {
		values[keyLLMAPIKey] = settings.LLM.APIKey
	}

	if err := s.configStore.SetAll(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, baseURL, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	// Validate API key if required, allowing the environment fallback
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnv)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}

	// Base URL: explicit wins, local providers get the default daemon address
	switch {
	case baseURL != "":
		settings.LLM.BaseURL = baseURL
	case provider.IsLocal():
		settings.LLM.BaseURL = defaultOllamaBaseURL
	default:
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetMaxRounds updates the repair round limit.
func (s *SettingsService) SetMaxRounds(rounds int) error {
	if rounds < 1 || rounds > maxRepairRounds {
		return fmt.Errorf("%w: max rounds must be between 1 and %d", domain.ErrInvalidInput, maxRepairRounds)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Repair.MaxRounds = rounds
	return s.Save(settings)
}

// SetRegistryOffline toggles registry lookups.
func (s *SettingsService) SetRegistryOffline(offline bool) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Registry.Offline = offline
	return s.Save(settings)
}

// Validate checks that the current settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %q requires an API key (set llm.api_key or %s)",
			settings.LLM.Provider.Description(), APIKeyEnv)
	}
	if settings.Repair.MaxRounds < 1 || settings.Repair.MaxRounds > maxRepairRounds {
		return fmt.Errorf("repair.max_rounds must be between 1 and %d", maxRepairRounds)
	}
	if settings.Repair.Temperature < 0 || settings.Repair.Temperature > maxTemperature {
		return fmt.Errorf("repair.temperature must be between 0 and %.1f", maxTemperature)
	}
	if settings.Registry.TimeoutSeconds < 1 {
		return errors.New("registry.timeout_seconds must be positive")
	}
	if settings.Registry.RequestsPerSecond <= 0 {
		return errors.New("registry.requests_per_second must be positive")
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig pings the configured provider. Without a validator it
// always succeeds.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
