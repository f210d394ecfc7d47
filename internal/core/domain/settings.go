package domain

// AIProvider identifies an LLM service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI API or any OpenAI-compatible gateway
	// (DeepSeek, vLLM, university proxies) reached through LLMSettings.BaseURL.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI-compatible (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// LLMSettings holds LLM provider configuration for the repair agent.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint. Empty means the provider default.
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RepairSettings controls the compiler-guided repair loop.
type RepairSettings struct {
	// MaxRounds is the number of compile/validate/repair iterations.
	MaxRounds int

	// Temperature is passed to the LLM. 0 keeps repairs deterministic.
	Temperature float64
}

// RegistrySettings controls package registry lookups.
type RegistrySettings struct {
	// TimeoutSeconds bounds each registry request.
	TimeoutSeconds int

	// RequestsPerSecond is the sustained lookup rate per registry.
	RequestsPerSecond float64

	// CacheTTLHours is how long lookups stay cached. 0 disables expiry.
	CacheTTLHours int

	// Offline skips registry lookups entirely.
	Offline bool

	// PopularFallback accepts popular crates when crates.io cannot be reached.
	PopularFallback bool
}

// ToolchainSettings names the binaries used for compile checks.
type ToolchainSettings struct {
	Python string
	Mypy   string
	Clang  string
	Rustc  string
	Node   string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds repair agent provider settings.
	LLM LLMSettings

	// Repair holds repair loop settings.
	Repair RepairSettings

	// Registry holds package registry settings.
	Registry RegistrySettings

	// Toolchain holds compiler binary names.
	Toolchain ToolchainSettings

	// PolicyFile is an optional YAML file overriding the built-in import policy.
	PolicyFile string
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; users must set it up via 'racg settings llm'.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{},
		Repair: RepairSettings{
			MaxRounds:   DefaultMaxRounds,
			Temperature: 0,
		},
		Registry: RegistrySettings{
			TimeoutSeconds:    3,
			RequestsPerSecond: 5,
			CacheTTLHours:     24,
			Offline:           false,
			PopularFallback:   true,
		},
		Toolchain: ToolchainSettings{
			Python: "python3",
			Mypy:   "mypy",
			Clang:  "clang",
			Rustc:  "rustc",
			Node:   "node",
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
