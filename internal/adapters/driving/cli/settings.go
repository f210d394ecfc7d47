package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the repair LLM, the repair loop and registry lookups.

Settings are stored in config.toml inside the configuration directory.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the LLM that repairs failing code.

Without flags the command asks interactively. The API key is read without
echo, or taken from the RACG_API_KEY environment variable.

Examples:
  racg settings llm
  racg settings llm --provider openai --model deepseek-chat --base-url https://api.deepseek.com/v1`,
	RunE: runSettingsLLM,
}

var settingsRepairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Configure the repair loop",
	RunE:  runSettingsRepair,
}

var settingsRegistryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Configure package registry lookups",
	RunE:  runSettingsRegistry,
}

func init() {
	settingsLLMCmd.Flags().String("provider", "", "LLM provider (ollama, openai, anthropic)")
	settingsLLMCmd.Flags().String("model", "", "model name")
	settingsLLMCmd.Flags().String("base-url", "", "API base URL (OpenAI-compatible gateways)")
	settingsLLMCmd.Flags().String("api-key", "", "API key")
	settingsLLMCmd.Flags().Bool("no-validate", false, "skip the connectivity check")

	settingsRepairCmd.Flags().Int("rounds", 0, "maximum repair rounds")
	settingsRepairCmd.Flags().Float64("temperature", -1, "LLM temperature (0-2)")

	settingsRegistryCmd.Flags().Bool("offline", false, "skip registry lookups")
	settingsRegistryCmd.Flags().Bool("online", false, "enable registry lookups")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsRepairCmd)
	settingsCmd.AddCommand(settingsRegistryCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Repair]")
	cmd.Printf("  Max rounds: %d\n", settings.Repair.MaxRounds)
	cmd.Printf("  Temperature: %.2f\n", settings.Repair.Temperature)
	cmd.Println()

	cmd.Println("[Registry]")
	if settings.Registry.Offline {
		cmd.Printf("  Lookups: offline\n")
	} else {
		cmd.Printf("  Lookups: online (%.0f req/s, %ds timeout)\n",
			settings.Registry.RequestsPerSecond, settings.Registry.TimeoutSeconds)
	}
	cmd.Printf("  Cache TTL: %dh\n", settings.Registry.CacheTTLHours)
	cmd.Printf("  Popular crate fallback: %t\n", settings.Registry.PopularFallback)
	cmd.Println()

	cmd.Println("[Toolchain]")
	cmd.Printf("  Python: %s (mypy: %s)\n", settings.Toolchain.Python, orNone(settings.Toolchain.Mypy))
	cmd.Printf("  C++: %s\n", settings.Toolchain.Clang)
	cmd.Printf("  Rust: %s\n", settings.Toolchain.Rustc)
	cmd.Printf("  JavaScript: %s\n", settings.Toolchain.Node)
	if settings.PolicyFile != "" {
		cmd.Printf("  Policy file: %s\n", settings.PolicyFile)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'racg settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if cmd.Flags().Changed("provider") {
		return configureLLMProviderFromFlags(cmd)
	}
	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureLLMProviderFromFlags(cmd *cobra.Command) error {
	providerName, _ := cmd.Flags().GetString("provider") //nolint:errcheck // flag is registered in init
	model, _ := cmd.Flags().GetString("model")           //nolint:errcheck // flag is registered in init
	baseURL, _ := cmd.Flags().GetString("base-url")      //nolint:errcheck // flag is registered in init
	apiKey, _ := cmd.Flags().GetString("api-key")        //nolint:errcheck // flag is registered in init

	provider := domain.AIProvider(strings.ToLower(providerName))
	if !provider.IsValid() {
		return fmt.Errorf("unknown provider %q (choose ollama, openai or anthropic)", providerName)
	}
	if err := settingsService.SetLLMProvider(provider, model, baseURL, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}
	return finishLLMConfig(cmd, provider)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var baseURL string
	if !selectedProvider.IsLocal() {
		cmd.Print("Enter base URL (empty for the provider default): ")
		baseURL = readLine(reader)
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key (empty to use RACG_API_KEY): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, baseURL, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}
	return finishLLMConfig(cmd, selectedProvider)
}

func finishLLMConfig(cmd *cobra.Command, provider domain.AIProvider) error {
	skip, _ := cmd.Flags().GetBool("no-validate") //nolint:errcheck // flag is registered in init
	if !skip {
		cmd.Print("Validating configuration... ")
		if err := settingsService.ValidateLLMConfig(cmd.Context()); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("LLM provider configured: %s (%s)\n", provider.Description(), settings.LLM.Model)
	return nil
}

func runSettingsRepair(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	flags := cmd.Flags()
	if !flags.Changed("rounds") && !flags.Changed("temperature") {
		return errors.New("nothing to change: use --rounds and/or --temperature")
	}

	if flags.Changed("rounds") {
		rounds, _ := flags.GetInt("rounds") //nolint:errcheck // flag is registered in init
		if err := settingsService.SetMaxRounds(rounds); err != nil {
			return fmt.Errorf("failed to set max rounds: %w", err)
		}
	}
	if flags.Changed("temperature") {
		temperature, _ := flags.GetFloat64("temperature") //nolint:errcheck // flag is registered in init
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		settings.Repair.Temperature = temperature
		if err := settingsService.Save(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		if err := settingsService.Validate(); err != nil {
			return err
		}
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Repair loop: %d round(s), temperature %.2f\n", settings.Repair.MaxRounds, settings.Repair.Temperature)
	return nil
}

func runSettingsRegistry(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	offline, _ := cmd.Flags().GetBool("offline") //nolint:errcheck // flag is registered in init
	online, _ := cmd.Flags().GetBool("online")   //nolint:errcheck // flag is registered in init
	if offline == online {
		return errors.New("use exactly one of --offline or --online")
	}
	if err := settingsService.SetRegistryOffline(offline); err != nil {
		return fmt.Errorf("failed to update registry settings: %w", err)
	}
	if offline {
		cmd.Println("Registry lookups disabled. Only typo and allowlist checks will run.")
	} else {
		cmd.Println("Registry lookups enabled.")
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal, otherwise from reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func orNone(s string) string {
	if s == "" {
		return "disabled"
	}
	return s
}
