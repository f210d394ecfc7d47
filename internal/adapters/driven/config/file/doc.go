// Package file provides filesystem-backed driven adapters: the TOML
// ConfigStore at ~/.racg/config.toml and the PromptStore at ~/.racg/prompts/.
package file
