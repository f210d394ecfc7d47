package ai

import (
	"context"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator adapts ValidateLLMConfig to the settings service port.
type ConfigValidator struct{}

func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

func (v *ConfigValidator) ValidateLLM(ctx context.Context, config *domain.LLMSettings) error {
	return ValidateLLMConfig(ctx, config)
}
