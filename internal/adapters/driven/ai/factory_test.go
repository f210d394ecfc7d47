package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
)

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name     string
		settings *domain.LLMSettings
		wantNil  bool
		model    string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name: "ollama provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOllama,
				BaseURL:  "http://localhost:11434",
				Model:    "llama3.2",
			},
			model: "llama3.2",
		},
		{
			name: "openai provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
				APIKey:   "test-key",
				Model:    "deepseek-chat",
				BaseURL:  "https://gateway.example.com/v1",
			},
			model: "deepseek-chat",
		},
		{
			name: "anthropic provider creates service",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderAnthropic,
				APIKey:   "test-key",
				Model:    "claude-3-5-sonnet-latest",
			},
			model: "claude-3-5-sonnet-latest",
		},
		{
			name: "openai without key is not configured",
			settings: &domain.LLMSettings{
				Provider: domain.AIProviderOpenAI,
			},
			wantNil: true,
		},
		{
			name: "unknown provider is not configured",
			settings: &domain.LLMSettings{
				Provider: "unknown",
				APIKey:   "test-key",
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(tt.settings)
			require.NoError(t, err)

			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.model, svc.ModelName())
		})
	}
}

func TestCreateAndValidateLLMService_NotConfigured(t *testing.T) {
	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{})

	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateAndValidateLLMService_Reachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
		Model:    "qwen2.5-coder",
	})

	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()
	assert.Equal(t, "qwen2.5-coder", svc.ModelName())
}

func TestCreateAndValidateLLMService_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc, err := CreateAndValidateLLMService(context.Background(), &domain.LLMSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  server.URL,
	})

	require.Error(t, err)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "racg settings llm")
}

func TestValidateLLMConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	t.Run("not configured is valid", func(t *testing.T) {
		assert.NoError(t, ValidateLLMConfig(context.Background(), nil))
	})

	t.Run("valid key", func(t *testing.T) {
		err := ValidateLLMConfig(context.Background(), &domain.LLMSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "good-key",
			BaseURL:  server.URL,
		})
		assert.NoError(t, err)
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := ValidateLLMConfig(ctx, &domain.LLMSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "good-key",
			BaseURL:  server.URL,
		})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("rejected key", func(t *testing.T) {
		err := ValidateLLMConfig(context.Background(), &domain.LLMSettings{
			Provider: domain.AIProviderOpenAI,
			APIKey:   "bad-key",
			BaseURL:  server.URL,
		})
		assert.Error(t, err)
	})
}
