package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asdzza/RACG-Defense/internal/core/domain"
	"github.com/asdzza/RACG-Defense/internal/core/ports/driven"
)

func TestNewLLMService_Defaults(t *testing.T) {
	svc := NewLLMService(LLMConfig{})

	assert.Equal(t, DefaultBaseURL, svc.baseURL)
	assert.Equal(t, DefaultLLMModel, svc.ModelName())
	assert.NoError(t, svc.Close())
}

func TestLLMService_Complete(t *testing.T) {
	var got chatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"<code>fixed</code>"},"done":true}`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL + "/", Model: "qwen2.5-coder"})

	answer, err := svc.Complete(context.Background(), driven.CompletionRequest{
		System:    "sys",
		Messages:  []driven.ChatMessage{{Role: driven.RoleUser, Content: "fix"}},
		MaxTokens: 64,
	})

	require.NoError(t, err)
	assert.Equal(t, "<code>fixed</code>", answer)
	assert.Equal(t, "qwen2.5-coder", got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, chatTurn{Role: "system", Content: "sys"}, got.Messages[0])
	assert.Equal(t, chatTurn{Role: "user", Content: "fix"}, got.Messages[1])
	assert.Equal(t, 64, got.Options.NumPredict)
}

func TestLLMService_Complete_SendsZeroTemperature(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"ok"},"done":true}`))
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Complete(context.Background(), driven.CompletionRequest{
		Messages: []driven.ChatMessage{{Role: driven.RoleUser, Content: "x"}},
	})
	require.NoError(t, err)

	opts, ok := raw["options"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 0.0, opts["temperature"])
	assert.NotContains(t, opts, "num_predict")

	msgs, ok := raw["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 1, "empty system prompt adds no turn")
}

func TestLLMService_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model not found"}`))
	}))
	defer server.Close()

	svc := NewLLMService(LLMConfig{BaseURL: server.URL})

	_, err := svc.Complete(context.Background(), driven.CompletionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
	assert.Error(t, svc.Ping(context.Background()))
}

func TestLLMService_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewLLMService(LLMConfig{BaseURL: server.URL}).Complete(context.Background(), driven.CompletionRequest{})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestLLMService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	assert.NoError(t, NewLLMService(LLMConfig{BaseURL: server.URL}).Ping(context.Background()))
}
