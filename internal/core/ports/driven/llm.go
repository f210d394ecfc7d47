package driven

import "context"

// LLMService is the chat model behind the repair agent. It is optional:
// without one, racg still compiles and validates but cannot repair.
type LLMService interface {
	// Complete sends one request and returns the assistant's reply text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	ModelName() string

	// Ping checks reachability and credentials without running inference.
	Ping(ctx context.Context) error

	Close() error
}

// Message roles used in CompletionRequest.Messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one conversation turn.
type ChatMessage struct {
	Role    string
	Content string
}

// CompletionRequest is a single repair prompt.
type CompletionRequest struct {
	// System is the instruction prompt. Providers that only accept
	// messages receive it as a leading "system" message.
	System string

	Messages []ChatMessage

	// MaxTokens caps the reply. 0 means the provider default.
	MaxTokens int

	// Temperature is always sent, so 0 requests deterministic output.
	Temperature float64
}
