// internal/providers/provider.go

// Package providers defines the interfaces for interacting with different AI model providers.
// It provides a common abstraction layer for sending chat-completion requests and listing
// models, regardless of the underlying provider implementation (e.g., OpenAI-compatible
// endpoints, Gemini).
package providers

import (
	"context"
	"time"

	"github.com/mwiater/syndeo/internal/appconfig"
)

// ChatMessage represents a single message in a chat conversation.
// It contains the role of the message sender (e.g., "user", "assistant") and the message content.
type ChatMessage struct {
	Role    string
	Content string
}

// ChatRequest encapsulates all the information needed for one completion call.
type ChatRequest struct {
	Model      string
	Messages   []ChatMessage
	Parameters appconfig.Parameters
}

// ChatResponse carries the assistant output and usage metadata for one completed call.
type ChatResponse struct {
	Model            string
	Content          string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

// ChatClient is the interface that all model providers must implement.
// It defines the core functionalities for listing models and requesting completions.
type ChatClient interface {
	// Name identifies the configured endpoint in logs and reports.
	Name() string
	// Models lists the model identifiers the endpoint can serve.
	Models(ctx context.Context) ([]string, error)
	// Complete sends a full conversation and returns the assistant's reply.
	Complete(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// Close cleans up any resources used by the provider.
	Close() error
}
