// internal/providers/openai/provider_test.go
package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/providers"
)

// TestClientComplete verifies that the client issues a single non-streaming
// request and correctly parses the completion response.
func TestClientComplete(t *testing.T) {
	var capturedBody []byte
	var capturedAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		capturedBody = body
		capturedAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"model":"test-model","choices":[{"message":{"role":"assistant","content":"final"},"finish_reason":"stop"}],"usage":{"prompt_tokens":12,"completion_tokens":3,"total_tokens":15}}`))
	}))
	defer server.Close()

	t.Setenv("TEST_OPENAI_KEY", "sk-test")

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	endpoint := appconfig.Endpoint{Name: "test", URL: server.URL + "/v1", Type: "openai", APIKeyEnv: "TEST_OPENAI_KEY"}
	client := New(cfg, endpoint)

	temp := 0.0
	maxTokens := 8
	resp, err := client.Complete(context.Background(), providers.ChatRequest{
		Model: "test-model",
		Messages: []providers.ChatMessage{
			{Role: "system", Content: "You are terse."},
			{Role: "user", Content: "hello"},
		},
		Parameters: appconfig.Parameters{Temperature: &temp, MaxTokens: &maxTokens},
	})
	if err != nil {
		t.Fatalf("Complete returned error: %v", err)
	}

	if resp.Content != "final" {
		t.Fatalf("unexpected content: %q", resp.Content)
	}
	if resp.Model != "test-model" {
		t.Fatalf("unexpected model: %q", resp.Model)
	}
	if resp.PromptTokens != 12 || resp.CompletionTokens != 3 {
		t.Fatalf("unexpected usage: %d/%d", resp.PromptTokens, resp.CompletionTokens)
	}
	if capturedAuth != "Bearer sk-test" {
		t.Fatalf("expected bearer auth, got %q", capturedAuth)
	}

	var payload map[string]any
	if err := json.Unmarshal(capturedBody, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if stream, ok := payload["stream"].(bool); !ok || stream {
		t.Fatalf("expected stream=false, got %v", payload["stream"])
	}
	if temp, ok := payload["temperature"].(float64); !ok || temp != 0 {
		t.Fatalf("expected temperature 0, got %v", payload["temperature"])
	}
	if maxTok, ok := payload["max_tokens"].(float64); !ok || maxTok != 8 {
		t.Fatalf("expected max_tokens 8, got %v", payload["max_tokens"])
	}
	messages, ok := payload["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("expected 2 messages in payload, got %T", payload["messages"])
	}
}

// TestClientCompleteServerError tests the client's handling of a non-200
// response, which should surface the status and body snippet.
func TestClientCompleteServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	client := New(cfg, appconfig.Endpoint{Name: "test", URL: server.URL + "/v1", Type: "openai"})

	_, err := client.Complete(context.Background(), providers.ChatRequest{
		Model:    "test-model",
		Messages: []providers.ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected status and body in error, got: %v", err)
	}
}

// TestClientCompleteNoChoices tests the client's handling of a well-formed
// response with an empty choices array.
func TestClientCompleteNoChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"test-model","choices":[]}`))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	client := New(cfg, appconfig.Endpoint{Name: "test", URL: server.URL + "/v1", Type: "openai"})

	_, err := client.Complete(context.Background(), providers.ChatRequest{
		Model:    "test-model",
		Messages: []providers.ChatMessage{{Role: "user", Content: "hello"}},
	})
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
}

// TestClientModels verifies the /models listing is parsed into identifiers.
func TestClientModels(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"model-a"},{"id":"model-b"}]}`))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	client := New(cfg, appconfig.Endpoint{Name: "test", URL: server.URL + "/v1", Type: "openai"})

	models, err := client.Models(context.Background())
	if err != nil {
		t.Fatalf("Models returned error: %v", err)
	}
	if len(models) != 2 || models[0] != "model-a" || models[1] != "model-b" {
		t.Fatalf("unexpected models: %v", models)
	}
}
