// internal/providers/openai/provider.go
// Package openai provides a ChatClient backed by OpenAI-compatible HTTP endpoints.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/logging"
	"github.com/mwiater/syndeo/internal/providers"
)

// Client implements the providers.ChatClient interface against the
// /chat/completions and /models routes of an OpenAI-compatible server.
type Client struct {
	endpoint appconfig.Endpoint
	client   *http.Client
	timeout  time.Duration
	debug    bool
}

// New constructs a Client configured with the application's request timeout.
func New(cfg *appconfig.Config, endpoint appconfig.Endpoint) *Client {
	timeout := cfg.RequestTimeout()
	return &Client{
		endpoint: endpoint,
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

// chatMessage is the wire form of a single conversation message.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionRequest defines the payload sent to /chat/completions.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

// chatCompletionResponse defines the structure of a non-streaming completion response.
type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// modelsResponse defines the structure of the /models listing.
type modelsResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Name identifies the configured endpoint.
func (c *Client) Name() string {
	return c.endpoint.Name
}

// Models lists the model identifiers served by the endpoint.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.routeURL("/models")
	logging.LogRequest("SYNDEO->LLM", c.endpoint.Name, "", map[string]string{"method": http.MethodGet, "url": url})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("LLM->SYNDEO", c.endpoint.Name, "", body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai: /models returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var listing modelsResponse
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, err
	}
	names := make([]string, len(listing.Data))
	for i, m := range listing.Data {
		names[i] = m.ID
	}
	return names, nil
}

// Complete issues a non-streaming chat completion request.
func (c *Client) Complete(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	// Endpoint defaults apply first, per-request parameters win.
	params := c.endpoint.Parameters.Merge(req.Parameters)
	payload := chatCompletionRequest{
		Model:       req.Model,
		Messages:    make([]chatMessage, len(req.Messages)),
		Temperature: params.Temperature,
		TopP:        params.TopP,
		MaxTokens:   params.MaxTokens,
	}
	for i, m := range req.Messages {
		payload.Messages[i] = chatMessage{Role: m.Role, Content: m.Content}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return providers.ChatResponse{}, err
	}
	logging.LogRequest("SYNDEO->LLM", c.endpoint.Name, req.Model, body)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.routeURL("/chat/completions"), bytes.NewReader(body))
	if err != nil {
		return providers.ChatResponse{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	c.authorize(httpReq)

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return providers.ChatResponse{}, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return providers.ChatResponse{}, err
	}
	logging.LogRequest("LLM->SYNDEO", c.endpoint.Name, req.Model, respBody)

	if resp.StatusCode != http.StatusOK {
		return providers.ChatResponse{}, fmt.Errorf("openai: /chat/completions returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	var result chatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return providers.ChatResponse{}, err
	}
	if len(result.Choices) == 0 {
		return providers.ChatResponse{}, fmt.Errorf("openai: response from %s contained no choices", c.endpoint.Name)
	}

	modelName := result.Model
	if modelName == "" {
		modelName = req.Model
	}
	return providers.ChatResponse{
		Model:            modelName,
		Content:          result.Choices[0].Message.Content,
		PromptTokens:     result.Usage.PromptTokens,
		CompletionTokens: result.Usage.CompletionTokens,
		Duration:         time.Since(start),
	}, nil
}

// Close releases any resources held by the provider.
func (c *Client) Close() error {
	return nil
}

// routeURL joins the endpoint base URL with an API route.
func (c *Client) routeURL(route string) string {
	return strings.TrimRight(c.endpoint.URL, "/") + route
}

// authorize attaches the bearer token when the endpoint has an API key.
func (c *Client) authorize(req *http.Request) {
	if key := c.endpoint.APIKey(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
}
