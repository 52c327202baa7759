// internal/providers/gemini/provider.go
// Package gemini provides a ChatClient backed by the hosted Google Generative AI API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/logging"
	"github.com/mwiater/syndeo/internal/providers"
)

// Client implements the providers.ChatClient interface using the Gemini SDK.
type Client struct {
	endpoint appconfig.Endpoint
	client   *genai.Client
	timeout  time.Duration
}

// New constructs a Client authenticated with the endpoint's API key.
func New(ctx context.Context, cfg *appconfig.Config, endpoint appconfig.Endpoint) (*Client, error) {
	key := endpoint.APIKey()
	if key == "" {
		return nil, fmt.Errorf("gemini: endpoint %q has no API key (set %s)", endpoint.Name, endpoint.APIKeyEnv)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	return &Client{
		endpoint: endpoint,
		client:   client,
		timeout:  cfg.RequestTimeout(),
	}, nil
}

// Name identifies the configured endpoint.
func (c *Client) Name() string {
	return c.endpoint.Name
}

// Models lists the generative models available to the API key.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var names []string
	it := c.client.ListModels(ctx)
	for {
		info, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("gemini: list models: %w", err)
		}
		names = append(names, strings.TrimPrefix(info.Name, "models/"))
	}
	return names, nil
}

// Complete sends the conversation to the Gemini API and returns the reply.
// System messages become system instructions; the final user message is the
// prompt and any earlier turns feed the chat history.
func (c *Client) Complete(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	model := c.client.GenerativeModel(req.Model)
	// Endpoint defaults apply first, per-request parameters win.
	params := c.endpoint.Parameters.Merge(req.Parameters)
	if params.Temperature != nil {
		model.SetTemperature(float32(*params.Temperature))
	}
	if params.TopP != nil {
		model.SetTopP(float32(*params.TopP))
	}
	if params.MaxTokens != nil {
		model.SetMaxOutputTokens(int32(*params.MaxTokens))
	}

	var systemParts []genai.Part
	var turns []providers.ChatMessage
	for _, m := range req.Messages {
		if strings.EqualFold(m.Role, "system") {
			systemParts = append(systemParts, genai.Text(m.Content))
			continue
		}
		turns = append(turns, m)
	}
	if len(systemParts) > 0 {
		model.SystemInstruction = &genai.Content{Parts: systemParts}
	}
	if len(turns) == 0 {
		return providers.ChatResponse{}, fmt.Errorf("gemini: request for %s carried no user messages", req.Model)
	}

	prompt := turns[len(turns)-1]
	history := make([]*genai.Content, 0, len(turns)-1)
	for _, m := range turns[:len(turns)-1] {
		role := "user"
		if strings.EqualFold(m.Role, "assistant") {
			role = "model"
		}
		history = append(history, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}

	logging.LogRequest("SYNDEO->LLM", c.endpoint.Name, req.Model, prompt.Content)

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	var resp *genai.GenerateContentResponse
	var err error
	if len(history) == 0 {
		resp, err = model.GenerateContent(callCtx, genai.Text(prompt.Content))
	} else {
		session := model.StartChat()
		session.History = history
		resp, err = session.SendMessage(callCtx, genai.Text(prompt.Content))
	}
	if err != nil {
		return providers.ChatResponse{}, fmt.Errorf("gemini: request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return providers.ChatResponse{}, fmt.Errorf("gemini: response from %s contained no candidates", c.endpoint.Name)
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	content := sb.String()
	logging.LogRequest("LLM->SYNDEO", c.endpoint.Name, req.Model, content)

	out := providers.ChatResponse{
		Model:    req.Model,
		Content:  content,
		Duration: time.Since(start),
	}
	if resp.UsageMetadata != nil {
		out.PromptTokens = int(resp.UsageMetadata.PromptTokenCount)
		out.CompletionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return out, nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	return c.client.Close()
}
