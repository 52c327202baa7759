// internal/providerfactory/factory.go
package providerfactory

import (
	"context"
	"fmt"

	"github.com/mwiater/syndeo/internal/appconfig"
	"github.com/mwiater/syndeo/internal/logging"
	"github.com/mwiater/syndeo/internal/metrics"
	"github.com/mwiater/syndeo/internal/providers"
	"github.com/mwiater/syndeo/internal/providers/gemini"
	"github.com/mwiater/syndeo/internal/providers/openai"
)

// NewChatClient selects and configures the appropriate chat client for an
// endpoint based on its configured type. It will choose between the Gemini and
// OpenAI-compatible clients and wrap the selected client with metrics
// collection if enabled.
func NewChatClient(cfg *appconfig.Config, endpoint appconfig.Endpoint) (providers.ChatClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	var client providers.ChatClient
	var err error

	switch endpoint.Type {
	case "gemini":
		client, err = gemini.New(context.Background(), cfg, endpoint)
		if err != nil {
			logging.LogEvent("Gemini client unavailable: %v", err)
			return nil, err
		}
		logging.LogEvent("Gemini client ready: endpoint=%s", endpoint.Name)
	case "openai", "mock":
		client = openai.New(cfg, endpoint)
	default:
		return nil, fmt.Errorf("unknown type %q for endpoint %q", endpoint.Type, endpoint.Name)
	}

	if cfg.Metrics {
		aggregator := metrics.GetInstance()
		client = metrics.NewClient(client, aggregator)
	}

	return client, nil
}

// ByName resolves the named endpoint in the config and constructs its client.
func ByName(cfg *appconfig.Config, name string) (providers.ChatClient, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}
	endpoint, err := cfg.EndpointByName(name)
	if err != nil {
		return nil, err
	}
	return NewChatClient(cfg, endpoint)
}
