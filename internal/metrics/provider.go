// internal/metrics/provider.go
package metrics

import (
	"context"

	"github.com/mwiater/syndeo/internal/logging"
	"github.com/mwiater/syndeo/internal/providers"
)

// Client is a decorator that wraps a ChatClient to record metrics.
type Client struct {
	wrapped    providers.ChatClient
	aggregator *Aggregator
}

// NewClient creates a new metrics-enabled client that wraps an existing ChatClient.
func NewClient(wrapped providers.ChatClient, aggregator *Aggregator) *Client {
	logging.LogEvent("[METRICS] Wrapping %s client with metrics client", wrapped.Name())
	return &Client{wrapped: wrapped, aggregator: aggregator}
}

// Name passes the call through to the wrapped client.
func (c *Client) Name() string {
	return c.wrapped.Name()
}

// Models passes the call through to the wrapped client.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	return c.wrapped.Models(ctx)
}

// Complete intercepts the call to the wrapped client to record performance metrics.
func (c *Client) Complete(ctx context.Context, req providers.ChatRequest) (providers.ChatResponse, error) {
	resp, err := c.wrapped.Complete(ctx, req)
	if err != nil {
		return resp, err
	}
	if c.aggregator != nil {
		c.aggregator.Record(resp)
	}
	return resp, nil
}

// Close passes the call through to the wrapped client.
func (c *Client) Close() error {
	return c.wrapped.Close()
}
