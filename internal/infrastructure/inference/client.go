// Package inference implements the provider-facing completion client for the
// OpenAI-compatible chat completions dialect.
package inference

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sashabaranov/go-openai"
	"resty.dev/v3"

	"companion-server/internal/domain/chat"
	"companion-server/internal/domain/provider"
	"companion-server/internal/utils/httpclients"
	"companion-server/internal/utils/platformerrors"
)

// Client dispatches completion calls by provider dialect. One resty client is
// cached per provider id.
type Client struct {
	mu      sync.Mutex
	clients map[string]*resty.Client
}

var _ chat.Completer = (*Client)(nil)

func NewClient() *Client {
	return &Client{clients: make(map[string]*resty.Client)}
}

// Complete performs a non-streaming chat completion against the given
// provider. Returns an error on transport failure, non-2xx status or an
// empty-choices body.
func (c *Client) Complete(ctx context.Context, cfg provider.Config, req chat.CompletionRequest) (string, error) {
	switch cfg.Dialect {
	case provider.DialectOpenAICompatible:
		return c.completeOpenAI(ctx, cfg, req)
	default:
		return "", fmt.Errorf("provider %s: %w", cfg.ID, chat.ErrUnsupportedDialect)
	}
}

func (c *Client) completeOpenAI(ctx context.Context, cfg provider.Config, req chat.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
	}

	body := openai.ChatCompletionRequest{
		Model:       cfg.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stream:      false,
	}

	var respBody openai.ChatCompletionResponse
	resp, err := c.restyClient(cfg).R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetBody(body).
		SetResult(&respBody).
		Post(endpoint(cfg.BaseURL, "/chat/completions"))
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("provider %s returned status %d", cfg.ID, resp.StatusCode()), nil, "1d2f8a6e-9c33-4a41-bb25-70f3c2f3b8d1")
	}
	if len(respBody.Choices) == 0 {
		return "", chat.ErrEmptyCompletion
	}
	return respBody.Choices[0].Message.Content, nil
}

func (c *Client) restyClient(cfg provider.Config) *resty.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.clients[cfg.ID]; ok {
		return client
	}
	client := httpclients.NewClient(fmt.Sprintf("%sClient", cfg.ID))
	c.clients[cfg.ID] = client
	return client
}

func endpoint(baseURL, path string) string {
	return strings.TrimSuffix(baseURL, "/") + path
}
