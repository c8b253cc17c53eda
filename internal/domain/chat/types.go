// Package chat generates companion replies: an ordered failover across the
// configured LLM providers, degrading to a deterministic rule-based responder.
package chat

import (
	"context"

	"companion-server/internal/domain/provider"
)

// Message is a single conversation turn.
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest is the input for one non-streaming completion call.
type CompletionRequest struct {
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// Completer performs a single completion call against one provider.
// Implementations must honor ctx cancellation and return an error for any
// non-2xx status, transport failure or empty-choices response.
type Completer interface {
	Complete(ctx context.Context, cfg provider.Config, req CompletionRequest) (string, error)
}
