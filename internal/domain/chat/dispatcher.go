package chat

import (
	"context"
	"strings"
	"time"

	"companion-server/internal/domain/provider"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/infrastructure/metrics"
)

const (
	defaultTimeout     = 10 * time.Second
	defaultMaxTokens   = 500
	defaultTemperature = 0.8
)

// DispatcherOptions tune the failover behavior. Zero values take the defaults.
type DispatcherOptions struct {
	Timeout         time.Duration
	MaxTokens       int
	Temperature     float32
	FallbackEnabled bool
}

// Dispatcher tries the primary provider, then the fallback order, then the
// rule-based responder. Generate never fails: total provider failure is not
// observable from the outside.
type Dispatcher struct {
	registry  *provider.Registry
	completer Completer
	rules     *RuleResponder

	timeout         time.Duration
	maxTokens       int
	temperature     float32
	fallbackEnabled bool
}

func NewDispatcher(registry *provider.Registry, completer Completer, rules *RuleResponder, opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		registry:        registry,
		completer:       completer,
		rules:           rules,
		timeout:         opts.Timeout,
		maxTokens:       opts.MaxTokens,
		temperature:     opts.Temperature,
		fallbackEnabled: opts.FallbackEnabled,
	}
	if d.timeout <= 0 {
		d.timeout = defaultTimeout
	}
	if d.maxTokens <= 0 {
		d.maxTokens = defaultMaxTokens
	}
	if d.temperature <= 0 {
		d.temperature = defaultTemperature
	}
	return d
}

// Generate produces a reply for the user message given the conversation
// history. Provider failures are swallowed and the next provider is tried;
// when every provider fails or none are configured, the rule-based responder
// answers.
func (d *Dispatcher) Generate(ctx context.Context, history []Message, userMessage string) string {
	log := logger.GetLogger()

	if primary, ok := d.registry.Primary(); ok {
		if reply, err := d.callProvider(ctx, primary, history, userMessage); err == nil {
			log.Debug().Str("provider", primary.ID).Msg("reply generated by primary provider")
			return reply
		} else {
			log.Warn().Err(err).Str("provider", primary.ID).Msg("primary provider failed")
		}
	}

	if d.fallbackEnabled {
		for _, id := range d.registry.FallbackOrder() {
			cfg, ok := d.registry.Get(id)
			if !ok {
				continue
			}
			reply, err := d.callProvider(ctx, cfg, history, userMessage)
			if err == nil {
				log.Info().Str("provider", id).Msg("reply generated by fallback provider")
				return reply
			}
			log.Warn().Err(err).Str("provider", id).Msg("fallback provider failed")
		}
	}

	log.Info().Msg("all AI providers failed, using rule-based responder")
	return d.rules.Respond(userMessage)
}

func (d *Dispatcher) callProvider(ctx context.Context, cfg provider.Config, history []Message, userMessage string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: RoleSystem, Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: RoleUser, Content: userMessage})

	reply, err := d.completer.Complete(callCtx, cfg, CompletionRequest{
		Messages:    messages,
		MaxTokens:   d.maxTokens,
		Temperature: d.temperature,
	})
	if err != nil {
		metrics.ProviderCallsTotal.WithLabelValues(cfg.ID, "error").Inc()
		return "", err
	}
	if strings.TrimSpace(reply) == "" {
		metrics.ProviderCallsTotal.WithLabelValues(cfg.ID, "empty").Inc()
		return "", ErrEmptyCompletion
	}
	metrics.ProviderCallsTotal.WithLabelValues(cfg.ID, "success").Inc()
	return reply, nil
}
