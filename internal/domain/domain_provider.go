package domain

import (
	"github.com/google/wire"

	"companion-server/internal/config"
	"companion-server/internal/domain/chat"
	"companion-server/internal/domain/companion"
	"companion-server/internal/domain/conversation"
	"companion-server/internal/domain/escalation"
	"companion-server/internal/domain/provider"
	"companion-server/internal/domain/recipient"
	"companion-server/internal/domain/sentiment"
	"companion-server/internal/domain/wellness"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	ProvideRegistry,
	ProvideDispatcher,
	ProvideClassifier,
	ProvideConversationStore,
	ProvideTracker,
	chat.NewRuleResponder,
	escalation.NewNotifier,
	sentiment.NewService,
	recipient.NewService,
	companion.NewService,
	wellness.NewService,
)

// ProvideRegistry builds the provider registry from the bootstrap entries.
// Entries with placeholder keys are skipped inside Register.
func ProvideRegistry(cfg *config.Config) *provider.Registry {
	registry := provider.NewRegistry(cfg.PrimaryProvider)
	for _, entry := range cfg.ProviderBootstrapEntries() {
		registry.Register(provider.Config{
			ID:          entry.ID,
			DisplayName: entry.DisplayName,
			BaseURL:     entry.BaseURL,
			APIKey:      entry.APIKey,
			Model:       entry.Model,
			Dialect:     provider.Dialect(entry.Dialect),
		})
	}
	return registry
}

func ProvideDispatcher(cfg *config.Config, registry *provider.Registry, completer chat.Completer, rules *chat.RuleResponder) *chat.Dispatcher {
	return chat.NewDispatcher(registry, completer, rules, chat.DispatcherOptions{
		Timeout:         cfg.ProviderTimeout,
		MaxTokens:       cfg.MaxTokens,
		Temperature:     cfg.Temperature,
		FallbackEnabled: cfg.FallbackEnabled,
	})
}

func ProvideClassifier(cfg *config.Config, registry *provider.Registry, completer chat.Completer) *sentiment.Classifier {
	return sentiment.NewClassifier(registry, completer, sentiment.ClassifierOptions{
		Timeout:   cfg.SentimentTimeout,
		MaxTokens: cfg.SentimentMaxTokens,
	})
}

func ProvideConversationStore(cfg *config.Config) *conversation.Store {
	return conversation.NewStore(conversation.StoreOptions{
		MaxMessages: cfg.ConversationMaxMessages,
		TTL:         cfg.ConversationTTL,
	})
}

func ProvideTracker(cfg *config.Config) *escalation.Tracker {
	return escalation.NewTracker(escalation.TrackerOptions{
		Threshold: cfg.AlertThreshold,
		Throttle:  cfg.AlertThrottle,
	})
}
