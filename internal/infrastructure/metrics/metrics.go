package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Companion API metrics
var (
	WebhookMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "whatsapp",
			Name:      "webhook_messages_total",
			Help:      "Total inbound webhook messages by type",
		},
		[]string{"type"},
	)

	ProviderCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "ai",
			Name:      "provider_calls_total",
			Help:      "Total LLM provider calls by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	FallbackResponsesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "ai",
			Name:      "fallback_responses_total",
			Help:      "Total rule-based fallback replies by detected language",
		},
		[]string{"language"},
	)

	SentimentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "sentiment",
			Name:      "classifications_total",
			Help:      "Total sentiment classifications by category and source",
		},
		[]string{"category", "source"},
	)

	CaretakerAlertsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "escalation",
			Name:      "caretaker_alerts_total",
			Help:      "Total caretaker alert attempts by outcome",
		},
		[]string{"outcome"},
	)

	WellnessChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "companion",
			Subsystem: "wellness",
			Name:      "checks_sent_total",
			Help:      "Total wellness check messages by trigger",
		},
		[]string{"trigger"},
	)
)
