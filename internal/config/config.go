package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton for packages that cannot take injected config (crontab jobs)
var globalConfig *Config

// Config holds all environment backed configuration for companion-server.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// WhatsApp Business API
	WhatsAppBaseURL       string `env:"WHATSAPP_API_BASE_URL" envDefault:"https://graph.facebook.com/v18.0"`
	WhatsAppAccessToken   string `env:"WHATSAPP_ACCESS_TOKEN,notEmpty"`
	WhatsAppPhoneNumberID string `env:"WHATSAPP_PHONE_NUMBER_ID,notEmpty"`
	WebhookVerifyToken    string `env:"WHATSAPP_WEBHOOK_VERIFY_TOKEN,notEmpty"`

	// AI Providers
	PrimaryProvider    string        `env:"AI_PRIMARY_PROVIDER" envDefault:"groq"`
	FallbackEnabled    bool          `env:"AI_FALLBACK_ENABLED" envDefault:"true"`
	MaxTokens          int           `env:"AI_MAX_TOKENS" envDefault:"500"`
	Temperature        float32       `env:"AI_TEMPERATURE" envDefault:"0.8"`
	ProviderTimeout    time.Duration `env:"AI_TIMEOUT" envDefault:"10s"`
	ProviderConfigFile string        `env:"AI_PROVIDER_CONFIG_FILE"`
	ProviderConfigSet  string        `env:"AI_PROVIDER_CONFIG_SET" envDefault:"default"`

	// Sentiment analysis
	SentimentTimeout   time.Duration `env:"SENTIMENT_TIMEOUT" envDefault:"10s"`
	SentimentMaxTokens int           `env:"SENTIMENT_MAX_TOKENS" envDefault:"200"`

	// Conversation history
	ConversationMaxMessages int           `env:"CONVERSATION_MAX_MESSAGES" envDefault:"20"`
	ConversationTTL         time.Duration `env:"CONVERSATION_TTL" envDefault:"24h"`

	// Escalation
	AlertThreshold int           `env:"ALERT_THRESHOLD" envDefault:"3"`
	AlertThrottle  time.Duration `env:"ALERT_THROTTLE" envDefault:"1h"`

	// Wellness scheduler
	WellnessEnabled       bool `env:"WELLNESS_SCHEDULER_ENABLED" envDefault:"true"`
	WellnessMorningHour   int  `env:"WELLNESS_MORNING_HOUR" envDefault:"9"`
	WellnessAfternoonHour int  `env:"WELLNESS_AFTERNOON_HOUR" envDefault:"14"`
	WellnessEveningHour   int  `env:"WELLNESS_EVENING_HOUR" envDefault:"19"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"companion-api"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"companion"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// Internal
	Providers     *ProviderBootstrapConfig `env:"-"`
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if _, err := url.ParseRequestURI(cfg.WhatsAppBaseURL); err != nil {
		return nil, fmt.Errorf("invalid WHATSAPP_API_BASE_URL: %w", err)
	}

	cfg.ProviderConfigSet = strings.TrimSpace(cfg.ProviderConfigSet)
	if cfg.ProviderConfigSet == "" {
		cfg.ProviderConfigSet = "default"
	}

	configFile := strings.TrimSpace(cfg.ProviderConfigFile)
	if configFile == "" {
		configFile = DefaultProviderConfigFile
	}
	providers, err := LoadProviderBootstrapConfig(configFile)
	if err != nil {
		return nil, fmt.Errorf("load provider configs: %w", err)
	}
	cfg.Providers = providers

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// GetGlobal returns the global config instance for packages without injection.
func GetGlobal() *Config {
	return globalConfig
}

// ProviderBootstrapEntries returns the configured provider definitions for the active set.
func (c *Config) ProviderBootstrapEntries() []ProviderBootstrapEntry {
	if c == nil || c.Providers == nil {
		return nil
	}
	return c.Providers.ProvidersForSet(c.ProviderConfigSet)
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
