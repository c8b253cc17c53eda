package provider

import "strings"

// Dialect identifies the wire shape a provider speaks.
type Dialect string

const (
	// DialectOpenAICompatible covers every backend exposing the
	// /chat/completions contract (Groq, OpenRouter, Together, ...).
	DialectOpenAICompatible Dialect = "openai_compatible"
	// DialectOther is kept for forward compatibility; providers carrying it
	// are registered but fail every call, so the dispatcher skips past them.
	DialectOther Dialect = "other"
)

// Config describes one LLM backend. Immutable for the process lifetime once
// registered.
type Config struct {
	ID          string
	DisplayName string
	BaseURL     string
	APIKey      string `json:"-"` // never serialized
	Model       string
	Dialect     Dialect
}

// placeholder sentinels that ship in sample config files and must never be
// treated as credentials.
var placeholderKeys = map[string]struct{}{
	"your_api_key_here":      {},
	"your_groq_api_key_here": {},
	"changeme":               {},
	"none":                   {},
}

// HasValidAPIKey reports whether the config carries a usable credential.
func (c Config) HasValidAPIKey() bool {
	key := strings.TrimSpace(c.APIKey)
	if key == "" {
		return false
	}
	_, placeholder := placeholderKeys[strings.ToLower(key)]
	return !placeholder
}
