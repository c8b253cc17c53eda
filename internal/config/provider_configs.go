package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"companion-server/internal/infrastructure/logger"
)

const DefaultProviderConfigFile = "config/providers.yml"

// ProviderBootstrapEntry describes a provider that should be registered on startup.
type ProviderBootstrapEntry struct {
	ID          string
	DisplayName string
	BaseURL     string
	APIKey      string
	Model       string
	Dialect     string
}

// ProviderBootstrapConfig maintains all configured provider sets.
type ProviderBootstrapConfig struct {
	sets map[string][]ProviderBootstrapEntry
}

// ProvidersForSet returns a copy of the providers defined for the requested set.
func (c *ProviderBootstrapConfig) ProvidersForSet(name string) []ProviderBootstrapEntry {
	if c == nil {
		return nil
	}
	set := strings.TrimSpace(name)
	if set == "" {
		set = "default"
	}
	list := c.sets[set]
	if len(list) == 0 {
		return nil
	}
	result := make([]ProviderBootstrapEntry, len(list))
	copy(result, list)
	return result
}

type providerConfigDocument struct {
	Providers map[string][]providerConfigEntry `yaml:"providers"`
}

type providerConfigEntry struct {
	ID          string `yaml:"id"`
	DisplayName string `yaml:"display_name"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	Dialect     string `yaml:"dialect"`
	Enable      *bool  `yaml:"enable"`
}

// LoadProviderBootstrapConfig parses the yaml file at the provided path.
// Entries are kept in file order; that order is the fallback priority.
func LoadProviderBootstrapConfig(path string) (*ProviderBootstrapConfig, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("provider config path is empty")
	}

	log := logger.GetLogger()
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read provider config %q: %w", cleanPath, err)
	}
	log.Info().Str("path", cleanPath).Msg("loading provider config file")

	var doc providerConfigDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse provider config %q: %w", cleanPath, err)
	}

	if len(doc.Providers) == 0 {
		return nil, fmt.Errorf("provider config %q has no providers defined", cleanPath)
	}

	result := &ProviderBootstrapConfig{
		sets: make(map[string][]ProviderBootstrapEntry),
	}

	for rawSet, entries := range doc.Providers {
		setName := strings.TrimSpace(rawSet)
		if setName == "" || len(entries) == 0 {
			continue
		}
		for idx, entry := range entries {
			entryLogger := log.With().Str("set", setName).Int("index", idx).Str("id", entry.ID).Logger()
			if entry.Enable != nil && !*entry.Enable {
				entryLogger.Info().Msg("skipping provider (enable=false)")
				continue
			}
			normalized, err := normalizeProviderEntry(entry)
			if err != nil {
				return nil, fmt.Errorf("providers.%s[%d]: %w", setName, idx, err)
			}
			entryLogger.Info().
				Str("base_url", normalized.BaseURL).
				Str("model", normalized.Model).
				Str("dialect", normalized.Dialect).
				Msg("including provider for bootstrap")
			result.sets[setName] = append(result.sets[setName], normalized)
		}
	}

	if len(result.sets) == 0 {
		return nil, fmt.Errorf("provider config %q has no valid provider entries", cleanPath)
	}

	return result, nil
}

func normalizeProviderEntry(entry providerConfigEntry) (ProviderBootstrapEntry, error) {
	id := strings.TrimSpace(entry.ID)
	if id == "" {
		return ProviderBootstrapEntry{}, errors.New("id is required")
	}
	baseURL := strings.TrimSpace(entry.BaseURL)
	if baseURL == "" {
		return ProviderBootstrapEntry{}, errors.New("base_url is required")
	}
	model := strings.TrimSpace(entry.Model)
	if model == "" {
		return ProviderBootstrapEntry{}, errors.New("model is required")
	}

	displayName := strings.TrimSpace(entry.DisplayName)
	if displayName == "" {
		displayName = id
	}

	dialect := strings.TrimSpace(entry.Dialect)
	if dialect == "" {
		dialect = "openai_compatible"
	}

	return ProviderBootstrapEntry{
		ID:          id,
		DisplayName: displayName,
		BaseURL:     strings.TrimSuffix(baseURL, "/"),
		APIKey:      os.ExpandEnv(entry.APIKey),
		Model:       model,
		Dialect:     dialect,
	}, nil
}
