package provider

import (
	"sync"

	"companion-server/internal/infrastructure/logger"
)

// Registry holds the configured LLM backends, the primary selection and the
// fixed fallback priority. Read-mostly after startup; SwitchPrimary is the
// only post-startup mutation and is guarded so readers never observe a torn
// value.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Config
	order     []string // registration order = fallback priority
	primaryID string
}

// NewRegistry creates an empty registry with the given preferred primary id.
// The primary takes effect once a provider with that id is registered.
func NewRegistry(primaryID string) *Registry {
	return &Registry{
		providers: make(map[string]Config),
		primaryID: primaryID,
	}
}

// Register adds a provider when its API key passes the validity check;
// configs with missing or placeholder keys are silently omitted. Registering
// the same id twice replaces the config without changing its priority slot.
func (r *Registry) Register(cfg Config) {
	log := logger.GetLogger()
	if !cfg.HasValidAPIKey() {
		log.Warn().
			Str("provider", cfg.ID).
			Msg("skipping provider without a usable API key")
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[cfg.ID]; !exists {
		r.order = append(r.order, cfg.ID)
	}
	r.providers[cfg.ID] = cfg
	log.Info().
		Str("provider", cfg.ID).
		Str("model", cfg.Model).
		Str("base_url", cfg.BaseURL).
		Msg("registered AI provider")
}

// IsAvailable reports whether the provider id is registered.
func (r *Registry) IsAvailable(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[id]
	return ok
}

// Get returns the config for a registered id.
func (r *Registry) Get(id string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.providers[id]
	return cfg, ok
}

// Primary returns the configured primary provider, if registered.
func (r *Registry) Primary() (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.providers[r.primaryID]
	return cfg, ok
}

// PrimaryID returns the current primary id, registered or not.
func (r *Registry) PrimaryID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.primaryID
}

// FallbackOrder returns the registered provider ids in priority order,
// excluding the primary.
func (r *Registry) FallbackOrder() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.order))
	for _, id := range r.order {
		if id == r.primaryID {
			continue
		}
		if _, ok := r.providers[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// SwitchPrimary promotes a registered provider to primary. Returns false and
// leaves the registry untouched when the id is unknown.
func (r *Registry) SwitchPrimary(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	log := logger.GetLogger()
	if _, ok := r.providers[id]; !ok {
		log.Warn().
			Str("provider", id).
			Msg("cannot switch primary: provider not registered")
		return false
	}
	r.primaryID = id
	log.Info().Str("provider", id).Msg("primary AI provider switched")
	return true
}

// Len returns the number of registered providers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.providers)
}

// All returns a snapshot of the registered configs in priority order.
func (r *Registry) All() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Config, 0, len(r.order))
	for _, id := range r.order {
		if cfg, ok := r.providers[id]; ok {
			out = append(out, cfg)
		}
	}
	return out
}
