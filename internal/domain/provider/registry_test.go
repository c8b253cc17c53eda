package provider

import "testing"

func validConfig(id string) Config {
	return Config{
		ID:          id,
		DisplayName: id,
		BaseURL:     "https://api." + id + ".test/v1",
		APIKey:      "sk-" + id,
		Model:       "test-model",
		Dialect:     DialectOpenAICompatible,
	}
}

func TestRegisterRejectsPlaceholderKeys(t *testing.T) {
	cases := []string{"", "   ", "YOUR_API_KEY_HERE", "YOUR_GROQ_API_KEY_HERE", "changeme", "none"}
	for _, key := range cases {
		r := NewRegistry("groq")
		cfg := validConfig("groq")
		cfg.APIKey = key
		r.Register(cfg)
		if r.IsAvailable("groq") {
			t.Errorf("provider with key %q should not be registered", key)
		}
	}
}

func TestRegisterIdempotentPerID(t *testing.T) {
	r := NewRegistry("groq")
	r.Register(validConfig("groq"))
	updated := validConfig("groq")
	updated.Model = "newer-model"
	r.Register(updated)

	if r.Len() != 1 {
		t.Fatalf("expected 1 provider, got %d", r.Len())
	}
	cfg, _ := r.Get("groq")
	if cfg.Model != "newer-model" {
		t.Fatalf("expected re-registration to replace config, got model %q", cfg.Model)
	}
}

func TestPrimaryUnregistered(t *testing.T) {
	r := NewRegistry("groq")
	r.Register(validConfig("openrouter"))
	if _, ok := r.Primary(); ok {
		t.Fatal("primary should be absent when its id is not registered")
	}
}

func TestFallbackOrderExcludesPrimary(t *testing.T) {
	r := NewRegistry("groq")
	r.Register(validConfig("groq"))
	r.Register(validConfig("openrouter"))
	r.Register(validConfig("together"))

	order := r.FallbackOrder()
	if len(order) != 2 || order[0] != "openrouter" || order[1] != "together" {
		t.Fatalf("unexpected fallback order: %v", order)
	}
}

func TestSwitchPrimary(t *testing.T) {
	r := NewRegistry("groq")
	r.Register(validConfig("groq"))
	r.Register(validConfig("together"))

	if r.SwitchPrimary("missing") {
		t.Fatal("switch to unregistered provider must fail")
	}
	if r.PrimaryID() != "groq" {
		t.Fatalf("failed switch must not mutate primary, got %q", r.PrimaryID())
	}

	if !r.SwitchPrimary("together") {
		t.Fatal("switch to registered provider must succeed")
	}
	primary, ok := r.Primary()
	if !ok || primary.ID != "together" {
		t.Fatalf("expected primary together, got %+v ok=%v", primary, ok)
	}
	order := r.FallbackOrder()
	if len(order) != 1 || order[0] != "groq" {
		t.Fatalf("expected groq demoted to fallback, got %v", order)
	}
}
