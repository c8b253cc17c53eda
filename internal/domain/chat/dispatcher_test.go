package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"companion-server/internal/domain/provider"
)

type scriptedCompleter struct {
	replies map[string]string // provider id -> reply
	errs    map[string]error  // provider id -> error
	called  []string
}

func (s *scriptedCompleter) Complete(_ context.Context, cfg provider.Config, _ CompletionRequest) (string, error) {
	s.called = append(s.called, cfg.ID)
	if err, ok := s.errs[cfg.ID]; ok {
		return "", err
	}
	return s.replies[cfg.ID], nil
}

func threeProviderRegistry() *provider.Registry {
	registry := provider.NewRegistry("groq")
	for _, id := range []string{"groq", "openrouter", "together"} {
		registry.Register(provider.Config{
			ID:      id,
			BaseURL: "https://" + id + ".example.com/v1",
			APIKey:  "sk-" + id,
			Model:   "test-model",
			Dialect: provider.DialectOpenAICompatible,
		})
	}
	return registry
}

func TestGeneratePrimarySucceeds(t *testing.T) {
	completer := &scriptedCompleter{replies: map[string]string{"groq": "hello from groq"}}
	d := NewDispatcher(threeProviderRegistry(), completer, NewRuleResponder(), DispatcherOptions{FallbackEnabled: true})

	reply := d.Generate(context.Background(), nil, "hello")

	assert.Equal(t, "hello from groq", reply)
	assert.Equal(t, []string{"groq"}, completer.called)
}

func TestGenerateFailsOverInOrder(t *testing.T) {
	completer := &scriptedCompleter{
		errs:    map[string]error{"groq": errors.New("rate limited"), "openrouter": errors.New("timeout")},
		replies: map[string]string{"together": "hello from together"},
	}
	d := NewDispatcher(threeProviderRegistry(), completer, NewRuleResponder(), DispatcherOptions{FallbackEnabled: true})

	reply := d.Generate(context.Background(), nil, "hello")

	assert.Equal(t, "hello from together", reply)
	assert.Equal(t, []string{"groq", "openrouter", "together"}, completer.called)
}

func TestGenerateEmptyReplyTriggersFailover(t *testing.T) {
	completer := &scriptedCompleter{
		replies: map[string]string{"groq": "   ", "openrouter": "real reply"},
	}
	d := NewDispatcher(threeProviderRegistry(), completer, NewRuleResponder(), DispatcherOptions{FallbackEnabled: true})

	reply := d.Generate(context.Background(), nil, "hello")

	assert.Equal(t, "real reply", reply)
}

func TestGenerateAllProvidersFailUsesRules(t *testing.T) {
	down := errors.New("down")
	completer := &scriptedCompleter{
		errs: map[string]error{"groq": down, "openrouter": down, "together": down},
	}
	d := NewDispatcher(threeProviderRegistry(), completer, NewRuleResponder(), DispatcherOptions{FallbackEnabled: true})

	reply := d.Generate(context.Background(), nil, "hello there")

	assert.Equal(t, "Hello! 🌺 How are you doing today? I'm so happy to hear from you!", reply)
}

func TestGenerateFallbackDisabledSkipsSecondaries(t *testing.T) {
	completer := &scriptedCompleter{
		errs:    map[string]error{"groq": errors.New("down")},
		replies: map[string]string{"openrouter": "should not be used"},
	}
	d := NewDispatcher(threeProviderRegistry(), completer, NewRuleResponder(), DispatcherOptions{FallbackEnabled: false})

	reply := d.Generate(context.Background(), nil, "thank you")

	assert.Equal(t, []string{"groq"}, completer.called)
	assert.Equal(t, "You're so welcome! It's my pleasure to chat with you. How else can I brighten your day?", reply)
}

func TestGenerateNoProvidersUsesRules(t *testing.T) {
	registry := provider.NewRegistry("groq")
	completer := &scriptedCompleter{}
	d := NewDispatcher(registry, completer, NewRuleResponder(), DispatcherOptions{FallbackEnabled: true})

	reply := d.Generate(context.Background(), nil, "random words here")

	assert.Empty(t, completer.called)
	assert.NotEmpty(t, reply)
}

func TestGeneratePrependsSystemPromptAndHistory(t *testing.T) {
	var captured CompletionRequest
	completer := completerFunc(func(_ context.Context, _ provider.Config, req CompletionRequest) (string, error) {
		captured = req
		return "ok", nil
	})
	d := NewDispatcher(threeProviderRegistry(), completer, NewRuleResponder(), DispatcherOptions{})

	history := []Message{
		{Role: RoleUser, Content: "earlier question"},
		{Role: RoleAssistant, Content: "earlier answer"},
	}
	d.Generate(context.Background(), history, "new question")

	assert.Len(t, captured.Messages, 4)
	assert.Equal(t, RoleSystem, captured.Messages[0].Role)
	assert.Equal(t, "earlier question", captured.Messages[1].Content)
	assert.Equal(t, "new question", captured.Messages[3].Content)
	assert.Equal(t, 500, captured.MaxTokens)
	assert.InDelta(t, 0.8, float64(captured.Temperature), 0.001)
}

type completerFunc func(ctx context.Context, cfg provider.Config, req CompletionRequest) (string, error)

func (f completerFunc) Complete(ctx context.Context, cfg provider.Config, req CompletionRequest) (string, error) {
	return f(ctx, cfg, req)
}

func TestRuleResponderLanguageDetection(t *testing.T) {
	rules := NewRuleResponder()

	cases := []struct {
		name    string
		message string
		want    string
	}{
		{"tamil greeting", "வணக்கம்", "வணக்கம்! 🌺 நீங்கள் எப்படி இருக்கிறீர்கள்? உங்களிடம் பேச மகிழ்ச்சி!"},
		{"chinese greeting", "你好，我很好", "你好！🌺 您今天好吗？很高兴收到您的消息！"},
		{"chinese generic", "今天天气很冷", "谢谢您的分享！🌺 我在这里陪您聊天。您今天感觉怎么样？"},
		{"malay greeting", "Apa khabar?", "Hai! 🌺 Apa khabar hari ini? Saya gembira dapat bercakap dengan awak!"},
		{"hindi greeting", "नमस्ते जी", "नमस्ते! 🌺 आप कैसे हैं? आपसे बात करके खुशी हुई!"},
		{"english food", "I had good food today", "That's wonderful to hear! I'm so glad you're doing well. Tell me more about your day!"},
		{"english greeting word", "Hi there!", "Hello! 🌺 How are you doing today? I'm so happy to hear from you!"},
		{"english generic", "just watching television", "Thank you for sharing that with me! I'm here to listen and chat with you. How are you feeling today?"},
		{"no substring match inside words", "I am unthinking tonight", "Thank you for sharing that with me! I'm here to listen and chat with you. How are you feeling today?"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, rules.Respond(tc.message))
		})
	}
}
