package sentiment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion-server/internal/domain/chat"
	"companion-server/internal/domain/provider"
)

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _ provider.Config, _ chat.CompletionRequest) (string, error) {
	s.calls++
	return s.reply, s.err
}

func testRegistry(t *testing.T) *provider.Registry {
	t.Helper()
	registry := provider.NewRegistry("groq")
	registry.Register(provider.Config{
		ID:      "groq",
		BaseURL: "https://api.groq.com/openai/v1",
		APIKey:  "gsk_test",
		Model:   "llama-3.3-70b-versatile",
		Dialect: provider.DialectOpenAICompatible,
	})
	return registry
}

func TestClassifyBlankMessageSkipsProviders(t *testing.T) {
	completer := &stubCompleter{reply: `{"category":"GREEN"}`}
	classifier := NewClassifier(testRegistry(t), completer, ClassifierOptions{})

	result := classifier.Classify(context.Background(), "   ")

	assert.Equal(t, CategoryAmber, result.Category)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, "Empty message", result.Indicators)
	assert.Equal(t, 0, completer.calls, "blank input must not reach a provider")
}

func TestClassifyUsesAIResult(t *testing.T) {
	completer := &stubCompleter{
		reply: `{"category":"RED","confidence":0.92,"emotional_indicators":"lonely, crying","concern_level":"High","reasoning":"clear distress"}`,
	}
	classifier := NewClassifier(testRegistry(t), completer, ClassifierOptions{})

	result := classifier.Classify(context.Background(), "I have been crying all day")

	assert.Equal(t, CategoryRed, result.Category)
	assert.Equal(t, 0.92, result.Confidence)
	assert.Equal(t, "lonely, crying", result.Indicators)
	assert.Equal(t, "High", result.ConcernLevel)
}

func TestClassifyFallsBackToRulesOnProviderError(t *testing.T) {
	completer := &stubCompleter{err: errors.New("provider down")}
	classifier := NewClassifier(testRegistry(t), completer, ClassifierOptions{})

	result := classifier.Classify(context.Background(), "I feel so lonely today")

	assert.Equal(t, CategoryRed, result.Category)
	assert.Equal(t, 0.8, result.Confidence)
	assert.Contains(t, result.Indicators, "lonely")
}

func TestClassifyFallsBackToRulesOnUnparsableReply(t *testing.T) {
	completer := &stubCompleter{reply: "I cannot classify this message."}
	classifier := NewClassifier(testRegistry(t), completer, ClassifierOptions{})

	result := classifier.Classify(context.Background(), "Feeling grateful for my family")

	assert.Equal(t, CategoryGreen, result.Category)
	assert.Equal(t, 0.7, result.Confidence)
}

func TestClassifyNoPrimaryUsesRules(t *testing.T) {
	registry := provider.NewRegistry("groq")
	completer := &stubCompleter{reply: `{"category":"GREEN"}`}
	classifier := NewClassifier(registry, completer, ClassifierOptions{})

	result := classifier.Classify(context.Background(), "hello there")

	assert.Equal(t, CategoryAmber, result.Category)
	assert.Equal(t, 0, completer.calls)
}

func TestParseClassificationCodeFence(t *testing.T) {
	raw := "Here is my analysis:\n```json\n{\"category\":\"green\",\"confidence\":0.8,\"emotional_indicators\":\"happy\",\"concern_level\":\"Low\",\"reasoning\":\"positive\"}\n```\nHope that helps."

	result, err := parseClassification(raw)

	require.NoError(t, err)
	assert.Equal(t, CategoryGreen, result.Category)
	assert.Equal(t, "Low", result.ConcernLevel)
}

func TestParseClassificationSurroundingProse(t *testing.T) {
	raw := `Sure! {"category":"AMBER","confidence":0.6,"emotional_indicators":"tired","concern_level":"Medium","reasoning":"mild fatigue"} Let me know if you need more.`

	result, err := parseClassification(raw)

	require.NoError(t, err)
	assert.Equal(t, CategoryAmber, result.Category)
	assert.Equal(t, "tired", result.Indicators)
}

func TestParseClassificationRejectsUnknownCategory(t *testing.T) {
	_, err := parseClassification(`{"category":"PURPLE","confidence":0.9}`)
	assert.Error(t, err)
}

func TestParseClassificationNoJSON(t *testing.T) {
	_, err := parseClassification("no structured output at all")
	assert.ErrorIs(t, err, errNoJSON)
}

func TestRulesRedWinsOverGreen(t *testing.T) {
	result := classifyWithRules("I am happy but so lonely")

	assert.Equal(t, CategoryRed, result.Category)
	assert.Equal(t, 0.8, result.Confidence)
	assert.Contains(t, result.Indicators, "lonely")
}

func TestRulesCaseInsensitive(t *testing.T) {
	result := classifyWithRules("FEELING WONDERFUL TODAY")
	assert.Equal(t, CategoryGreen, result.Category)
}

func TestRulesAmberKeywords(t *testing.T) {
	result := classifyWithRules("I am a bit concerned about my knee")

	assert.Equal(t, CategoryAmber, result.Category)
	assert.Equal(t, 0.6, result.Confidence)
}

func TestRulesDefaultAmber(t *testing.T) {
	result := classifyWithRules("the weather changed yesterday")

	assert.Equal(t, CategoryAmber, result.Category)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, "General conversation", result.Indicators)
}
