package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"companion-server/internal/domain/chat"
	"companion-server/internal/domain/provider"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/infrastructure/metrics"
)

const classificationPrompt = `You are an expert in analyzing the emotional well-being of elderly individuals through their text messages.

Analyze the following message from an elderly person and categorize their emotional state:

Categories:
- GREEN: Positive emotions (happy, content, grateful, excited, peaceful, joyful)
- AMBER: Neutral or mixed emotions (slight worry, minor complaints, general conversation, mild concerns)
- RED: Negative emotions requiring attention (sad, lonely, depressed, anxious, in pain, distressed, angry, hopeless)

User Message: "{USER_MESSAGE}"

Respond ONLY with valid JSON in this exact format:
{
  "category": "GREEN|AMBER|RED",
  "confidence": 0.85,
  "emotional_indicators": "specific words/phrases that indicate emotion",
  "concern_level": "Low|Medium|High",
  "reasoning": "brief explanation of the analysis"
}`

// ClassifierOptions tune the AI path; zero values take the defaults.
type ClassifierOptions struct {
	Timeout   time.Duration
	MaxTokens int
}

// Classifier produces a Result per message. The AI path uses the registry's
// primary provider; any failure there falls through to the keyword rules, so
// Classify itself never fails.
type Classifier struct {
	registry  *provider.Registry
	completer chat.Completer
	timeout   time.Duration
	maxTokens int
}

func NewClassifier(registry *provider.Registry, completer chat.Completer, opts ClassifierOptions) *Classifier {
	c := &Classifier{
		registry:  registry,
		completer: completer,
		timeout:   opts.Timeout,
		maxTokens: opts.MaxTokens,
	}
	if c.timeout <= 0 {
		c.timeout = 10 * time.Second
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 200
	}
	return c
}

// Classify analyzes a single message. Blank input short-circuits to AMBER with
// no outbound call.
func (c *Classifier) Classify(ctx context.Context, message string) Result {
	if strings.TrimSpace(message) == "" {
		return amber(0.5, "Empty message", "No content to analyze")
	}

	if cfg, ok := c.registry.Primary(); ok {
		result, err := c.classifyWithAI(ctx, cfg, message)
		if err == nil {
			metrics.SentimentTotal.WithLabelValues(string(result.Category), "ai").Inc()
			return result
		}
		log := logger.GetLogger()
		log.Warn().Err(err).Msg("AI sentiment analysis failed, using rule-based fallback")
	}

	result := classifyWithRules(message)
	metrics.SentimentTotal.WithLabelValues(string(result.Category), "rules").Inc()
	return result
}

func (c *Classifier) classifyWithAI(ctx context.Context, cfg provider.Config, message string) (Result, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := strings.Replace(classificationPrompt, "{USER_MESSAGE}", message, 1)
	reply, err := c.completer.Complete(callCtx, cfg, chat.CompletionRequest{
		Messages:    []chat.Message{{Role: chat.RoleUser, Content: prompt}},
		MaxTokens:   c.maxTokens,
		Temperature: 0.3, // lower temperature for consistent analysis
	})
	if err != nil {
		return Result{}, err
	}

	return parseClassification(reply)
}

var errNoJSON = errors.New("no JSON object in classification response")

type classificationPayload struct {
	Category            string  `json:"category"`
	Confidence          float64 `json:"confidence"`
	EmotionalIndicators string  `json:"emotional_indicators"`
	ConcernLevel        string  `json:"concern_level"`
	Reasoning           string  `json:"reasoning"`
}

// parseClassification tolerates code fences and surrounding prose: it parses
// the fenced block when present, otherwise the substring between the first "{"
// and the last "}".
func parseClassification(raw string) (Result, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return Result{}, err
	}

	var payload classificationPayload
	if err := json.Unmarshal([]byte(jsonStr), &payload); err != nil {
		return Result{}, err
	}

	category := Category(strings.ToUpper(strings.TrimSpace(payload.Category)))
	if !category.Valid() {
		return Result{}, errors.New("unknown sentiment category: " + payload.Category)
	}

	return newResult(category, payload.Confidence, payload.EmotionalIndicators, payload.Reasoning), nil
}

func extractJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			return strings.TrimSpace(s[:end]), nil
		}
		return "", errNoJSON
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return "", errNoJSON
	}
	return s[start : end+1], nil
}
