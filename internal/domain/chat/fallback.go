package chat

import (
	"strings"
	"unicode"

	"companion-server/internal/infrastructure/metrics"
)

// RuleResponder is the deterministic last-resort reply source. It detects the
// message language by Unicode range or keyword heuristics and picks a
// templated reply from an ordered keyword table. It never fails.
type RuleResponder struct {
	languages []languageRules
	fallback  languageRules
}

type languageRules struct {
	name    string
	matches func(msg, lower string) bool
	replies []keywordReply
	generic string
}

// keywordReply maps trigger words or phrases to a canned reply. Triggers are
// matched at word boundaries against the lower-cased message for Latin-script
// languages ("hi" must not fire on "watching") and as substrings against the
// raw message otherwise.
type keywordReply struct {
	keywords []string
	reply    string
}

func inRange(msg string, lo, hi rune) bool {
	for _, r := range msg {
		if r >= lo && r <= hi {
			return true
		}
	}
	return false
}

func containsAny(text string, keywords ...string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func containsWord(text string, keywords ...string) bool {
	padded := " " + strings.Join(strings.FieldsFunc(text, notWordRune), " ") + " "
	for _, k := range keywords {
		if strings.Contains(padded, " "+k+" ") {
			return true
		}
	}
	return false
}

func notWordRune(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r)
}

// NewRuleResponder builds the multilingual reply table (Tamil, Chinese, Malay,
// Hindi, English default).
func NewRuleResponder() *RuleResponder {
	return &RuleResponder{
		languages: []languageRules{
			{
				name:    "tamil",
				matches: func(msg, _ string) bool { return inRange(msg, 0x0B80, 0x0BFF) },
				replies: []keywordReply{
					{keywords: []string{"வணக்கம்"}, reply: "வணக்கம்! 🌺 நீங்கள் எப்படி இருக்கிறீர்கள்? உங்களிடம் பேச மகிழ்ச்சி!"},
				},
				generic: "நன்றி! 🌺 நான் உங்களுடன் பேச இங்கே இருக்கிறேன். இன்று நீங்கள் எப்படி உணர்கிறீர்கள்?",
			},
			{
				name:    "chinese",
				matches: func(msg, _ string) bool { return inRange(msg, 0x4E00, 0x9FFF) },
				replies: []keywordReply{
					{keywords: []string{"你好", "您好"}, reply: "你好！🌺 您今天好吗？很高兴收到您的消息！"},
				},
				generic: "谢谢您的分享！🌺 我在这里陪您聊天。您今天感觉怎么样？",
			},
			{
				name:    "malay",
				matches: func(_, lower string) bool { return containsWord(lower, "apa", "saya", "terima kasih") },
				replies: []keywordReply{
					{keywords: []string{"apa khabar", "hello"}, reply: "Hai! 🌺 Apa khabar hari ini? Saya gembira dapat bercakap dengan awak!"},
				},
				generic: "Terima kasih kerana berkongsi! 🌺 Saya di sini untuk berbual. Bagaimana perasaan awak hari ini?",
			},
			{
				name:    "hindi",
				matches: func(msg, _ string) bool { return inRange(msg, 0x0900, 0x097F) },
				replies: []keywordReply{
					{keywords: []string{"नमस्ते"}, reply: "नमस्ते! 🌺 आप कैसे हैं? आपसे बात करके खुशी हुई!"},
				},
				generic: "धन्यवाद! 🌺 मैं आपसे बात करने के लिए यहां हूं। आज आप कैसा महसूस कर रहे हैं?",
			},
		},
		fallback: languageRules{
			name:    "english",
			matches: func(_, _ string) bool { return true },
			replies: []keywordReply{
				{keywords: []string{"hello", "hi"}, reply: "Hello! 🌺 How are you doing today? I'm so happy to hear from you!"},
				{keywords: []string{"good", "fine", "ok"}, reply: "That's wonderful to hear! I'm so glad you're doing well. Tell me more about your day!"},
				{keywords: []string{"tired", "sad", "not good"}, reply: "Oh dear, I'm sorry to hear that. I'm here for you. Would you like to tell me what's on your mind?"},
				{keywords: []string{"thank"}, reply: "You're so welcome! It's my pleasure to chat with you. How else can I brighten your day?"},
				{keywords: []string{"weather"}, reply: "I hope the weather is lovely where you are! Are you able to enjoy some fresh air today?"},
				{keywords: []string{"food", "eat"}, reply: "I hope you're eating well! Have you had something delicious today? Taking care of yourself is so important."},
			},
			generic: "Thank you for sharing that with me! I'm here to listen and chat with you. How are you feeling today?",
		},
	}
}

// Respond returns a templated reply for the message. Always non-empty.
func (r *RuleResponder) Respond(userMessage string) string {
	lower := strings.ToLower(userMessage)

	lang := r.fallback
	for _, candidate := range r.languages {
		if candidate.matches(userMessage, lower) {
			lang = candidate
			break
		}
	}
	metrics.FallbackResponsesTotal.WithLabelValues(lang.name).Inc()

	// Latin-script keyword tables match whole words case-insensitively; the
	// rest match substrings of the raw message.
	match := func(candidate keywordReply) bool {
		if lang.name == "english" || lang.name == "malay" {
			return containsWord(lower, candidate.keywords...)
		}
		return containsAny(userMessage, candidate.keywords...)
	}
	for _, candidate := range lang.replies {
		if match(candidate) {
			return candidate.reply
		}
	}
	return lang.generic
}
