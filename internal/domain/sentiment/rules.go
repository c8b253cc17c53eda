package sentiment

import "strings"

// Keyword sets for the rule-based classifier. Order matters: RED is checked
// before GREEN before AMBER so a message carrying both a distress word and a
// positive word is flagged RED. Err toward flagging concern.
var (
	redKeywords = []string{
		"sad", "depressed", "lonely", "hurt", "pain", "angry",
		"upset", "crying", "hopeless", "terrible", "awful", "horrible",
		"can't take", "give up", "want to die", "hate", "miserable",
		"anxious", "worried sick", "panic", "scared", "terrified",
	}

	greenKeywords = []string{
		"happy", "good", "great", "wonderful", "excellent",
		"love", "joy", "grateful", "thankful", "blessed", "excited",
		"amazing", "beautiful", "perfect", "fantastic", "delighted",
		"content", "peaceful", "proud", "thrilled",
	}

	amberKeywords = []string{
		"okay", "fine", "alright", "tired", "busy",
		"not bad", "could be better", "so-so", "getting by",
		"little worried", "bit concerned", "not sure",
	}
)

// classifyWithRules is the deterministic fallback path.
func classifyWithRules(message string) Result {
	lower := strings.ToLower(message)

	if matchesAny(lower, redKeywords) {
		return red(0.8, foundKeywords(lower, redKeywords), "Negative emotional indicators detected")
	}
	if matchesAny(lower, greenKeywords) {
		return green(0.7, foundKeywords(lower, greenKeywords), "Positive emotional indicators detected")
	}
	if matchesAny(lower, amberKeywords) {
		return amber(0.6, foundKeywords(lower, amberKeywords), "Neutral or mild emotional indicators")
	}

	return amber(0.5, "General conversation", "No strong emotional indicators detected")
}

func matchesAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

func foundKeywords(text string, keywords []string) string {
	var found []string
	for _, k := range keywords {
		if strings.Contains(text, k) {
			found = append(found, k)
		}
	}
	return strings.Join(found, ", ")
}
