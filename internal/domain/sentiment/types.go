// Package sentiment classifies a single user message into a three-level
// emotional category, via an AI call with a deterministic rule-based fallback.
package sentiment

// Category is the three-level sentiment scale.
type Category string

const (
	CategoryGreen Category = "GREEN" // positive
	CategoryAmber Category = "AMBER" // neutral / mixed
	CategoryRed   Category = "RED"   // concerning, needs attention
)

// Valid reports whether the category is one of the three known values.
func (c Category) Valid() bool {
	switch c {
	case CategoryGreen, CategoryAmber, CategoryRed:
		return true
	}
	return false
}

// Concerning reports whether the category counts toward escalation.
func (c Category) Concerning() bool {
	return c == CategoryAmber || c == CategoryRed
}

// ConcernLevel derives 1:1 from the category.
func (c Category) ConcernLevel() string {
	switch c {
	case CategoryGreen:
		return "Low"
	case CategoryRed:
		return "High"
	default:
		return "Medium"
	}
}

// Result is one classification outcome. Produced fresh per message, never
// mutated.
type Result struct {
	Category     Category
	Confidence   float64 // 0..1
	Indicators   string  // words/phrases that drove the classification
	ConcernLevel string
	Reasoning    string
}

func green(confidence float64, indicators, reasoning string) Result {
	return newResult(CategoryGreen, confidence, indicators, reasoning)
}

func amber(confidence float64, indicators, reasoning string) Result {
	return newResult(CategoryAmber, confidence, indicators, reasoning)
}

func red(confidence float64, indicators, reasoning string) Result {
	return newResult(CategoryRed, confidence, indicators, reasoning)
}

func newResult(category Category, confidence float64, indicators, reasoning string) Result {
	return Result{
		Category:     category,
		Confidence:   confidence,
		Indicators:   indicators,
		ConcernLevel: category.ConcernLevel(),
		Reasoning:    reasoning,
	}
}
