package sentiment

import (
	"context"
	"time"
)

// Record persists one classification alongside the exchanged messages.
type Record struct {
	ID                uint
	PhoneNumber       string
	UserMessage       string
	AIResponse        string
	Category          Category
	Confidence        float64
	Indicators        string
	ConcernLevel      string
	Reasoning         string
	RequiresAttention bool
	CreatedAt         time.Time
}

// NewRecord builds a Record from a classification result.
func NewRecord(phoneNumber, userMessage, aiResponse string, result Result) Record {
	return Record{
		PhoneNumber:       phoneNumber,
		UserMessage:       userMessage,
		AIResponse:        aiResponse,
		Category:          result.Category,
		Confidence:        result.Confidence,
		Indicators:        result.Indicators,
		ConcernLevel:      result.ConcernLevel,
		Reasoning:         result.Reasoning,
		RequiresAttention: result.Category == CategoryRed,
	}
}

// CategoryCount is one row of a per-category aggregation.
type CategoryCount struct {
	Category Category
	Count    int64
}

// RecordRepository abstracts sentiment record persistence.
type RecordRepository interface {
	Save(ctx context.Context, record *Record) error
	FindByPhone(ctx context.Context, phoneNumber string) ([]Record, error)
	FindByPhoneSince(ctx context.Context, phoneNumber string, since time.Time) ([]Record, error)
	FindRequiringAttention(ctx context.Context) ([]Record, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByCategorySince(ctx context.Context, since time.Time) ([]CategoryCount, error)
	PhonesWithRedSince(ctx context.Context, since time.Time) ([]string, error)
}
