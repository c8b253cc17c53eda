package entities

import "time"

// SentimentRecord is the persisted form of one classification.
type SentimentRecord struct {
	ID                uint      `gorm:"primaryKey;autoIncrement"`
	PhoneNumber       string    `gorm:"type:varchar(32);index;not null"`
	UserMessage       string    `gorm:"type:text;not null"`
	AIResponse        string    `gorm:"type:text"`
	Category          string    `gorm:"type:varchar(8);index;not null"`
	Confidence        float64   `gorm:"not null"`
	Indicators        string    `gorm:"type:varchar(512)"`
	ConcernLevel      string    `gorm:"type:varchar(16)"`
	Reasoning         string    `gorm:"type:varchar(512)"`
	RequiresAttention bool      `gorm:"not null;default:false;index"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index"`
}

func (SentimentRecord) TableName() string {
	return "sentiment_records"
}
