package entities

import "time"

// Recipient is the persisted form of an enrolled user.
type Recipient struct {
	ID                uint   `gorm:"primaryKey;autoIncrement"`
	Name              string `gorm:"type:varchar(128);not null"`
	DisplayName       string `gorm:"type:varchar(128)"`
	PhoneNumber       string `gorm:"type:varchar(32);uniqueIndex;not null"`
	CaretakerName     string `gorm:"type:varchar(128)"`
	CaretakerPhone    string `gorm:"type:varchar(32)"`
	PreferredLanguage string `gorm:"type:varchar(32)"`
	Topics            string `gorm:"type:varchar(512)"`
	Active            bool   `gorm:"not null;default:true;index"`
	LastCheckSentAt   *time.Time
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (Recipient) TableName() string {
	return "recipients"
}
