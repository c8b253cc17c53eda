// Package recipient manages the elderly users the companion talks to and
// their caretaker contacts.
package recipient

import (
	"context"
	"time"
)

// Recipient is one enrolled user.
type Recipient struct {
	ID                uint
	Name              string
	DisplayName       string
	PhoneNumber       string // normalized, digits only
	CaretakerName     string
	CaretakerPhone    string // normalized, digits only
	PreferredLanguage string
	Topics            string // comma separated conversation interests
	Active            bool
	LastCheckSentAt   *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DisplayOrName prefers the informal display name for message templates.
func (r Recipient) DisplayOrName() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	return r.Name
}

// Repository is the persistence port for recipients.
type Repository interface {
	Create(ctx context.Context, r *Recipient) error
	Update(ctx context.Context, r *Recipient) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*Recipient, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*Recipient, error)
	FindAll(ctx context.Context) ([]Recipient, error)
	FindActive(ctx context.Context) ([]Recipient, error)
	FindDueForCheck(ctx context.Context, before time.Time) ([]Recipient, error)
	MarkCheckSent(ctx context.Context, id uint, at time.Time) error
}
