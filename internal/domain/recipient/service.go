package recipient

import (
	"context"
	"errors"
	"strings"
	"time"

	"companion-server/internal/utils/phone"
	"companion-server/internal/utils/platformerrors"
)

// ErrNotFound is returned by repositories when no recipient matches.
var ErrNotFound = errors.New("recipient not found")

// Service wraps the repository with validation and phone normalization.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Enroll registers a new recipient. Phone numbers are normalized before
// storage so webhook lookups match regardless of formatting.
func (s *Service) Enroll(ctx context.Context, r *Recipient) error {
	if err := validate(r); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			err.Error(), err, "8f0c2a64-5c1e-4f7d-9b3a-2d6e8a1c4b09")
	}

	r.PhoneNumber = phone.Normalize(r.PhoneNumber)
	r.CaretakerPhone = phone.Normalize(r.CaretakerPhone)
	if r.PreferredLanguage == "" {
		r.PreferredLanguage = "english"
	}
	r.Active = true

	if existing, err := s.repo.FindByPhone(ctx, r.PhoneNumber); err == nil && existing != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"recipient already enrolled", nil, "c4d9e7b1-2a8f-4e03-b6c5-7f1a9d3e8042")
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "enroll recipient")
	}
	return nil
}

// Update modifies an existing recipient, renormalizing phone numbers.
func (s *Service) Update(ctx context.Context, r *Recipient) error {
	if err := validate(r); err != nil {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			err.Error(), err, "1b7e4c92-8d3a-4f56-a0e9-6c2b5d8f1a37")
	}

	r.PhoneNumber = phone.Normalize(r.PhoneNumber)
	r.CaretakerPhone = phone.Normalize(r.CaretakerPhone)

	if err := s.repo.Update(ctx, r); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "update recipient")
	}
	return nil
}

// Remove deletes a recipient by id.
func (s *Service) Remove(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "delete recipient")
	}
	return nil
}

// Get fetches one recipient by id.
func (s *Service) Get(ctx context.Context, id uint) (*Recipient, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"recipient not found", err, "e2a6f9c8-7b14-4d5e-90a3-f6d218c4b753")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load recipient")
	}
	return r, nil
}

// Lookup resolves a recipient by phone number in any formatting.
func (s *Service) Lookup(ctx context.Context, phoneNumber string) (*Recipient, error) {
	r, err := s.repo.FindByPhone(ctx, phone.Normalize(phoneNumber))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
				"recipient not found", err, "5d8b3f27-4e9c-401a-b2d6-8a7c1e5f9034")
		}
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "lookup recipient")
	}
	return r, nil
}

// List returns every recipient.
func (s *Service) List(ctx context.Context) ([]Recipient, error) {
	recipients, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list recipients")
	}
	return recipients, nil
}

// ListActive returns recipients eligible for wellness checks.
func (s *Service) ListActive(ctx context.Context) ([]Recipient, error) {
	recipients, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list active recipients")
	}
	return recipients, nil
}

// ListDue returns active recipients whose last wellness check is missing or
// older than the cutoff.
func (s *Service) ListDue(ctx context.Context, before time.Time) ([]Recipient, error) {
	recipients, err := s.repo.FindDueForCheck(ctx, before)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "list due recipients")
	}
	return recipients, nil
}

// RecordCheckSent stamps the last wellness check time.
func (s *Service) RecordCheckSent(ctx context.Context, id uint) error {
	if err := s.repo.MarkCheckSent(ctx, id, time.Now()); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "record wellness check")
	}
	return nil
}

func validate(r *Recipient) error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.PhoneNumber) == "" {
		return errors.New("phone number is required")
	}
	return nil
}
