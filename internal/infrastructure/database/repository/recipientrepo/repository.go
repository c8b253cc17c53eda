// Package recipientrepo persists recipients with GORM.
package recipientrepo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "companion-server/internal/domain/recipient"
	"companion-server/internal/infrastructure/database/entities"
	"companion-server/internal/utils/platformerrors"
)

// Repository implements recipient.Repository on PostgreSQL.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rcpt *domain.Recipient) error {
	entity := toEntity(rcpt)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create recipient",
			err,
			"3f7a1b5c-9d2e-4a68-b0c4-5e8f2d7a1934",
		)
	}
	rcpt.ID = entity.ID
	rcpt.CreatedAt = entity.CreatedAt
	rcpt.UpdatedAt = entity.UpdatedAt
	return nil
}

func (r *Repository) Update(ctx context.Context, rcpt *domain.Recipient) error {
	entity := toEntity(rcpt)
	result := r.db.WithContext(ctx).Model(&entities.Recipient{}).
		Where("id = ?", rcpt.ID).
		Updates(map[string]interface{}{
			"name":               entity.Name,
			"display_name":       entity.DisplayName,
			"phone_number":       entity.PhoneNumber,
			"caretaker_name":     entity.CaretakerName,
			"caretaker_phone":    entity.CaretakerPhone,
			"preferred_language": entity.PreferredLanguage,
			"topics":             entity.Topics,
			"active":             entity.Active,
		})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update recipient",
			result.Error,
			"6b9d4e72-1f8a-4c35-a0d7-3e5c8b2f9641",
		)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&entities.Recipient{}, id)
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete recipient",
			result.Error,
			"a2c5d8f1-7b4e-4963-8d0a-1f6e3b9c5270",
		)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*domain.Recipient, error) {
	var entity entities.Recipient
	err := r.db.WithContext(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find recipient by id",
			err,
			"d4f8b2a6-3c7e-4051-9b8d-6a2e5f1c8397",
		)
	}
	rcpt := fromEntity(entity)
	return &rcpt, nil
}

func (r *Repository) FindByPhone(ctx context.Context, phoneNumber string) (*domain.Recipient, error) {
	var entity entities.Recipient
	err := r.db.WithContext(ctx).Where("phone_number = ?", phoneNumber).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find recipient by phone",
			err,
			"8e1c4a79-5d2b-4f06-a3c8-9b7d2e5f1648",
		)
	}
	rcpt := fromEntity(entity)
	return &rcpt, nil
}

func (r *Repository) FindAll(ctx context.Context) ([]domain.Recipient, error) {
	var rows []entities.Recipient
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list recipients",
			err,
			"f5a2d7c4-8b1e-4639-b0f3-2c6e9d4a8157",
		)
	}
	return mapEntities(rows), nil
}

func (r *Repository) FindActive(ctx context.Context) ([]domain.Recipient, error) {
	var rows []entities.Recipient
	if err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list active recipients",
			err,
			"2b8e5f1a-4d7c-4392-a6b0-8f3c1e9d5724",
		)
	}
	return mapEntities(rows), nil
}

func (r *Repository) FindDueForCheck(ctx context.Context, before time.Time) ([]domain.Recipient, error) {
	var rows []entities.Recipient
	err := r.db.WithContext(ctx).
		Where("active = ? AND (last_check_sent_at IS NULL OR last_check_sent_at < ?)", true, before).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list recipients due for a check",
			err,
			"7d3a9c25-1e8f-4b60-94d7-6c2b5f8e1a39",
		)
	}
	return mapEntities(rows), nil
}

func (r *Repository) MarkCheckSent(ctx context.Context, id uint, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&entities.Recipient{}).
		Where("id = ?", id).
		Update("last_check_sent_at", at).Error
	if err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to mark wellness check sent",
			err,
			"9c4f2e81-6a3d-4b57-80c9-5d1f8b3e6a42",
		)
	}
	return nil
}

func toEntity(rcpt *domain.Recipient) entities.Recipient {
	return entities.Recipient{
		ID:                rcpt.ID,
		Name:              rcpt.Name,
		DisplayName:       rcpt.DisplayName,
		PhoneNumber:       rcpt.PhoneNumber,
		CaretakerName:     rcpt.CaretakerName,
		CaretakerPhone:    rcpt.CaretakerPhone,
		PreferredLanguage: rcpt.PreferredLanguage,
		Topics:            rcpt.Topics,
		Active:            rcpt.Active,
		LastCheckSentAt:   rcpt.LastCheckSentAt,
	}
}

func fromEntity(entity entities.Recipient) domain.Recipient {
	return domain.Recipient{
		ID:                entity.ID,
		Name:              entity.Name,
		DisplayName:       entity.DisplayName,
		PhoneNumber:       entity.PhoneNumber,
		CaretakerName:     entity.CaretakerName,
		CaretakerPhone:    entity.CaretakerPhone,
		PreferredLanguage: entity.PreferredLanguage,
		Topics:            entity.Topics,
		Active:            entity.Active,
		LastCheckSentAt:   entity.LastCheckSentAt,
		CreatedAt:         entity.CreatedAt,
		UpdatedAt:         entity.UpdatedAt,
	}
}

func mapEntities(rows []entities.Recipient) []domain.Recipient {
	out := make([]domain.Recipient, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromEntity(row))
	}
	return out
}
