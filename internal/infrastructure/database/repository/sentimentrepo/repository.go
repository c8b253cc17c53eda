// Package sentimentrepo persists sentiment records with GORM.
package sentimentrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "companion-server/internal/domain/sentiment"
	"companion-server/internal/infrastructure/database/entities"
	"companion-server/internal/utils/platformerrors"
)

// Repository implements sentiment.RecordRepository on PostgreSQL.
type Repository struct {
	db *gorm.DB
}

var _ domain.RecordRepository = (*Repository)(nil)

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Save(ctx context.Context, record *domain.Record) error {
	entity := entities.SentimentRecord{
		PhoneNumber:       record.PhoneNumber,
		UserMessage:       record.UserMessage,
		AIResponse:        record.AIResponse,
		Category:          string(record.Category),
		Confidence:        record.Confidence,
		Indicators:        record.Indicators,
		ConcernLevel:      record.ConcernLevel,
		Reasoning:         record.Reasoning,
		RequiresAttention: record.RequiresAttention,
	}
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to save sentiment record",
			err,
			"b7e3f9a2-1c5d-4086-9e4b-8d2a6f5c1370",
		)
	}
	record.ID = entity.ID
	record.CreatedAt = entity.CreatedAt
	return nil
}

func (r *Repository) FindByPhone(ctx context.Context, phoneNumber string) ([]domain.Record, error) {
	var rows []entities.SentimentRecord
	err := r.db.WithContext(ctx).
		Where("phone_number = ?", phoneNumber).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load sentiment records",
			err,
			"5a8c2f4e-9b7d-4163-80a5-3e6f1d9c8b42",
		)
	}
	return mapRows(rows), nil
}

func (r *Repository) FindByPhoneSince(ctx context.Context, phoneNumber string, since time.Time) ([]domain.Record, error) {
	var rows []entities.SentimentRecord
	err := r.db.WithContext(ctx).
		Where("phone_number = ? AND created_at >= ?", phoneNumber, since).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load recent sentiment records",
			err,
			"e9d1b6f3-2a8c-4745-b0e9-7c5f3a1d8264",
		)
	}
	return mapRows(rows), nil
}

func (r *Repository) FindRequiringAttention(ctx context.Context) ([]domain.Record, error) {
	var rows []entities.SentimentRecord
	err := r.db.WithContext(ctx).
		Where("requires_attention = ?", true).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to load records requiring attention",
			err,
			"1f6a3c8d-5e2b-4970-a4d1-9b8e2f7c5036",
		)
	}
	return mapRows(rows), nil
}

func (r *Repository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.SentimentRecord{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return 0, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count sentiment records",
			err,
			"7c2e8b5f-4a1d-4396-8f7c-0d3a6e9b1548",
		)
	}
	return count, nil
}

func (r *Repository) CountByCategorySince(ctx context.Context, since time.Time) ([]domain.CategoryCount, error) {
	var rows []struct {
		Category string
		Count    int64
	}
	err := r.db.WithContext(ctx).Model(&entities.SentimentRecord{}).
		Select("category, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to count sentiment records by category",
			err,
			"4d9f1a7e-8c3b-4052-b6a4-2e5c8f1d7390",
		)
	}

	out := make([]domain.CategoryCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CategoryCount{Category: domain.Category(row.Category), Count: row.Count})
	}
	return out, nil
}

func (r *Repository) PhonesWithRedSince(ctx context.Context, since time.Time) ([]string, error) {
	var phones []string
	err := r.db.WithContext(ctx).Model(&entities.SentimentRecord{}).
		Distinct("phone_number").
		Where("category = ? AND created_at >= ?", string(domain.CategoryRed), since).
		Pluck("phone_number", &phones).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to find phones with red sentiment",
			err,
			"a8b4d2f6-3e7c-4518-90b8-6f1e5c9a2473",
		)
	}
	return phones, nil
}

func mapRows(rows []entities.SentimentRecord) []domain.Record {
	out := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.Record{
			ID:                row.ID,
			PhoneNumber:       row.PhoneNumber,
			UserMessage:       row.UserMessage,
			AIResponse:        row.AIResponse,
			Category:          domain.Category(row.Category),
			Confidence:        row.Confidence,
			Indicators:        row.Indicators,
			ConcernLevel:      row.ConcernLevel,
			Reasoning:         row.Reasoning,
			RequiresAttention: row.RequiresAttention,
			CreatedAt:         row.CreatedAt,
		})
	}
	return out
}
