package sentiment

import (
	"context"
	"time"

	"companion-server/internal/utils/platformerrors"
)

// Overview aggregates the last 24 hours of classifications.
type Overview struct {
	TotalConversations int64              `json:"total_conversations"`
	SentimentCounts    map[Category]int64 `json:"sentiment_counts"`
	Percentages        map[string]float64 `json:"percentages,omitempty"`
	UsersNeedingHelp   []string           `json:"users_needing_attention"`
	AttentionCount     int                `json:"attention_count"`
}

// Trend summarizes one user's last seven days.
type Trend struct {
	TotalMessages    int                `json:"total_messages"`
	CurrentSentiment Category           `json:"current_sentiment,omitempty"`
	LatestConfidence float64            `json:"latest_confidence,omitempty"`
	LatestIndicators string             `json:"latest_indicators,omitempty"`
	WeekCounts       map[Category]int64 `json:"week_sentiment_counts,omitempty"`
	ConcernAlert     bool               `json:"concern_alert"`
	RedConversations int64              `json:"red_conversations_count,omitempty"`
}

// Service wraps the record repository with the monitoring queries exposed over
// HTTP. Classification itself lives on Classifier.
type Service struct {
	records RecordRepository
}

func NewService(records RecordRepository) *Service {
	return &Service{records: records}
}

// History returns all records for a user, newest first.
func (s *Service) History(ctx context.Context, phoneNumber string) ([]Record, error) {
	records, err := s.records.FindByPhone(ctx, phoneNumber)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load sentiment history")
	}
	return records, nil
}

// RecentHistory returns the last 24 hours of records for a user.
func (s *Service) RecentHistory(ctx context.Context, phoneNumber string) ([]Record, error) {
	since := time.Now().Add(-24 * time.Hour)
	records, err := s.records.FindByPhoneSince(ctx, phoneNumber, since)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load recent sentiment history")
	}
	return records, nil
}

// RequiringAttention returns all RED records, newest first.
func (s *Service) RequiringAttention(ctx context.Context) ([]Record, error) {
	records, err := s.records.FindRequiringAttention(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load records requiring attention")
	}
	return records, nil
}

// BuildOverview assembles the 24h dashboard summary.
func (s *Service) BuildOverview(ctx context.Context) (*Overview, error) {
	since := time.Now().Add(-24 * time.Hour)

	total, err := s.records.CountSince(ctx, since)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count recent sentiments")
	}

	counts := map[Category]int64{CategoryGreen: 0, CategoryAmber: 0, CategoryRed: 0}
	byCategory, err := s.records.CountByCategorySince(ctx, since)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "count sentiments by category")
	}
	for _, row := range byCategory {
		counts[row.Category] = row.Count
	}

	phones, err := s.records.PhonesWithRedSince(ctx, since)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "find users needing attention")
	}

	overview := &Overview{
		TotalConversations: total,
		SentimentCounts:    counts,
		UsersNeedingHelp:   phones,
		AttentionCount:     len(phones),
	}
	if total > 0 {
		overview.Percentages = map[string]float64{
			"green_percentage": float64(counts[CategoryGreen]) * 100.0 / float64(total),
			"amber_percentage": float64(counts[CategoryAmber]) * 100.0 / float64(total),
			"red_percentage":   float64(counts[CategoryRed]) * 100.0 / float64(total),
		}
	}
	return overview, nil
}

// BuildTrend assembles a user's 7-day trend. The numeric trend score used by
// reporting stays outside this service.
func (s *Service) BuildTrend(ctx context.Context, phoneNumber string) (*Trend, error) {
	since := time.Now().Add(-7 * 24 * time.Hour)
	records, err := s.records.FindByPhoneSince(ctx, phoneNumber, since)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "load sentiment trend")
	}

	trend := &Trend{TotalMessages: len(records)}
	if len(records) == 0 {
		return trend, nil
	}

	latest := records[0]
	trend.CurrentSentiment = latest.Category
	trend.LatestConfidence = latest.Confidence
	trend.LatestIndicators = latest.Indicators

	weekCounts := map[Category]int64{CategoryGreen: 0, CategoryAmber: 0, CategoryRed: 0}
	for _, r := range records {
		weekCounts[r.Category]++
	}
	trend.WeekCounts = weekCounts

	if weekCounts[CategoryRed] > 0 {
		trend.ConcernAlert = true
		trend.RedConversations = weekCounts[CategoryRed]
	}
	return trend, nil
}
