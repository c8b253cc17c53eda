// Package scheduler runs the recurring background jobs: conversation expiry
// and the wellness check rounds.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/mileusna/crontab"

	"companion-server/internal/config"
	"companion-server/internal/domain/conversation"
	"companion-server/internal/domain/wellness"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/utils/platformerrors"
)

const jobTimeout = 10 * time.Minute

type Scheduler struct {
	ctab          *crontab.Crontab
	conversations *conversation.Store
	wellness      *wellness.Service
}

func NewScheduler(conversations *conversation.Store, wellnessService *wellness.Service) *Scheduler {
	return &Scheduler{
		ctab:          crontab.New(),
		conversations: conversations,
		wellness:      wellnessService,
	}
}

// Run registers the jobs and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	log := logger.GetLogger()

	if err := s.ctab.AddJob("0 * * * *", func() {
		s.conversations.Cleanup()
	}); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add conversation cleanup job")
	}

	cfg := config.GetGlobal()
	if cfg != nil && cfg.WellnessEnabled {
		slots := []struct {
			hour   int
			period wellness.Period
		}{
			{cfg.WellnessMorningHour, wellness.PeriodMorning},
			{cfg.WellnessAfternoonHour, wellness.PeriodAfternoon},
			{cfg.WellnessEveningHour, wellness.PeriodEvening},
		}
		for _, slot := range slots {
			period := slot.period
			expr := fmt.Sprintf("0 %d * * *", slot.hour)
			if err := s.ctab.AddJob(expr, func() {
				jobCtx, cancel := context.WithTimeout(context.Background(), jobTimeout)
				defer cancel()
				if _, err := s.wellness.DispatchAll(jobCtx, period, "scheduled"); err != nil {
					log.Error().Err(err).Str("period", string(period)).Msg("wellness dispatch failed")
				}
			}); err != nil {
				return platformerrors.AsError(ctx, platformerrors.LayerInfrastructure, err, "failed to add wellness job")
			}
		}
		log.Info().
			Int("morning", cfg.WellnessMorningHour).
			Int("afternoon", cfg.WellnessAfternoonHour).
			Int("evening", cfg.WellnessEveningHour).
			Msg("wellness checks scheduled")
	}

	<-ctx.Done()
	s.ctab.Shutdown()
	return nil
}
