// Package wellness sends proactive check-in messages to active recipients on
// a morning, afternoon and evening schedule.
package wellness

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"companion-server/internal/domain/recipient"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/infrastructure/metrics"
)

// Sender delivers one outbound message. Satisfied by the WhatsApp client.
type Sender interface {
	SendMessage(ctx context.Context, toPhone, body string) error
}

// Period is the slot of day a check belongs to.
type Period string

const (
	PeriodMorning   Period = "morning"
	PeriodAfternoon Period = "afternoon"
	PeriodEvening   Period = "evening"
)

// Check-in templates per period. {name} is replaced with the recipient's
// display name.
var templates = map[Period][]string{
	PeriodMorning: {
		"Good morning, {name}! 🌅 How did you sleep? I hope you're starting the day with a smile!",
		"Good morning, {name}! ☀️ Have you had your breakfast yet? What are your plans for today?",
		"Rise and shine, {name}! 🌺 Just checking in to see how you're feeling this morning.",
	},
	PeriodAfternoon: {
		"Good afternoon, {name}! 🌞 How has your day been so far? Have you had a good lunch?",
		"Hello {name}! 🌼 Just thinking of you this afternoon. How are you feeling?",
		"Hi {name}! 😊 Hope your afternoon is going well. Did you get some rest after lunch?",
	},
	PeriodEvening: {
		"Good evening, {name}! 🌙 How was your day? I'd love to hear about it!",
		"Good evening, {name}! ✨ Have you had dinner? I hope you're winding down nicely.",
		"Hello {name}! 🌆 Just checking in before the day ends. How are you feeling tonight?",
	},
}

// RecheckAfter is how long after the last check a recipient becomes due
// again, keeping one scheduled check per day per recipient.
const RecheckAfter = 20 * time.Hour

// Service dispatches wellness checks and stamps when each recipient last
// received one.
type Service struct {
	recipients *recipient.Service
	sender     Sender
	pick       func(n int) int
	now        func() time.Time
}

func NewService(recipients *recipient.Service, sender Sender) *Service {
	return &Service{
		recipients: recipients,
		sender:     sender,
		pick:       rand.Intn,
		now:        time.Now,
	}
}

// DispatchAll sends the period's check to every eligible recipient. Scheduled
// runs only reach recipients not checked within RecheckAfter, so the three
// daily slots do not each message everyone; manual runs reach all active
// recipients. Returns how many were sent; per-recipient failures are logged
// and skipped.
func (s *Service) DispatchAll(ctx context.Context, period Period, trigger string) (int, error) {
	var recipients []recipient.Recipient
	var err error
	if trigger == "scheduled" {
		recipients, err = s.recipients.ListDue(ctx, s.now().Add(-RecheckAfter))
	} else {
		recipients, err = s.recipients.ListActive(ctx)
	}
	if err != nil {
		return 0, err
	}

	log := logger.GetLogger()
	sent := 0
	for i := range recipients {
		r := &recipients[i]
		if err := s.sendCheck(ctx, r, period, trigger); err != nil {
			log.Error().Err(err).Str("phone", r.PhoneNumber).Msg("wellness check failed")
			continue
		}
		sent++
	}

	log.Info().
		Str("period", string(period)).
		Str("trigger", trigger).
		Int("sent", sent).
		Int("recipients", len(recipients)).
		Msg("wellness dispatch complete")
	return sent, nil
}

// DispatchOne sends an on-demand check to a single recipient.
func (s *Service) DispatchOne(ctx context.Context, id uint) error {
	r, err := s.recipients.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.sendCheck(ctx, r, CurrentPeriod(time.Now()), "manual")
}

func (s *Service) sendCheck(ctx context.Context, r *recipient.Recipient, period Period, trigger string) error {
	body := s.composeCheck(r.DisplayOrName(), period)
	if err := s.sender.SendMessage(ctx, r.PhoneNumber, body); err != nil {
		return err
	}

	metrics.WellnessChecksTotal.WithLabelValues(trigger).Inc()
	if err := s.recipients.RecordCheckSent(ctx, r.ID); err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Uint("recipient_id", r.ID).Msg("failed to stamp wellness check time")
	}
	return nil
}

func (s *Service) composeCheck(name string, period Period) string {
	pool, ok := templates[period]
	if !ok {
		pool = templates[PeriodAfternoon]
	}
	template := pool[s.pick(len(pool))]
	return strings.ReplaceAll(template, "{name}", name)
}

// CurrentPeriod maps a wall-clock time to a check-in slot.
func CurrentPeriod(t time.Time) Period {
	switch hour := t.Hour(); {
	case hour < 12:
		return PeriodMorning
	case hour < 18:
		return PeriodAfternoon
	default:
		return PeriodEvening
	}
}
