package escalation

import (
	"context"
	"fmt"
	"time"

	"companion-server/internal/domain/sentiment"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/infrastructure/metrics"
	"companion-server/internal/utils/platformerrors"
)

// AlertSender delivers one outbound message. Satisfied by the WhatsApp client.
type AlertSender interface {
	SendMessage(ctx context.Context, toPhone, body string) error
}

// Alert carries everything the caretaker message needs.
type Alert struct {
	UserName       string
	UserPhone      string
	CaretakerName  string
	CaretakerPhone string
	Category       sentiment.Category
	Count          int
	Indicators     string
}

// Notifier sends caretaker alerts. Delivery failures are logged and counted,
// never propagated, so the companion reply to the user is unaffected.
type Notifier struct {
	sender AlertSender
}

func NewNotifier(sender AlertSender) *Notifier {
	return &Notifier{sender: sender}
}

// Notify sends the alert to the caretaker. A missing caretaker phone is
// recorded as a skipped alert.
func (n *Notifier) Notify(ctx context.Context, alert Alert) {
	log := logger.GetLogger()

	if alert.CaretakerPhone == "" {
		log.Warn().
			Str("user_phone", alert.UserPhone).
			Msg("escalation triggered but no caretaker phone configured")
		metrics.CaretakerAlertsTotal.WithLabelValues("no_caretaker").Inc()
		return
	}

	body := buildAlertMessage(alert)
	if err := n.sender.SendMessage(ctx, alert.CaretakerPhone, body); err != nil {
		platformErr := platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "send caretaker alert")
		log.Error().
			Err(platformErr).
			Str("user_phone", alert.UserPhone).
			Str("caretaker_phone", alert.CaretakerPhone).
			Msg("failed to deliver caretaker alert")
		metrics.CaretakerAlertsTotal.WithLabelValues("failed").Inc()
		return
	}

	log.Info().
		Str("user_phone", alert.UserPhone).
		Str("caretaker_phone", alert.CaretakerPhone).
		Int("consecutive_count", alert.Count).
		Msg("caretaker alert sent")
	metrics.CaretakerAlertsTotal.WithLabelValues("sent").Inc()
}

func buildAlertMessage(alert Alert) string {
	userName := alert.UserName
	if userName == "" {
		userName = alert.UserPhone
	}
	caretakerName := alert.CaretakerName
	if caretakerName == "" {
		caretakerName = "there"
	}

	msg := fmt.Sprintf(
		"⚠️ WELLNESS ALERT ⚠️\n\nHi %s,\n\n%s may need your attention. "+
			"Their last %d messages showed concerning emotional signals.\n\n"+
			"Current status: %s",
		caretakerName, userName, alert.Count, alert.Category,
	)
	if alert.Indicators != "" {
		msg += fmt.Sprintf("\nIndicators: %s", alert.Indicators)
	}
	msg += fmt.Sprintf(
		"\n\nPlease check in with them when you can.\nTime: %s",
		time.Now().Format("2006-01-02 15:04"),
	)
	return msg
}
