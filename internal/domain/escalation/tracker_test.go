package escalation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"companion-server/internal/domain/sentiment"
)

func redResult() sentiment.Result {
	return sentiment.Result{Category: sentiment.CategoryRed, Confidence: 0.9, Indicators: "lonely, crying"}
}

func amberResult() sentiment.Result {
	return sentiment.Result{Category: sentiment.CategoryAmber, Confidence: 0.6}
}

func greenResult() sentiment.Result {
	return sentiment.Result{Category: sentiment.CategoryGreen, Confidence: 0.8}
}

func TestTrackerAlertsAtThreshold(t *testing.T) {
	tracker := NewTracker(TrackerOptions{})

	d := tracker.Record("6591234567", redResult())
	assert.False(t, d.ShouldAlert)
	assert.Equal(t, 1, d.Count)

	d = tracker.Record("6591234567", amberResult())
	assert.False(t, d.ShouldAlert)
	assert.Equal(t, 2, d.Count)

	d = tracker.Record("6591234567", redResult())
	assert.True(t, d.ShouldAlert)
	assert.Equal(t, 3, d.Count)
}

func TestTrackerGreenResetsCount(t *testing.T) {
	tracker := NewTracker(TrackerOptions{})

	tracker.Record("user", redResult())
	tracker.Record("user", redResult())
	d := tracker.Record("user", greenResult())
	assert.Equal(t, 0, d.Count)
	assert.False(t, d.ShouldAlert)

	// two more concerning messages are not enough after the reset
	tracker.Record("user", redResult())
	d = tracker.Record("user", redResult())
	assert.False(t, d.ShouldAlert)
	assert.Equal(t, 2, d.Count)
}

func TestTrackerAlertDoesNotResetCount(t *testing.T) {
	tracker := NewTracker(TrackerOptions{})

	tracker.Record("user", redResult())
	tracker.Record("user", redResult())
	d := tracker.Record("user", redResult())
	assert.True(t, d.ShouldAlert)

	d = tracker.Record("user", redResult())
	assert.Equal(t, 4, d.Count)
}

func TestTrackerThrottlesRepeatAlerts(t *testing.T) {
	now := time.Now()
	tracker := NewTracker(TrackerOptions{})
	tracker.now = func() time.Time { return now }

	tracker.Record("user", redResult())
	tracker.Record("user", redResult())
	d := tracker.Record("user", redResult())
	assert.True(t, d.ShouldAlert)

	// ten minutes later: still concerning, but inside the throttle window
	now = now.Add(10 * time.Minute)
	d = tracker.Record("user", redResult())
	assert.False(t, d.ShouldAlert)
	assert.True(t, d.Throttled)
	assert.Equal(t, 4, d.Count)

	// just past the window: alert again
	now = now.Add(51 * time.Minute)
	d = tracker.Record("user", redResult())
	assert.True(t, d.ShouldAlert)
	assert.False(t, d.Throttled)
}

func TestTrackerIsolatesUsers(t *testing.T) {
	tracker := NewTracker(TrackerOptions{})

	tracker.Record("a", redResult())
	tracker.Record("a", redResult())
	d := tracker.Record("b", redResult())

	assert.Equal(t, 1, d.Count)
	assert.Equal(t, 2, tracker.Count("a"))
}

func TestTrackerReset(t *testing.T) {
	tracker := NewTracker(TrackerOptions{})

	tracker.Record("user", redResult())
	tracker.Record("user", redResult())
	tracker.Reset("user")

	assert.Equal(t, 0, tracker.Count("user"))
}

type recordingSender struct {
	toPhone string
	body    string
	err     error
	calls   int
}

func (r *recordingSender) SendMessage(_ context.Context, toPhone, body string) error {
	r.calls++
	r.toPhone = toPhone
	r.body = body
	return r.err
}

func TestNotifierBuildsAlertBody(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewNotifier(sender)

	notifier.Notify(context.Background(), Alert{
		UserName:       "Mrs Tan",
		UserPhone:      "6591234567",
		CaretakerName:  "David",
		CaretakerPhone: "6598765432",
		Category:       sentiment.CategoryRed,
		Count:          3,
		Indicators:     "lonely, crying",
	})

	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "6598765432", sender.toPhone)
	assert.Contains(t, sender.body, "WELLNESS ALERT")
	assert.Contains(t, sender.body, "Mrs Tan")
	assert.Contains(t, sender.body, "RED")
	assert.Contains(t, sender.body, "3 messages")
	assert.Contains(t, sender.body, "lonely, crying")
}

func TestNotifierSkipsWithoutCaretakerPhone(t *testing.T) {
	sender := &recordingSender{}
	notifier := NewNotifier(sender)

	notifier.Notify(context.Background(), Alert{UserPhone: "6591234567"})

	assert.Equal(t, 0, sender.calls)
}
