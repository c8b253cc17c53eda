// Package escalation tracks consecutive concerning sentiments per user and
// decides when a caretaker alert is due.
package escalation

import (
	"sync"
	"time"

	"companion-server/internal/domain/sentiment"
)

const (
	// DefaultThreshold is the consecutive concerning count that triggers an alert.
	DefaultThreshold = 3
	// DefaultThrottle is the minimum gap between alerts for the same user.
	DefaultThrottle = time.Hour
)

// Decision is the outcome of recording one classification.
type Decision struct {
	// ShouldAlert is true when the caretaker must be notified now.
	ShouldAlert bool
	// Count is the consecutive concerning count after this update.
	Count int
	// Throttled is true when the threshold was met but a recent alert
	// suppressed this one.
	Throttled bool
}

type userState struct {
	mu                    sync.Mutex
	consecutiveConcerning int
	lastAlertAt           time.Time
}

// Tracker keeps per-user escalation state in memory. All methods are safe for
// concurrent use; the tracker lock only guards the state map, each user's
// counters have their own lock so users never contend with each other.
type Tracker struct {
	mu        sync.Mutex
	states    map[string]*userState
	threshold int
	throttle  time.Duration
	now       func() time.Time
}

// TrackerOptions tune the tracker; zero values take the defaults.
type TrackerOptions struct {
	Threshold int
	Throttle  time.Duration
}

func NewTracker(opts TrackerOptions) *Tracker {
	t := &Tracker{
		states:    make(map[string]*userState),
		threshold: opts.Threshold,
		throttle:  opts.Throttle,
		now:       time.Now,
	}
	if t.threshold <= 0 {
		t.threshold = DefaultThreshold
	}
	if t.throttle <= 0 {
		t.throttle = DefaultThrottle
	}
	return t
}

// Record folds one classification into the user's state. GREEN resets the
// count to zero; AMBER and RED increment it. An alert fires once the count
// reaches the threshold, at most once per throttle window. Firing an alert
// does not reset the count, so a user who stays concerning alerts again after
// the window elapses.
func (t *Tracker) Record(userKey string, result sentiment.Result) Decision {
	state := t.state(userKey)
	state.mu.Lock()
	defer state.mu.Unlock()

	if !result.Category.Concerning() {
		state.consecutiveConcerning = 0
		return Decision{Count: 0}
	}

	state.consecutiveConcerning++
	decision := Decision{Count: state.consecutiveConcerning}
	if state.consecutiveConcerning < t.threshold {
		return decision
	}

	now := t.now()
	if !state.lastAlertAt.IsZero() && now.Sub(state.lastAlertAt) < t.throttle {
		decision.Throttled = true
		return decision
	}

	state.lastAlertAt = now
	decision.ShouldAlert = true
	return decision
}

// Count returns the current consecutive concerning count for a user.
func (t *Tracker) Count(userKey string) int {
	t.mu.Lock()
	state, ok := t.states[userKey]
	t.mu.Unlock()
	if !ok {
		return 0
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	return state.consecutiveConcerning
}

func (t *Tracker) state(userKey string) *userState {
	t.mu.Lock()
	defer t.mu.Unlock()

	state, ok := t.states[userKey]
	if !ok {
		state = &userState{}
		t.states[userKey] = state
	}
	return state
}

// Reset clears a user's state entirely, including the alert timestamp.
func (t *Tracker) Reset(userKey string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.states, userKey)
}
