// Package conversation keeps short-lived per-user chat history in memory so
// the model sees recent context without any of it being persisted.
package conversation

import (
	"sync"
	"time"

	"companion-server/internal/domain/chat"
	"companion-server/internal/infrastructure/logger"
)

const (
	// DefaultMaxMessages bounds the history kept per user.
	DefaultMaxMessages = 20
	// DefaultTTL is how long an idle conversation survives.
	DefaultTTL = 24 * time.Hour
)

type session struct {
	messages     []chat.Message
	greeted      bool
	lastActivity time.Time
}

// Store holds per-user sessions keyed by normalized phone number. Histories
// are bounded FIFO and idle sessions expire. Safe for concurrent use; reads
// share the lock so the expiry sweep does not serialize live lookups.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*session
	maxMessages int
	ttl         time.Duration
	now         func() time.Time
}

// StoreOptions tune the store; zero values take the defaults.
type StoreOptions struct {
	MaxMessages int
	TTL         time.Duration
}

func NewStore(opts StoreOptions) *Store {
	s := &Store{
		sessions:    make(map[string]*session),
		maxMessages: opts.MaxMessages,
		ttl:         opts.TTL,
		now:         time.Now,
	}
	if s.maxMessages <= 0 {
		s.maxMessages = DefaultMaxMessages
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	return s
}

// Append records one message, evicting the oldest when the bound is hit.
func (s *Store) Append(userKey, role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userKey)
	sess.messages = append(sess.messages, chat.Message{Role: role, Content: content})
	if len(sess.messages) > s.maxMessages {
		sess.messages = sess.messages[len(sess.messages)-s.maxMessages:]
	}
	sess.lastActivity = s.now()
}

// History returns a copy of the user's messages, oldest first.
func (s *Store) History(userKey string) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userKey]
	if !ok {
		return nil
	}
	out := make([]chat.Message, len(sess.messages))
	copy(out, sess.messages)
	return out
}

// IsFirstMessage reports whether the user has not been greeted yet.
func (s *Store) IsFirstMessage(userKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[userKey]
	return !ok || !sess.greeted
}

// MarkGreeted records that the first-contact greeting was sent.
func (s *Store) MarkGreeted(userKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreate(userKey)
	sess.greeted = true
	sess.lastActivity = s.now()
}

// Clear drops one user's session.
func (s *Store) Clear(userKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userKey)
}

// Stats reports active session and message counts.
func (s *Store) Stats() (sessions, messages int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sess := range s.sessions {
		sessions++
		messages += len(sess.messages)
	}
	return sessions, messages
}

// Cleanup drops sessions idle longer than the TTL and returns how many were
// removed. Scheduled hourly. The sweep identifies candidates under the shared
// read lock so live processing keeps going, then deletes under the write lock
// re-checking each session's activity.
func (s *Store) Cleanup() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.RLock()
	var expired []string
	for key, sess := range s.sessions {
		if sess.lastActivity.Before(cutoff) {
			expired = append(expired, key)
		}
	}
	s.mu.RUnlock()

	if len(expired) == 0 {
		return 0
	}

	s.mu.Lock()
	removed := 0
	for _, key := range expired {
		if sess, ok := s.sessions[key]; ok && sess.lastActivity.Before(cutoff) {
			delete(s.sessions, key)
			removed++
		}
	}
	s.mu.Unlock()

	if removed > 0 {
		log := logger.GetLogger()
		log.Info().Int("removed", removed).Msg("expired idle conversations")
	}
	return removed
}

func (s *Store) getOrCreate(userKey string) *session {
	sess, ok := s.sessions[userKey]
	if !ok {
		sess = &session{lastActivity: s.now()}
		s.sessions[userKey] = sess
	}
	return sess
}
