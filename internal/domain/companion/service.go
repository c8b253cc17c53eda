// Package companion orchestrates the full inbound message pipeline: history,
// reply generation, sentiment classification, escalation and delivery.
package companion

import (
	"context"
	"sync"

	"companion-server/internal/domain/chat"
	"companion-server/internal/domain/conversation"
	"companion-server/internal/domain/escalation"
	"companion-server/internal/domain/recipient"
	"companion-server/internal/domain/sentiment"
	"companion-server/internal/infrastructure/logger"
	"companion-server/internal/utils/phone"
	"companion-server/internal/utils/platformerrors"
)

// Transport delivers outbound companion messages. Satisfied by the WhatsApp
// client.
type Transport interface {
	SendMessage(ctx context.Context, toPhone, body string) error
}

// Service runs the message pipeline. Messages from the same user are
// processed one at a time so history and escalation state stay ordered;
// different users proceed in parallel.
type Service struct {
	conversations *conversation.Store
	dispatcher    *chat.Dispatcher
	classifier    *sentiment.Classifier
	tracker       *escalation.Tracker
	notifier      *escalation.Notifier
	records       sentiment.RecordRepository
	recipients    *recipient.Service
	transport     Transport

	// tails chains waiters per user: each message waits for the channel left
	// by its predecessor, so same-user processing is strictly first-come
	// first-served rather than racing on a mutex.
	mu    sync.Mutex
	tails map[string]chan struct{}
}

func NewService(
	conversations *conversation.Store,
	dispatcher *chat.Dispatcher,
	classifier *sentiment.Classifier,
	tracker *escalation.Tracker,
	notifier *escalation.Notifier,
	records sentiment.RecordRepository,
	recipients *recipient.Service,
	transport Transport,
) *Service {
	return &Service{
		conversations: conversations,
		dispatcher:    dispatcher,
		classifier:    classifier,
		tracker:       tracker,
		notifier:      notifier,
		records:       records,
		recipients:    recipients,
		transport:     transport,
		tails:         make(map[string]chan struct{}),
	}
}

// HandleMessage processes one inbound user message end to end. The reply is
// always sent; persistence and alerting failures are logged but never block
// the conversation.
func (s *Service) HandleMessage(ctx context.Context, fromPhone, text string) error {
	userKey := phone.Normalize(fromPhone)
	log := logger.GetLogger()

	release := s.takeTurn(userKey)
	defer release()

	// First contact replies with the canned greeting, but the message itself
	// still goes through classification, persistence and escalation: a
	// distressed opener must reach the caretaker like any other message.
	firstContact := s.conversations.IsFirstMessage(userKey)
	if firstContact {
		s.conversations.MarkGreeted(userKey)
	}

	history := s.conversations.History(userKey)
	s.conversations.Append(userKey, chat.RoleUser, text)

	reply := chat.InitialGreeting
	if !firstContact {
		reply = s.dispatcher.Generate(ctx, history, text)
	}
	result := s.classifier.Classify(ctx, text)

	s.persistRecord(ctx, userKey, text, reply, result)
	s.escalate(ctx, userKey, result)

	s.conversations.Append(userKey, chat.RoleAssistant, reply)
	if err := s.transport.SendMessage(ctx, userKey, reply); err != nil {
		return platformerrors.AsError(ctx, platformerrors.LayerDomain, err, "send companion reply")
	}

	log.Info().
		Str("user", userKey).
		Str("sentiment", string(result.Category)).
		Bool("first_contact", firstContact).
		Msg("companion reply delivered")
	return nil
}

func (s *Service) persistRecord(ctx context.Context, userKey, text, reply string, result sentiment.Result) {
	record := sentiment.NewRecord(userKey, text, reply, result)
	if err := s.records.Save(ctx, &record); err != nil {
		log := logger.GetLogger()
		log.Error().Err(err).Str("user", userKey).Msg("failed to persist sentiment record")
	}
}

func (s *Service) escalate(ctx context.Context, userKey string, result sentiment.Result) {
	decision := s.tracker.Record(userKey, result)
	if !decision.ShouldAlert {
		return
	}

	alert := escalation.Alert{
		UserPhone:  userKey,
		Category:   result.Category,
		Count:      decision.Count,
		Indicators: result.Indicators,
	}
	if rcpt, err := s.recipients.Lookup(ctx, userKey); err == nil {
		alert.UserName = rcpt.DisplayOrName()
		alert.CaretakerName = rcpt.CaretakerName
		alert.CaretakerPhone = rcpt.CaretakerPhone
	} else {
		log := logger.GetLogger()
		log.Warn().Err(err).Str("user", userKey).Msg("no recipient record for escalation")
	}

	s.notifier.Notify(ctx, alert)
}

// takeTurn blocks until every earlier message from the same user has
// finished, preserving arrival order. The returned func releases the turn.
func (s *Service) takeTurn(userKey string) func() {
	s.mu.Lock()
	prev := s.tails[userKey]
	done := make(chan struct{})
	s.tails[userKey] = done
	s.mu.Unlock()

	if prev != nil {
		<-prev
	}

	return func() {
		close(done)
		s.mu.Lock()
		if s.tails[userKey] == done {
			delete(s.tails, userKey)
		}
		s.mu.Unlock()
	}
}
