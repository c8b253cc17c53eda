package companion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion-server/internal/domain/chat"
	"companion-server/internal/domain/conversation"
	"companion-server/internal/domain/escalation"
	"companion-server/internal/domain/provider"
	"companion-server/internal/domain/recipient"
	"companion-server/internal/domain/sentiment"
)

type fakeTransport struct {
	sent []sentMessage
}

type sentMessage struct {
	to   string
	body string
}

func (f *fakeTransport) SendMessage(_ context.Context, toPhone, body string) error {
	f.sent = append(f.sent, sentMessage{to: toPhone, body: body})
	return nil
}

type fakeCompleter struct {
	reply string
}

func (f *fakeCompleter) Complete(_ context.Context, _ provider.Config, _ chat.CompletionRequest) (string, error) {
	return f.reply, nil
}

type memoryRecords struct {
	saved []sentiment.Record
}

func (m *memoryRecords) Save(_ context.Context, record *sentiment.Record) error {
	m.saved = append(m.saved, *record)
	return nil
}

func (m *memoryRecords) FindByPhone(context.Context, string) ([]sentiment.Record, error) {
	return m.saved, nil
}

func (m *memoryRecords) FindByPhoneSince(context.Context, string, time.Time) ([]sentiment.Record, error) {
	return m.saved, nil
}

func (m *memoryRecords) FindRequiringAttention(context.Context) ([]sentiment.Record, error) {
	return nil, nil
}

func (m *memoryRecords) CountSince(context.Context, time.Time) (int64, error) { return 0, nil }

func (m *memoryRecords) CountByCategorySince(context.Context, time.Time) ([]sentiment.CategoryCount, error) {
	return nil, nil
}

func (m *memoryRecords) PhonesWithRedSince(context.Context, time.Time) ([]string, error) {
	return nil, nil
}

type memoryRecipients struct {
	byPhone map[string]*recipient.Recipient
}

func (m *memoryRecipients) Create(_ context.Context, r *recipient.Recipient) error {
	m.byPhone[r.PhoneNumber] = r
	return nil
}

func (m *memoryRecipients) Update(context.Context, *recipient.Recipient) error { return nil }
func (m *memoryRecipients) Delete(context.Context, uint) error                 { return nil }

func (m *memoryRecipients) FindByID(context.Context, uint) (*recipient.Recipient, error) {
	return nil, recipient.ErrNotFound
}

func (m *memoryRecipients) FindByPhone(_ context.Context, phoneNumber string) (*recipient.Recipient, error) {
	if r, ok := m.byPhone[phoneNumber]; ok {
		return r, nil
	}
	return nil, recipient.ErrNotFound
}

func (m *memoryRecipients) FindAll(context.Context) ([]recipient.Recipient, error)    { return nil, nil }
func (m *memoryRecipients) FindActive(context.Context) ([]recipient.Recipient, error) { return nil, nil }

func (m *memoryRecipients) FindDueForCheck(context.Context, time.Time) ([]recipient.Recipient, error) {
	return nil, nil
}

func (m *memoryRecipients) MarkCheckSent(context.Context, uint, time.Time) error { return nil }

type pipeline struct {
	service   *Service
	transport *fakeTransport
	records   *memoryRecords
}

func newPipeline(t *testing.T, aiReply string) *pipeline {
	t.Helper()

	registry := provider.NewRegistry("groq")
	registry.Register(provider.Config{
		ID:      "groq",
		BaseURL: "https://api.groq.com/openai/v1",
		APIKey:  "gsk_test",
		Model:   "llama-3.3-70b-versatile",
		Dialect: provider.DialectOpenAICompatible,
	})

	completer := &fakeCompleter{reply: aiReply}
	transport := &fakeTransport{}
	records := &memoryRecords{}
	recipients := recipient.NewService(&memoryRecipients{
		byPhone: map[string]*recipient.Recipient{
			"6591234567": {
				Name:           "Mrs Tan",
				PhoneNumber:    "6591234567",
				CaretakerName:  "David",
				CaretakerPhone: "6598765432",
			},
		},
	})

	service := NewService(
		conversation.NewStore(conversation.StoreOptions{}),
		chat.NewDispatcher(registry, completer, chat.NewRuleResponder(), chat.DispatcherOptions{FallbackEnabled: true}),
		sentiment.NewClassifier(registry, completer, sentiment.ClassifierOptions{}),
		escalation.NewTracker(escalation.TrackerOptions{}),
		escalation.NewNotifier(transport),
		records,
		recipients,
		transport,
	)
	return &pipeline{service: service, transport: transport, records: records}
}

func TestHandleMessageFirstContactSendsGreeting(t *testing.T) {
	p := newPipeline(t, "a warm reply")

	err := p.service.HandleMessage(context.Background(), "+65 9123-4567", "hello")

	require.NoError(t, err)
	require.Len(t, p.transport.sent, 1)
	assert.Equal(t, "6591234567", p.transport.sent[0].to)
	assert.Equal(t, chat.InitialGreeting, p.transport.sent[0].body)

	// the greeting replaces the generated reply, but the message is still
	// classified and persisted
	require.Len(t, p.records.saved, 1)
	assert.Equal(t, "hello", p.records.saved[0].UserMessage)
	assert.Equal(t, chat.InitialGreeting, p.records.saved[0].AIResponse)
}

func TestHandleMessageFirstContactDistressStillEscalatable(t *testing.T) {
	p := newPipeline(t, `{"category":"RED","confidence":0.95,"emotional_indicators":"despair","concern_level":"High","reasoning":"acute distress"}`)

	err := p.service.HandleMessage(context.Background(), "6591234567", "I feel so alone and scared")

	require.NoError(t, err)
	require.Len(t, p.records.saved, 1)
	assert.Equal(t, sentiment.CategoryRed, p.records.saved[0].Category)
	assert.True(t, p.records.saved[0].RequiresAttention)
	assert.Equal(t, 1, p.service.tracker.Count("6591234567"))
}

func TestHandleMessageRepliesAndRecordsSentiment(t *testing.T) {
	p := newPipeline(t, `{"category":"GREEN","confidence":0.9,"emotional_indicators":"happy","concern_level":"Low","reasoning":"positive"}`)

	require.NoError(t, p.service.HandleMessage(context.Background(), "6591234567", "hello"))
	require.NoError(t, p.service.HandleMessage(context.Background(), "6591234567", "I am so happy today"))

	require.Len(t, p.transport.sent, 2)
	assert.Equal(t, chat.InitialGreeting, p.transport.sent[0].body)
	assert.NotEmpty(t, p.transport.sent[1].body)

	require.Len(t, p.records.saved, 2)
	record := p.records.saved[1]
	assert.Equal(t, "6591234567", record.PhoneNumber)
	assert.Equal(t, "I am so happy today", record.UserMessage)
	assert.Equal(t, sentiment.CategoryGreen, record.Category)
	assert.False(t, record.RequiresAttention)
}

func TestHandleMessageEscalatesAfterThreeConcerning(t *testing.T) {
	p := newPipeline(t, `{"category":"RED","confidence":0.9,"emotional_indicators":"lonely","concern_level":"High","reasoning":"distress"}`)

	ctx := context.Background()
	require.NoError(t, p.service.HandleMessage(ctx, "6591234567", "I feel so alone")) // greeted, RED count 1
	for i := 0; i < 3; i++ {
		require.NoError(t, p.service.HandleMessage(ctx, "6591234567", "I feel so alone"))
	}

	// greeting + 3 replies + 1 caretaker alert; the alert fires on the third
	// consecutive RED and precedes that message's reply
	require.Len(t, p.transport.sent, 5)
	alert := p.transport.sent[2]
	assert.Equal(t, "6598765432", alert.to)
	assert.Contains(t, alert.body, "WELLNESS ALERT")
	assert.Contains(t, alert.body, "Mrs Tan")
}

func TestTakeTurnSerializesSameUser(t *testing.T) {
	p := newPipeline(t, "reply")

	release := p.service.takeTurn("6591234567")

	secondDone := make(chan struct{})
	go func() {
		r := p.service.takeTurn("6591234567")
		r()
		close(secondDone)
	}()

	select {
	case <-secondDone:
		t.Fatal("second turn ran before the first was released")
	case <-time.After(50 * time.Millisecond):
	}

	// a different user is not blocked
	otherDone := make(chan struct{})
	go func() {
		r := p.service.takeTurn("6500000000")
		r()
		close(otherDone)
	}()
	select {
	case <-otherDone:
	case <-time.After(time.Second):
		t.Fatal("other user blocked by an unrelated turn")
	}

	release()
	select {
	case <-secondDone:
	case <-time.After(time.Second):
		t.Fatal("second turn never ran after release")
	}
}

func TestHandleMessageKeepsBoundedHistory(t *testing.T) {
	p := newPipeline(t, `{"category":"AMBER","confidence":0.5,"emotional_indicators":"","concern_level":"Medium","reasoning":"neutral"}`)

	ctx := context.Background()
	require.NoError(t, p.service.HandleMessage(ctx, "6591234567", "hi"))
	for i := 0; i < 15; i++ {
		require.NoError(t, p.service.HandleMessage(ctx, "6591234567", "chatting"))
	}

	// every exchange is recorded even though history is bounded to the
	// store's default of 20 turns
	assert.Len(t, p.records.saved, 16)
}
