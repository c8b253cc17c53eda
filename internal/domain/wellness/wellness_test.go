package wellness

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companion-server/internal/domain/recipient"
)

type fakeSender struct {
	sent    map[string]string
	failFor string
}

func (f *fakeSender) SendMessage(_ context.Context, toPhone, body string) error {
	if toPhone == f.failFor {
		return errors.New("delivery failed")
	}
	if f.sent == nil {
		f.sent = make(map[string]string)
	}
	f.sent[toPhone] = body
	return nil
}

type stubRepo struct {
	recipients []recipient.Recipient
	stamped    []uint
}

func (s *stubRepo) Create(context.Context, *recipient.Recipient) error { return nil }
func (s *stubRepo) Update(context.Context, *recipient.Recipient) error { return nil }
func (s *stubRepo) Delete(context.Context, uint) error                 { return nil }

func (s *stubRepo) FindByID(_ context.Context, id uint) (*recipient.Recipient, error) {
	for i := range s.recipients {
		if s.recipients[i].ID == id {
			return &s.recipients[i], nil
		}
	}
	return nil, recipient.ErrNotFound
}

func (s *stubRepo) FindByPhone(context.Context, string) (*recipient.Recipient, error) {
	return nil, recipient.ErrNotFound
}

func (s *stubRepo) FindAll(context.Context) ([]recipient.Recipient, error) {
	return s.recipients, nil
}

func (s *stubRepo) FindActive(context.Context) ([]recipient.Recipient, error) {
	var active []recipient.Recipient
	for _, r := range s.recipients {
		if r.Active {
			active = append(active, r)
		}
	}
	return active, nil
}

func (s *stubRepo) FindDueForCheck(_ context.Context, before time.Time) ([]recipient.Recipient, error) {
	var due []recipient.Recipient
	for _, r := range s.recipients {
		if r.Active && (r.LastCheckSentAt == nil || r.LastCheckSentAt.Before(before)) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (s *stubRepo) MarkCheckSent(_ context.Context, id uint, _ time.Time) error {
	s.stamped = append(s.stamped, id)
	return nil
}

func TestDispatchAllSendsToActiveRecipients(t *testing.T) {
	repo := &stubRepo{recipients: []recipient.Recipient{
		{ID: 1, Name: "Mrs Tan", DisplayName: "Aunty Tan", PhoneNumber: "6591111111", Active: true},
		{ID: 2, Name: "Mr Lim", PhoneNumber: "6592222222", Active: true},
		{ID: 3, Name: "Inactive", PhoneNumber: "6593333333", Active: false},
	}}
	sender := &fakeSender{}
	service := NewService(recipient.NewService(repo), sender)
	service.pick = func(int) int { return 0 }

	sent, err := service.DispatchAll(context.Background(), PeriodMorning, "scheduled")

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Contains(t, sender.sent["6591111111"], "Aunty Tan")
	assert.Contains(t, sender.sent["6592222222"], "Mr Lim")
	assert.NotContains(t, sender.sent, "6593333333")
	assert.ElementsMatch(t, []uint{1, 2}, repo.stamped)
}

func TestDispatchAllScheduledSkipsRecentlyChecked(t *testing.T) {
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	recent := now.Add(-10 * time.Minute)
	yesterday := now.Add(-RecheckAfter - time.Hour)

	repo := &stubRepo{recipients: []recipient.Recipient{
		{ID: 1, Name: "Checked recently", PhoneNumber: "6591111111", Active: true, LastCheckSentAt: &recent},
		{ID: 2, Name: "Due again", PhoneNumber: "6592222222", Active: true, LastCheckSentAt: &yesterday},
		{ID: 3, Name: "Never checked", PhoneNumber: "6593333333", Active: true},
	}}
	sender := &fakeSender{}
	service := NewService(recipient.NewService(repo), sender)
	service.pick = func(int) int { return 0 }
	service.now = func() time.Time { return now }

	sent, err := service.DispatchAll(context.Background(), PeriodMorning, "scheduled")

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.NotContains(t, sender.sent, "6591111111")
	assert.ElementsMatch(t, []uint{2, 3}, repo.stamped)
}

func TestDispatchAllManualReachesAllActive(t *testing.T) {
	now := time.Now()
	repo := &stubRepo{recipients: []recipient.Recipient{
		{ID: 1, Name: "Checked recently", PhoneNumber: "6591111111", Active: true, LastCheckSentAt: &now},
	}}
	sender := &fakeSender{}
	service := NewService(recipient.NewService(repo), sender)
	service.pick = func(int) int { return 0 }

	sent, err := service.DispatchAll(context.Background(), PeriodAfternoon, "manual")

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Contains(t, sender.sent, "6591111111")
}

func TestDispatchAllSkipsFailedDeliveries(t *testing.T) {
	repo := &stubRepo{recipients: []recipient.Recipient{
		{ID: 1, Name: "A", PhoneNumber: "6591111111", Active: true},
		{ID: 2, Name: "B", PhoneNumber: "6592222222", Active: true},
	}}
	sender := &fakeSender{failFor: "6591111111"}
	service := NewService(recipient.NewService(repo), sender)
	service.pick = func(int) int { return 0 }

	sent, err := service.DispatchAll(context.Background(), PeriodEvening, "scheduled")

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []uint{2}, repo.stamped)
}

func TestDispatchOne(t *testing.T) {
	repo := &stubRepo{recipients: []recipient.Recipient{
		{ID: 7, Name: "Mrs Tan", PhoneNumber: "6591111111", Active: true},
	}}
	sender := &fakeSender{}
	service := NewService(recipient.NewService(repo), sender)
	service.pick = func(int) int { return 0 }

	require.NoError(t, service.DispatchOne(context.Background(), 7))
	assert.Contains(t, sender.sent["6591111111"], "Mrs Tan")
}

func TestDispatchOneUnknownRecipient(t *testing.T) {
	service := NewService(recipient.NewService(&stubRepo{}), &fakeSender{})
	assert.Error(t, service.DispatchOne(context.Background(), 99))
}

func TestCurrentPeriod(t *testing.T) {
	day := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, PeriodMorning, CurrentPeriod(day.Add(9*time.Hour)))
	assert.Equal(t, PeriodAfternoon, CurrentPeriod(day.Add(14*time.Hour)))
	assert.Equal(t, PeriodEvening, CurrentPeriod(day.Add(19*time.Hour)))
}

func TestComposeCheckSubstitutesName(t *testing.T) {
	service := NewService(recipient.NewService(&stubRepo{}), &fakeSender{})
	service.pick = func(int) int { return 0 }

	body := service.composeCheck("Aunty May", PeriodMorning)

	assert.Contains(t, body, "Aunty May")
	assert.NotContains(t, body, "{name}")
}
