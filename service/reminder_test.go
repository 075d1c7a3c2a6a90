package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"budget/config"
	"budget/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []string
	reply bool
}

func (f *fakeSender) SendReminder(to, billName string, _ decimal.Decimal, _ time.Time) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, billName)
	return f.reply
}

func TestReminderService_SendDueReminders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, in := range []BillInput{
		{Name: "今天", Amount: "10", DueDay: 12},
		{Name: "三天后", Amount: "10", DueDay: 15},
		{Name: "四天后", Amount: "10", DueDay: 16},
		{Name: "已逾期", Amount: "10", DueDay: 11},
		{Name: "已付", Amount: "10", DueDay: 13},
	} {
		b, err := env.svc.Bills.Create(ctx, env.user.ID, in)
		require.NoError(t, err)
		if in.Name == "已付" {
			_, err = env.svc.Bills.MarkPaid(ctx, env.user.ID, b.ID, PaymentInput{Date: timePtr(fixedNow), Method: "cash"})
			require.NoError(t, err)
		}
	}

	sender := &fakeSender{reply: true}
	svc := NewReminderService(env.store, env.svc.Notifications, sender, config.ReminderConfig{DaysAhead: 3, Concurrency: 2})

	result, err := svc.SendDueReminders(ctx, env.user.ID, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Bills)
	assert.Equal(t, 2, result.Emailed)
	assert.Equal(t, 2, result.Notified)
	assert.ElementsMatch(t, []string{"今天", "三天后"}, sender.sent)

	list, err := env.svc.Notifications.List(ctx, env.user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, models.NotificationWarning, n.Type)
		assert.NotNil(t, n.RelatedID)
	}
}

func TestReminderService_UnconfiguredEmailStillNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.svc.Bills.Create(ctx, env.user.ID, BillInput{Name: "网费", Amount: "99", DueDay: 14})
	require.NoError(t, err)

	sender := NewEmailService(&config.EmailConfig{})
	svc := NewReminderService(env.store, env.svc.Notifications, sender, config.ReminderConfig{DaysAhead: 3})

	result, err := svc.SendDueReminders(ctx, env.user.ID, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Bills)
	assert.Equal(t, 0, result.Emailed)
	assert.Equal(t, 1, result.Notified)
}

func TestReminderService_UnknownUser(t *testing.T) {
	env := newTestEnv(t)
	svc := NewReminderService(env.store, env.svc.Notifications, nil, config.ReminderConfig{})
	_, err := svc.SendDueReminders(context.Background(), 999, fixedNow)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDueBills_SkipsDaysMissingFromMonth(t *testing.T) {
	bills := []models.Bill{{ID: 1, DueDay: 30}, {ID: 2, DueDay: 28}}
	ref := time.Date(2023, 2, 27, 0, 0, 0, 0, time.UTC)
	due := dueBills(bills, ref, 5)
	require.Len(t, due, 1)
	assert.Equal(t, uint(2), due[0].bill.ID)
	assert.Equal(t, time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC), due[0].date)
}
