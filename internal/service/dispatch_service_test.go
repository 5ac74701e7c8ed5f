package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/recurrence"
)

// ---- fakes ----

type fakeReminderStore struct {
	due      []model.Reminder
	claimErr error

	advances   map[uuid.UUID]model.ScheduleAdvance
	advanceHit map[uuid.UUID]int
	advanceErr error

	logs []model.ReminderLog
}

func newFakeReminderStore(due ...model.Reminder) *fakeReminderStore {
	return &fakeReminderStore{
		due:        due,
		advances:   map[uuid.UUID]model.ScheduleAdvance{},
		advanceHit: map[uuid.UUID]int{},
	}
}

func (f *fakeReminderStore) ClaimDue(ctx context.Context, now time.Time, claimTTL time.Duration) ([]model.Reminder, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return f.due, nil
}

func (f *fakeReminderStore) AdvanceSchedule(ctx context.Context, id uuid.UUID, adv model.ScheduleAdvance) error {
	f.advanceHit[id]++
	if f.advanceErr != nil {
		return f.advanceErr
	}
	f.advances[id] = adv
	return nil
}

func (f *fakeReminderStore) CreateLogs(ctx context.Context, logs []model.ReminderLog) error {
	f.logs = append(f.logs, logs...)
	return nil
}

type fakeSubscriptionStore struct {
	subs map[uuid.UUID][]model.PushSubscription
	err  error
}

func (f *fakeSubscriptionStore) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.PushSubscription, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.subs[userID], nil
}

type emailCall struct {
	to      string
	prayers []model.PrayerSummary
}

type fakeEmailSender struct {
	calls   []emailCall
	failFor map[string]error
}

func (f *fakeEmailSender) SendPrayerReminders(to string, prayers []model.PrayerSummary) error {
	if err, ok := f.failFor[to]; ok {
		return err
	}
	f.calls = append(f.calls, emailCall{to: to, prayers: prayers})
	return nil
}

type pushCall struct {
	tokens []string
	title  string
	body   string
	link   string
	data   map[string]string
}

type fakePushSender struct {
	calls   []pushCall
	devices int
	err     error
}

func (f *fakePushSender) SendToDevices(ctx context.Context, tokens []string, title, body, link string, data map[string]string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.calls = append(f.calls, pushCall{tokens: tokens, title: title, body: body, link: link, data: data})
	if f.devices > 0 {
		return f.devices, nil
	}
	return len(tokens), nil
}

// ---- helpers ----

var dispatchNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) // Tuesday

func dailyReminder(userID uuid.UUID, title string, channels ...string) model.Reminder {
	next := dispatchNow
	return model.Reminder{
		ID:             uuid.New(),
		UserID:         userID,
		PrayerID:       uuid.New(),
		RecurrenceType: recurrence.TypeDaily,
		TimeOfDay:      "09:00:00",
		NextRunAt:      &next,
		Channels:       channels,
		Destination:    model.Destination{Email: "pray@example.com"},
		IsActive:       true,
		Prayer:         model.Prayer{Title: title, Description: "Please pray for " + title},
	}
}

func newDispatcher(store *fakeReminderStore, subs *fakeSubscriptionStore, email *fakeEmailSender, push *fakePushSender) *DispatchService {
	if subs == nil {
		subs = &fakeSubscriptionStore{subs: map[uuid.UUID][]model.PushSubscription{}}
	}
	if email == nil {
		email = &fakeEmailSender{}
	}
	if push == nil {
		push = &fakePushSender{}
	}
	return NewDispatchService(store, subs, email, push, DispatchOptions{
		BatchTimeout: time.Second,
		ClaimTTL:     time.Minute,
		PublicURL:    "https://prayerly.app",
	})
}

// ---- tests ----

func TestDispatchEmptyTick(t *testing.T) {
	store := newFakeReminderStore()
	email := &fakeEmailSender{}

	summary, err := newDispatcher(store, nil, email, nil).Run(context.Background(), dispatchNow)
	require.NoError(t, err)
	require.Equal(t, 0, summary.TotalReminders)
	require.Equal(t, 0, summary.TotalNotifications)
	require.Empty(t, email.calls)
	require.Empty(t, store.logs)
}

func TestDispatchClaimErrorFailsTick(t *testing.T) {
	store := newFakeReminderStore()
	store.claimErr = errors.New("connection refused")

	_, err := newDispatcher(store, nil, nil, nil).Run(context.Background(), dispatchNow)
	require.ErrorContains(t, err, "failed to fetch due reminders")
}

func TestDispatchBatchesPerUserAndChannel(t *testing.T) {
	userID := uuid.New()
	store := newFakeReminderStore(
		dailyReminder(userID, "Healing", model.ChannelEmail, model.ChannelPush),
		dailyReminder(userID, "Guidance", model.ChannelEmail, model.ChannelPush),
		dailyReminder(userID, "Peace", model.ChannelEmail, model.ChannelPush),
	)
	subs := &fakeSubscriptionStore{subs: map[uuid.UUID][]model.PushSubscription{
		userID: {{SubscriberID: "token-1"}, {SubscriberID: "token-2"}},
	}}
	email := &fakeEmailSender{}
	push := &fakePushSender{}

	summary, err := newDispatcher(store, subs, email, push).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	// 3 reminders collapse into one email and one push, not 6 sends
	require.Equal(t, 3, summary.TotalReminders)
	require.Equal(t, 2, summary.TotalNotifications)
	require.Equal(t, 2, summary.Sent)
	require.Equal(t, 0, summary.Failed)

	require.Len(t, email.calls, 1)
	require.Equal(t, "pray@example.com", email.calls[0].to)
	require.Len(t, email.calls[0].prayers, 3)

	require.Len(t, push.calls, 1)
	require.Equal(t, []string{"token-1", "token-2"}, push.calls[0].tokens)
	require.Equal(t, "https://prayerly.app/prayers", push.calls[0].link)
	require.Equal(t, "3", push.calls[0].data["prayer_count"])

	// one audit row per reminder per channel
	require.Len(t, store.logs, 6)
	for _, entry := range store.logs {
		require.Equal(t, model.LogStatusSent, entry.Status)
		require.Equal(t, true, entry.Metadata["batched"])
		require.Equal(t, 3, entry.Metadata["batch_size"])
	}
}

func TestDispatchPushMessageSingle(t *testing.T) {
	userID := uuid.New()
	store := newFakeReminderStore(dailyReminder(userID, "Healing", model.ChannelPush))
	subs := &fakeSubscriptionStore{subs: map[uuid.UUID][]model.PushSubscription{
		userID: {{SubscriberID: "token-1"}},
	}}
	push := &fakePushSender{}

	_, err := newDispatcher(store, subs, nil, push).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	require.Len(t, push.calls, 1)
	require.Equal(t, "Prayer Reminder: Healing", push.calls[0].title)
	require.Equal(t, "Please pray for Healing", push.calls[0].body)
}

func TestDispatchPushMessageTruncatesToThree(t *testing.T) {
	userID := uuid.New()
	store := newFakeReminderStore(
		dailyReminder(userID, "Alpha", model.ChannelPush),
		dailyReminder(userID, "Bravo", model.ChannelPush),
		dailyReminder(userID, "Charlie", model.ChannelPush),
		dailyReminder(userID, "Delta", model.ChannelPush),
		dailyReminder(userID, "Echo", model.ChannelPush),
	)
	subs := &fakeSubscriptionStore{subs: map[uuid.UUID][]model.PushSubscription{
		userID: {{SubscriberID: "token-1"}},
	}}
	push := &fakePushSender{}

	_, err := newDispatcher(store, subs, nil, push).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	require.Len(t, push.calls, 1)
	require.Equal(t, "Prayer Reminders: 5 prayers", push.calls[0].title)
	require.Equal(t, "Alpha, Bravo, Charlie, and 2 more...", push.calls[0].body)
}

func TestDispatchFailureIsolatedPerBatch(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	remA := dailyReminder(userA, "Fails", model.ChannelEmail)
	remA.Destination.Email = "down@example.com"
	remB := dailyReminder(userB, "Succeeds", model.ChannelEmail)

	store := newFakeReminderStore(remA, remB)
	email := &fakeEmailSender{failFor: map[string]error{
		"down@example.com": errors.New("smtp: 550 mailbox unavailable"),
	}}

	summary, err := newDispatcher(store, nil, email, nil).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	require.Equal(t, 1, summary.Sent)
	require.Equal(t, 1, summary.Failed)
	require.Len(t, email.calls, 1)
	require.Equal(t, "pray@example.com", email.calls[0].to)

	// the failed attempt is still audited, with the error in metadata
	require.Len(t, store.logs, 2)
	byStatus := map[string]model.ReminderLog{}
	for _, entry := range store.logs {
		byStatus[entry.Status] = entry
	}
	require.Contains(t, byStatus, model.LogStatusFailed)
	require.Contains(t, byStatus[model.LogStatusFailed].Metadata["error"], "mailbox unavailable")

	// a failed send still consumes the occurrence
	require.Equal(t, 1, store.advanceHit[remA.ID])
	require.Equal(t, 1, store.advanceHit[remB.ID])
}

func TestDispatchNoPushSubscriptionsFailsBatch(t *testing.T) {
	userID := uuid.New()
	store := newFakeReminderStore(dailyReminder(userID, "Quiet", model.ChannelPush))
	push := &fakePushSender{}

	summary, err := newDispatcher(store, nil, nil, push).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	require.Equal(t, 1, summary.Failed)
	require.Empty(t, push.calls)
	require.Len(t, store.logs, 1)
	require.Equal(t, model.LogStatusFailed, store.logs[0].Status)
}

func TestDispatchAdvancesOncePerReminder(t *testing.T) {
	userID := uuid.New()
	rem := dailyReminder(userID, "Both channels", model.ChannelEmail, model.ChannelPush)
	store := newFakeReminderStore(rem)
	subs := &fakeSubscriptionStore{subs: map[uuid.UUID][]model.PushSubscription{
		userID: {{SubscriberID: "token-1"}},
	}}

	_, err := newDispatcher(store, subs, nil, nil).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	// two channels, one schedule advance
	require.Equal(t, 1, store.advanceHit[rem.ID])

	adv := store.advances[rem.ID]
	require.Equal(t, dispatchNow, adv.LastRunAt)
	require.NotNil(t, adv.NextRunAt)
	require.Equal(t, dispatchNow.AddDate(0, 0, 1), *adv.NextRunAt)
	require.False(t, adv.Deactivate)
	require.Nil(t, adv.OccurrenceCount)
}

func TestDispatchDeactivatesSingleReminder(t *testing.T) {
	rem := dailyReminder(uuid.New(), "Once", model.ChannelEmail)
	rem.RecurrenceType = recurrence.TypeSingle
	store := newFakeReminderStore(rem)

	_, err := newDispatcher(store, nil, nil, nil).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	adv := store.advances[rem.ID]
	require.Nil(t, adv.NextRunAt)
	require.True(t, adv.Deactivate)
}

func TestDispatchDeactivatesOnLastOccurrence(t *testing.T) {
	rem := dailyReminder(uuid.New(), "Last one", model.ChannelEmail)
	one := 1
	rem.OccurrenceCount = &one
	store := newFakeReminderStore(rem)

	_, err := newDispatcher(store, nil, nil, nil).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	adv := store.advances[rem.ID]
	require.NotNil(t, adv.OccurrenceCount)
	require.Equal(t, 0, *adv.OccurrenceCount)
	require.True(t, adv.Deactivate)
}

func TestDispatchDeactivatesPastEndDate(t *testing.T) {
	rem := dailyReminder(uuid.New(), "Expiring", model.ChannelEmail)
	endDate := dispatchNow.Add(time.Hour) // before tomorrow's run
	rem.EndDate = &endDate
	store := newFakeReminderStore(rem)

	_, err := newDispatcher(store, nil, nil, nil).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	adv := store.advances[rem.ID]
	require.NotNil(t, adv.NextRunAt)
	require.True(t, adv.Deactivate)
}

func TestDispatchUnsupportedRecurrenceStillSendsThenStops(t *testing.T) {
	rem := dailyReminder(uuid.New(), "Cron based", model.ChannelEmail)
	rem.RecurrenceType = recurrence.TypeCustomCron
	store := newFakeReminderStore(rem)
	email := &fakeEmailSender{}

	summary, err := newDispatcher(store, nil, email, nil).Run(context.Background(), dispatchNow)
	require.NoError(t, err)

	// the due fire goes out, then the schedule is stopped instead of looping
	require.Equal(t, 1, summary.Sent)
	require.Len(t, email.calls, 1)

	adv := store.advances[rem.ID]
	require.Nil(t, adv.NextRunAt)
	require.True(t, adv.Deactivate)
}

func TestGroupByUserChannelPreservesOrder(t *testing.T) {
	userA := uuid.New()
	userB := uuid.New()
	due := []model.Reminder{
		dailyReminder(userA, "One", model.ChannelEmail, model.ChannelPush),
		dailyReminder(userB, "Two", model.ChannelEmail),
		dailyReminder(userA, "Three", model.ChannelEmail),
	}

	batches := groupByUserChannel(due)
	require.Len(t, batches, 3)

	require.Equal(t, userA, batches[0].UserID)
	require.Equal(t, model.ChannelEmail, batches[0].Channel)
	require.Len(t, batches[0].Reminders, 2)

	require.Equal(t, userA, batches[1].UserID)
	require.Equal(t, model.ChannelPush, batches[1].Channel)

	require.Equal(t, userB, batches[2].UserID)
	require.Equal(t, model.ChannelEmail, batches[2].Channel)
}
