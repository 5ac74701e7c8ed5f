package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/recurrence"
)

// DispatchStore is the slice of reminder persistence the dispatcher needs
type DispatchStore interface {
	ClaimDue(ctx context.Context, now time.Time, claimTTL time.Duration) ([]model.Reminder, error)
	AdvanceSchedule(ctx context.Context, id uuid.UUID, adv model.ScheduleAdvance) error
	CreateLogs(ctx context.Context, logs []model.ReminderLog) error
}

// SubscriptionStore resolves a user's active push devices
type SubscriptionStore interface {
	ActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.PushSubscription, error)
}

// EmailSender delivers one batched reminder email
type EmailSender interface {
	SendPrayerReminders(to string, prayers []model.PrayerSummary) error
}

// PushDeliverer fans one notification out to a set of device tokens
type PushDeliverer interface {
	SendToDevices(ctx context.Context, tokens []string, title, body, link string, data map[string]string) (int, error)
}

// DispatchOptions tunes one tick of the dispatcher
type DispatchOptions struct {
	BatchTimeout time.Duration // per user/channel send budget
	ClaimTTL     time.Duration // how long a claimed row stays invisible to other ticks
	PublicURL    string        // push click-through target
}

// DispatchService runs one tick of the reminder system: claim everything
// due, batch per user and channel, send, log, and advance each schedule
// exactly once.
type DispatchService struct {
	reminders DispatchStore
	subs      SubscriptionStore
	email     EmailSender
	push      PushDeliverer
	opts      DispatchOptions
}

func NewDispatchService(
	reminders DispatchStore,
	subs SubscriptionStore,
	email EmailSender,
	push PushDeliverer,
	opts DispatchOptions,
) *DispatchService {
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 15 * time.Second
	}
	if opts.ClaimTTL <= 0 {
		opts.ClaimTTL = 10 * time.Minute
	}
	return &DispatchService{
		reminders: reminders,
		subs:      subs,
		email:     email,
		push:      push,
		opts:      opts,
	}
}

// dispatchBatch is one user/channel group of due reminders
type dispatchBatch struct {
	UserID    uuid.UUID
	Channel   string
	Reminders []model.Reminder
}

// Run executes one dispatch tick. A selection error fails the whole tick;
// send failures are isolated per batch and reported in the summary.
func (s *DispatchService) Run(ctx context.Context, now time.Time) (*model.DispatchSummary, error) {
	due, err := s.reminders.ClaimDue(ctx, now, s.opts.ClaimTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due reminders: %w", err)
	}

	summary := &model.DispatchSummary{
		TotalReminders: len(due),
		Results:        []model.DispatchBatchResult{},
	}
	if len(due) == 0 {
		return summary, nil
	}

	log.Printf("🔔 Dispatching %d due reminders", len(due))

	for _, batch := range groupByUserChannel(due) {
		result := s.sendBatch(ctx, batch, now)
		if result.Status == model.LogStatusSent {
			summary.Sent++
		} else {
			summary.Failed++
		}
		summary.Results = append(summary.Results, result)
	}
	summary.TotalNotifications = len(summary.Results)

	// Advance every due reminder exactly once, after all its channel sends
	// have been resolved. A failed send still consumes the occurrence.
	for i := range due {
		adv := s.computeAdvance(&due[i], now)
		if err := s.reminders.AdvanceSchedule(ctx, due[i].ID, adv); err != nil {
			// The claim stays in place, so the row cannot refire (and
			// double-send) until the claim TTL lapses.
			log.Printf("❌ Failed to advance reminder %s: %v", due[i].ID, err)
		}
	}

	return summary, nil
}

// sendBatch attempts one user/channel notification and writes one audit row
// per reminder in the batch.
func (s *DispatchService) sendBatch(ctx context.Context, batch dispatchBatch, now time.Time) model.DispatchBatchResult {
	sendCtx, cancel := context.WithTimeout(ctx, s.opts.BatchTimeout)
	defer cancel()

	var meta map[string]interface{}
	var err error
	switch batch.Channel {
	case model.ChannelEmail:
		meta, err = s.sendEmailBatch(batch)
	case model.ChannelPush:
		meta, err = s.sendPushBatch(sendCtx, batch)
	default:
		err = fmt.Errorf("unknown channel %q", batch.Channel)
	}

	result := model.DispatchBatchResult{
		UserID:  batch.UserID,
		Channel: batch.Channel,
		Count:   len(batch.Reminders),
		Status:  model.LogStatusSent,
	}
	if meta == nil {
		meta = map[string]interface{}{"batched": true, "batch_size": len(batch.Reminders)}
	}
	if err != nil {
		log.Printf("❌ Failed to send %s batch for user %s: %v", batch.Channel, batch.UserID, err)
		result.Status = model.LogStatusFailed
		result.Error = err.Error()
		meta["error"] = err.Error()
	}

	logs := make([]model.ReminderLog, 0, len(batch.Reminders))
	for _, rem := range batch.Reminders {
		logs = append(logs, model.ReminderLog{
			ReminderID: rem.ID,
			Channel:    batch.Channel,
			SentAt:     now,
			Status:     result.Status,
			Metadata:   meta,
		})
	}
	if err := s.reminders.CreateLogs(ctx, logs); err != nil {
		log.Printf("⚠️ Failed to write reminder logs for user %s (%s): %v", batch.UserID, batch.Channel, err)
	}

	return result
}

// sendEmailBatch composes one email covering every due prayer for the user
func (s *DispatchService) sendEmailBatch(batch dispatchBatch) (map[string]interface{}, error) {
	to := batch.Reminders[0].Destination.Email
	if to == "" {
		return nil, errors.New("no email address in destination")
	}

	prayers := make([]model.PrayerSummary, 0, len(batch.Reminders))
	for _, rem := range batch.Reminders {
		summary := rem.Prayer.Summary()
		if summary.Title == "" {
			summary.Title = "Your Prayer"
		}
		prayers = append(prayers, summary)
	}

	if err := s.email.SendPrayerReminders(to, prayers); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"batched":    true,
		"batch_size": len(batch.Reminders),
	}, nil
}

// sendPushBatch resolves the user's devices and sends one multicast covering
// every due prayer.
func (s *DispatchService) sendPushBatch(ctx context.Context, batch dispatchBatch) (map[string]interface{}, error) {
	subs, err := s.subs.ActiveByUser(ctx, batch.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load push subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return nil, errors.New("no push subscriptions found for user")
	}

	tokens := make([]string, 0, len(subs))
	for _, sub := range subs {
		tokens = append(tokens, sub.SubscriberID)
	}

	title, body := composePushMessage(batch.Reminders)
	data := map[string]string{
		"type":         "prayer_reminder",
		"prayer_count": strconv.Itoa(len(batch.Reminders)),
	}

	devices, err := s.push.SendToDevices(ctx, tokens, title, body, s.opts.PublicURL+"/prayers", data)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"batched":      true,
		"batch_size":   len(batch.Reminders),
		"devices_sent": devices,
	}, nil
}

// computeAdvance decides where a reminder's schedule goes after this fire
func (s *DispatchService) computeAdvance(rem *model.Reminder, now time.Time) model.ScheduleAdvance {
	next, err := recurrence.NextRun(rem.Schedule(), now)
	if err != nil {
		// Unsupported recurrence: warn loudly, then stop the schedule.
		log.Printf("⚠️ Reminder %s has unsupported recurrence %q: %v", rem.ID, rem.RecurrenceType, err)
		next = nil
	}

	adv := model.ScheduleAdvance{
		LastRunAt: now,
		NextRunAt: next,
	}
	if rem.OccurrenceCount != nil {
		remaining := *rem.OccurrenceCount - 1
		adv.OccurrenceCount = &remaining
	}

	switch {
	case next == nil:
		adv.Deactivate = true
	case rem.EndDate != nil && next.After(*rem.EndDate):
		adv.Deactivate = true
	case adv.OccurrenceCount != nil && *adv.OccurrenceCount <= 0:
		adv.Deactivate = true
	}
	return adv
}

// groupByUserChannel partitions due reminders into user/channel batches,
// preserving first-seen order so a tick is deterministic for a given input.
func groupByUserChannel(due []model.Reminder) []dispatchBatch {
	var batches []dispatchBatch
	index := map[string]int{}

	for _, rem := range due {
		for _, channel := range rem.Channels {
			key := rem.UserID.String() + "/" + channel
			i, ok := index[key]
			if !ok {
				i = len(batches)
				index[key] = i
				batches = append(batches, dispatchBatch{UserID: rem.UserID, Channel: channel})
			}
			batches[i].Reminders = append(batches[i].Reminders, rem)
		}
	}
	return batches
}

// composePushMessage builds the push title/body, truncating long batches to
// the first three prayer titles.
func composePushMessage(reminders []model.Reminder) (title, body string) {
	if len(reminders) == 1 {
		prayer := reminders[0].Prayer
		title = "Prayer Reminder: " + orDefault(prayer.Title, "Your Prayer")
		body = orDefault(prayer.Description, "Time to pray for your request")
		return title, body
	}

	title = fmt.Sprintf("Prayer Reminders: %d prayers", len(reminders))
	cutoff := len(reminders)
	if cutoff > 3 {
		cutoff = 3
	}
	titles := make([]string, 0, cutoff)
	for _, rem := range reminders[:cutoff] {
		titles = append(titles, orDefault(rem.Prayer.Title, "Prayer"))
	}
	body = strings.Join(titles, ", ")
	if len(reminders) > 3 {
		body = fmt.Sprintf("%s, and %d more...", body, len(reminders)-3)
	}
	return title, body
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
