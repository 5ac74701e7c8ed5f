package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"gorm.io/gorm"
)

// ReminderRepository handles database operations for Reminder and ReminderLog
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// Create inserts a new reminder
func (r *ReminderRepository) Create(reminder *model.Reminder) error {
	return r.db.Create(reminder).Error
}

// FindByID finds a reminder owned by the given user
func (r *ReminderRepository) FindByID(id, userID uuid.UUID) (*model.Reminder, error) {
	var reminder model.Reminder
	err := r.db.Preload("Prayer").Where("id = ? AND user_id = ?", id, userID).First(&reminder).Error
	if err != nil {
		return nil, err
	}
	return &reminder, nil
}

// ListByUser returns all of a user's reminders with their prayers
func (r *ReminderRepository) ListByUser(userID uuid.UUID) ([]model.Reminder, error) {
	var reminders []model.Reminder
	err := r.db.Preload("Prayer").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reminders).Error
	return reminders, err
}

// Update applies the given column updates to a user's reminder
func (r *ReminderRepository) Update(id, userID uuid.UUID, updates map[string]interface{}) (*model.Reminder, error) {
	result := r.db.Model(&model.Reminder{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id, userID)
}

// Delete removes a reminder
func (r *ReminderRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Reminder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClaimDue atomically stamps claimed_at on every active reminder due at or
// before now and returns the claimed rows joined with their prayers. Rows
// already claimed within the TTL are skipped, so an overlapping tick cannot
// pick up the same reminders.
func (r *ReminderRepository) ClaimDue(ctx context.Context, now time.Time, claimTTL time.Duration) ([]model.Reminder, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		UPDATE reminders
		SET claimed_at = ?, updated_at = ?
		WHERE is_active = true
		  AND next_run_at <= ?
		  AND (claimed_at IS NULL OR claimed_at < ?)
		RETURNING id`,
		now, now, now, now.Add(-claimTTL),
	).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var reminders []model.Reminder
	err = r.db.WithContext(ctx).Preload("Prayer").Where("id IN ?", ids).Find(&reminders).Error
	return reminders, err
}

// AdvanceSchedule moves a claimed reminder past the fire that just happened:
// last_run_at is set, next_run_at replaced (or cleared), the remaining
// occurrence count decremented and the claim released. Deactivation and
// schedule advance happen in the same update so the active-implies-scheduled
// invariant never observes a half-written row.
func (r *ReminderRepository) AdvanceSchedule(ctx context.Context, id uuid.UUID, adv model.ScheduleAdvance) error {
	updates := map[string]interface{}{
		"last_run_at": adv.LastRunAt,
		"next_run_at": adv.NextRunAt,
		"claimed_at":  nil,
	}
	if adv.OccurrenceCount != nil {
		updates["occurrence_count"] = *adv.OccurrenceCount
	}
	if adv.Deactivate {
		updates["is_active"] = false
	}
	return r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// CreateLogs inserts one audit row per delivery attempt
func (r *ReminderRepository) CreateLogs(ctx context.Context, logs []model.ReminderLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}

// ListLogs returns the delivery history for one of the user's reminders
func (r *ReminderRepository) ListLogs(id, userID uuid.UUID, limit int) ([]model.ReminderLog, error) {
	if _, err := r.FindByID(id, userID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var logs []model.ReminderLog
	err := r.db.Where("reminder_id = ?", id).
		Order("sent_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
