package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PushSubscriptionRepository handles database operations for PushSubscription
type PushSubscriptionRepository struct {
	db *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{db: db}
}

// Upsert registers a device token, reactivating it if it was unsubscribed
func (r *PushSubscriptionRepository) Upsert(userID uuid.UUID, subscriberID, deviceType string) error {
	sub := model.PushSubscription{
		UserID:       userID,
		SubscriberID: subscriberID,
		DeviceType:   deviceType,
		IsActive:     true,
		LastActiveAt: time.Now(),
	}
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "subscriber_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"is_active":      true,
			"device_type":    deviceType,
			"last_active_at": time.Now(),
		}),
	}).Create(&sub).Error
}

// Deactivate marks a device token inactive without losing its history
func (r *PushSubscriptionRepository) Deactivate(userID uuid.UUID, subscriberID string) error {
	result := r.db.Model(&model.PushSubscription{}).
		Where("user_id = ? AND subscriber_id = ?", userID, subscriberID).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ActiveByUser returns all active device subscriptions for a user
func (r *PushSubscriptionRepository) ActiveByUser(ctx context.Context, userID uuid.UUID) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = true", userID).
		Find(&subs).Error
	return subs, err
}

// CountActive returns how many active devices a user has registered
func (r *PushSubscriptionRepository) CountActive(userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.PushSubscription{}).
		Where("user_id = ? AND is_active = true", userID).
		Count(&count).Error
	return count, err
}
