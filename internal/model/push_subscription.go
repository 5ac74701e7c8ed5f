package model

import (
	"time"

	"github.com/google/uuid"
)

// PushSubscription is a device-level registration for push notifications.
// A user may have several (multi-device); dispatch fans out to every active one.
type PushSubscription struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_subscriber"`
	SubscriberID string    `json:"subscriber_id" gorm:"size:512;not null;uniqueIndex:idx_user_subscriber"` // FCM device token
	DeviceType   string    `json:"device_type" gorm:"size:20;default:'unknown'"`                           // android, ios, web
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	LastActiveAt time.Time `json:"last_active_at"`
	CreatedAt    time.Time `json:"created_at"`
}
