package model

import (
	"time"

	"github.com/google/uuid"
)

// Delivery outcomes recorded per reminder per channel
const (
	LogStatusSent   = "sent"
	LogStatusFailed = "failed"
)

// ReminderLog is an immutable audit record of one delivery attempt for one
// reminder on one channel. Written once per dispatch attempt, never updated.
type ReminderLog struct {
	ID         uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ReminderID uuid.UUID              `json:"reminder_id" gorm:"type:uuid;not null;index"`
	Channel    string                 `json:"channel" gorm:"size:10;not null"`
	SentAt     time.Time              `json:"sent_at" gorm:"not null"`
	Status     string                 `json:"status" gorm:"size:10;not null"`
	Metadata   map[string]interface{} `json:"metadata" gorm:"serializer:json"`

	CreatedAt time.Time `json:"created_at"`
}
