package model

import (
	"time"

	"github.com/google/uuid"
)

// Reflection is a journal note a user writes about a prayer over time
type Reflection struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	PrayerID uuid.UUID `json:"prayer_id" gorm:"type:uuid;not null;index"`
	Content  string    `json:"content" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Prayer Prayer `json:"-" gorm:"foreignKey:PrayerID;constraint:OnDelete:CASCADE"`
}
