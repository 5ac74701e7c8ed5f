package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrayerCategory groups prayers on the journal views
type PrayerCategory string

const (
	CategoryPersonal PrayerCategory = "personal"
	CategoryFamily   PrayerCategory = "family"
	CategoryFriends  PrayerCategory = "friends"
	CategoryHealth   PrayerCategory = "health"
	CategoryWork     PrayerCategory = "work"
	CategoryOther    PrayerCategory = "other"
)

// Prayer represents a single prayer request in a user's journal
type Prayer struct {
	ID          uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID      uuid.UUID              `json:"user_id" gorm:"type:uuid;not null;index"`
	Title       string                 `json:"title" gorm:"size:255;not null"`
	Description string                 `json:"description" gorm:"type:text"`
	Category    string                 `json:"category" gorm:"size:50;index"`
	IsAnswered  bool                   `json:"is_answered" gorm:"default:false"`
	IsArchived  bool                   `json:"is_archived" gorm:"default:false"`
	Metadata    map[string]interface{} `json:"metadata" gorm:"serializer:json"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// PrayerSummary is the slice of a prayer that notification messages carry
type PrayerSummary struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// Summary extracts the notification-facing fields
func (p *Prayer) Summary() PrayerSummary {
	return PrayerSummary{
		Title:       p.Title,
		Description: p.Description,
		Category:    p.Category,
	}
}
