package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents a registered user
type User struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name            string     `json:"name" gorm:"size:100;not null"`
	Email           string     `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Password        string     `json:"-" gorm:"size:255"`
	Avatar          string     `json:"avatar" gorm:"size:500;default:''"`
	EmailVerifiedAt *time.Time `json:"email_verified_at" gorm:"type:timestamptz"` // NULL = not verified
	// User Settings
	Theme                 string `json:"theme" gorm:"size:20;default:'system'"`
	IsNotificationEnabled bool   `json:"is_notification_enabled" gorm:"default:true"`
	Timezone              string `json:"timezone" gorm:"size:64;default:'UTC'"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsEmailVerified checks if the user's email has been verified
func (u *User) IsEmailVerified() bool {
	return u.EmailVerifiedAt != nil
}

// UserResponse is the safe version of User for API responses
type UserResponse struct {
	ID                    uuid.UUID `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Avatar                string    `json:"avatar"`
	EmailVerified         bool      `json:"email_verified"`
	Theme                 string    `json:"theme"`
	IsNotificationEnabled bool      `json:"is_notification_enabled"`
	Timezone              string    `json:"timezone"`
}

// ToResponse converts User to safe UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                    u.ID,
		Name:                  u.Name,
		Email:                 u.Email,
		Avatar:                u.Avatar,
		EmailVerified:         u.IsEmailVerified(),
		Theme:                 u.Theme,
		IsNotificationEnabled: u.IsNotificationEnabled,
		Timezone:              u.Timezone,
	}
}
