package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/recurrence"
)

// ========== Auth DTOs ==========

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ========== OTP DTOs ==========

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type OTPSentResponse struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	ExpiresIn int    `json:"expires_in"` // seconds until code expires
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ========== Profile DTOs ==========

type UpdateProfileRequest struct {
	Name   string `json:"name" binding:"max=100"`
	Avatar string `json:"avatar" binding:"max=500"`
}

type UpdateSettingsRequest struct {
	Theme                 string `json:"theme" binding:"omitempty,oneof=light dark system"`
	IsNotificationEnabled *bool  `json:"is_notification_enabled"`
	Timezone              string `json:"timezone" binding:"omitempty,max=64"`
}

// ========== Prayer DTOs ==========

type CreatePrayerRequest struct {
	Title       string                 `json:"title" binding:"required,max=255"`
	Description string                 `json:"description"`
	Category    string                 `json:"category" binding:"omitempty,oneof=personal family friends health work other"`
	Metadata    map[string]interface{} `json:"metadata"`
	// Recurrence choice made on the submit form; "none" skips reminder creation
	Recurrence string `json:"recurrence" binding:"omitempty,oneof=none single daily weekly custom_cron"`
	Channels   []string `json:"channels" binding:"omitempty,dive,oneof=email push"`
}

type UpdatePrayerRequest struct {
	Title       *string                `json:"title" binding:"omitempty,max=255"`
	Description *string                `json:"description"`
	Category    *string                `json:"category" binding:"omitempty,oneof=personal family friends health work other"`
	IsAnswered  *bool                  `json:"is_answered"`
	IsArchived  *bool                  `json:"is_archived"`
	Metadata    map[string]interface{} `json:"metadata"`
}

type PrayerFilterRequest struct {
	Category string `form:"category"`
	Status   string `form:"status" binding:"omitempty,oneof=active answered archived"`
	Search   string `form:"search"`
	Limit    int    `form:"limit,default=50"`
	Offset   int    `form:"offset,default=0"`
}

type BulkPrayerRequest struct {
	IDs    []uuid.UUID `json:"ids" binding:"required,min=1"`
	Action string      `json:"action" binding:"required,oneof=archive unarchive delete"`
}

type CreatePrayerResponse struct {
	Message  string    `json:"message"`
	Prayer   Prayer    `json:"prayer"`
	Reminder *Reminder `json:"reminder,omitempty"`
}

// ========== Reflection DTOs ==========

type CreateReflectionRequest struct {
	PrayerID uuid.UUID `json:"prayer_id" binding:"required"`
	Content  string    `json:"content" binding:"required"`
}

type UpdateReflectionRequest struct {
	Content string `json:"content" binding:"required"`
}

// ========== Reminder DTOs ==========

type UpdateReminderRequest struct {
	RecurrenceType *recurrence.Type `json:"recurrence_type" binding:"omitempty,oneof=single daily weekly custom_cron"`
	TimeOfDay      *string          `json:"time_of_day" binding:"omitempty,len=8"`
	DaysOfWeek     []int            `json:"days_of_week" binding:"omitempty,dive,min=0,max=6"`
	Channels       []string         `json:"channels" binding:"omitempty,dive,oneof=email push"`
	EndDate        *time.Time       `json:"end_date"`
	IsActive       *bool            `json:"is_active"` // pause / resume
}

// ========== Push subscription DTOs ==========

type PushSubscribeRequest struct {
	SubscriberID string `json:"subscriber_id" binding:"required"`
	DeviceType   string `json:"device_type" binding:"omitempty,oneof=android ios web unknown"`
}

type PushUnsubscribeRequest struct {
	SubscriberID string `json:"subscriber_id" binding:"required"`
}

type PushStatusResponse struct {
	Subscribed  bool `json:"subscribed"`
	DeviceCount int  `json:"device_count"`
}

// ========== Dispatch DTOs ==========

// DispatchBatchResult is the outcome of one user/channel batch within a tick
type DispatchBatchResult struct {
	UserID  uuid.UUID `json:"user_id"`
	Channel string    `json:"channel"`
	Count   int       `json:"count"`
	Status  string    `json:"status"`
	Error   string    `json:"error,omitempty"`
}

// DispatchSummary is what one dispatch tick reports back to the scheduler
type DispatchSummary struct {
	Sent               int                   `json:"sent"`
	Failed             int                   `json:"failed"`
	TotalReminders     int                   `json:"totalReminders"`
	TotalNotifications int                   `json:"totalNotifications"`
	Results            []DispatchBatchResult `json:"results"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
