package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/recurrence"
)

// Notification channels a reminder can fan out to
const (
	ChannelEmail = "email"
	ChannelPush  = "push"
)

// Destination holds channel-specific address info. Push delivery resolves
// the user's subscriptions at send time, so only email needs an address here.
type Destination struct {
	Email string `json:"email"`
}

// Reminder is a recurring notification schedule attached to one prayer.
//
// Invariant: an active reminder always has next_run_at set; once the
// calculator yields no next run the reminder is deactivated. ClaimedAt is
// the overlap guard: a dispatch tick stamps it before sending so a second
// concurrent tick cannot pick up the same row.
type Reminder struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID   uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`
	PrayerID uuid.UUID `json:"prayer_id" gorm:"type:uuid;not null;index"`

	RecurrenceType  recurrence.Type `json:"recurrence_type" gorm:"size:20;not null"`
	TimeOfDay       string          `json:"time_of_day" gorm:"size:8;default:'09:00:00'"`
	DaysOfWeek      []int           `json:"days_of_week" gorm:"serializer:json"` // 0=Sunday .. 6=Saturday
	NextRunAt       *time.Time      `json:"next_run_at" gorm:"index"`
	LastRunAt       *time.Time      `json:"last_run_at"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         *time.Time      `json:"end_date"`
	OccurrenceCount *int            `json:"occurrence_count"` // remaining fires; nil = unlimited
	Timezone        string          `json:"timezone" gorm:"size:64;default:'UTC'"`

	Channels    []string    `json:"channels" gorm:"serializer:json"`
	Destination Destination `json:"destination" gorm:"serializer:json"`

	IsActive  bool       `json:"is_active" gorm:"default:true;index"`
	ClaimedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Prayer Prayer `json:"prayer" gorm:"foreignKey:PrayerID;constraint:OnDelete:CASCADE"`
}

// ScheduleAdvance carries the once-per-tick state transition for a reminder:
// the fire that just happened and where the schedule goes next.
type ScheduleAdvance struct {
	LastRunAt       time.Time
	NextRunAt       *time.Time
	OccurrenceCount *int // decremented remaining count, when tracked
	Deactivate      bool
}

// Schedule adapts the reminder's state for the recurrence calculator
func (r *Reminder) Schedule() recurrence.Schedule {
	return recurrence.Schedule{
		Type:       r.RecurrenceType,
		TimeOfDay:  r.TimeOfDay,
		DaysOfWeek: r.DaysOfWeek,
		NextRunAt:  r.NextRunAt,
		Timezone:   r.Timezone,
	}
}

// HasChannel reports whether the reminder fans out to the given channel
func (r *Reminder) HasChannel(channel string) bool {
	for _, c := range r.Channels {
		if c == channel {
			return true
		}
	}
	return false
}
