package recurrence

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Type identifies how a reminder repeats.
type Type string

const (
	TypeSingle     Type = "single"
	TypeDaily      Type = "daily"
	TypeWeekly     Type = "weekly"
	TypeCustomCron Type = "custom_cron"
)

const (
	defaultHour   = 9
	defaultMinute = 0
)

// ErrUnsupportedRecurrence is returned for schedule types the calculator
// cannot evaluate (currently custom_cron). Callers must decide what to do
// with the reminder; it is not the same as "no further runs".
var ErrUnsupportedRecurrence = errors.New("unsupported recurrence type")

// Schedule is the slice of reminder state the calculator reads.
type Schedule struct {
	Type       Type
	TimeOfDay  string // "HH:MM:SS"; empty or malformed falls back to 09:00
	DaysOfWeek []int  // 0=Sunday .. 6=Saturday; only used for weekly
	NextRunAt  *time.Time
	Timezone   string // IANA name; empty falls back to the run time's location
}

// NextRun computes the next scheduled run after the current one. It returns
// (nil, nil) when the schedule has no further runs, and ErrUnsupportedRecurrence
// for schedule types it cannot evaluate. Pure: no I/O, deterministic for a
// given now.
func NextRun(s Schedule, now time.Time) (*time.Time, error) {
	current := now
	if s.NextRunAt != nil {
		current = *s.NextRunAt
	}

	loc := current.Location()
	if s.Timezone != "" {
		if l, err := time.LoadLocation(s.Timezone); err == nil {
			loc = l
		}
	}
	current = current.In(loc)

	hour, minute := parseTimeOfDay(s.TimeOfDay)

	// at pins a date to the configured time of day, zeroing seconds.
	at := func(d time.Time) *time.Time {
		t := time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
		return &t
	}

	switch s.Type {
	case TypeSingle:
		// One-time reminder, never reschedules.
		return nil, nil

	case TypeDaily:
		return at(current.AddDate(0, 0, 1)), nil

	case TypeWeekly:
		if len(s.DaysOfWeek) == 0 {
			// No weekday selection: same weekday next week.
			return at(current.AddDate(0, 0, 7)), nil
		}

		selected := make(map[int]bool, len(s.DaysOfWeek))
		for _, d := range s.DaysOfWeek {
			selected[d] = true
		}

		// Scan forward up to a full week for the next selected weekday.
		for add := 1; add <= 7; add++ {
			candidate := current.AddDate(0, 0, add)
			if selected[int(candidate.Weekday())] {
				return at(candidate), nil
			}
		}
		// Unreachable when the set holds valid weekday numbers.
		return nil, nil

	case TypeCustomCron:
		return nil, ErrUnsupportedRecurrence

	default:
		return nil, nil
	}
}

// parseTimeOfDay parses "HH:MM" or "HH:MM:SS", falling back to 09:00.
func parseTimeOfDay(s string) (hour, minute int) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 {
		return defaultHour, defaultMinute
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return defaultHour, defaultMinute
	}
	return h, m
}
