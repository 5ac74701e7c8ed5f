package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/recurrence"
	"github.com/prayerly/prayerly-api/internal/repository"
)

// ReminderService handles reminder CRUD for the journal surface.
// Dispatching due reminders lives in DispatchService.
type ReminderService struct {
	reminderRepo *repository.ReminderRepository
}

func NewReminderService(reminderRepo *repository.ReminderRepository) *ReminderService {
	return &ReminderService{reminderRepo: reminderRepo}
}

// List returns all of the user's reminders with their prayers
func (s *ReminderService) List(userID uuid.UUID) ([]model.Reminder, error) {
	return s.reminderRepo.ListByUser(userID)
}

// Get returns one of the user's reminders
func (s *ReminderService) Get(id, userID uuid.UUID) (*model.Reminder, error) {
	return s.reminderRepo.FindByID(id, userID)
}

// Update changes a reminder's schedule or pauses/resumes it. Any change to
// the recurrence shape, and any resume, recomputes next_run_at from now so
// the reminder cannot come back due in the past.
func (s *ReminderService) Update(id, userID uuid.UUID, req model.UpdateReminderRequest) (*model.Reminder, error) {
	reminder, err := s.reminderRepo.FindByID(id, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	rescheduled := false

	if req.RecurrenceType != nil && *req.RecurrenceType != reminder.RecurrenceType {
		updates["recurrence_type"] = *req.RecurrenceType
		reminder.RecurrenceType = *req.RecurrenceType
		rescheduled = true
	}
	if req.TimeOfDay != nil {
		updates["time_of_day"] = *req.TimeOfDay
		reminder.TimeOfDay = *req.TimeOfDay
		rescheduled = true
	}
	if req.DaysOfWeek != nil {
		updates["days_of_week"] = req.DaysOfWeek
		reminder.DaysOfWeek = req.DaysOfWeek
		rescheduled = true
	}
	if req.Channels != nil {
		updates["channels"] = req.Channels
	}
	if req.EndDate != nil {
		updates["end_date"] = req.EndDate
	}

	resuming := false
	if req.IsActive != nil {
		if !*req.IsActive {
			updates["is_active"] = false
		} else if !reminder.IsActive {
			resuming = true
		}
	}

	if rescheduled || resuming {
		next, err := nextRunFromNow(reminder, time.Now())
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, errors.New("schedule has no upcoming run; choose a recurring type")
		}
		updates["next_run_at"] = next
		updates["claimed_at"] = nil
		if req.IsActive == nil || *req.IsActive {
			updates["is_active"] = true
		}
	}

	if len(updates) == 0 {
		return reminder, nil
	}
	return s.reminderRepo.Update(id, userID, updates)
}

// Delete removes a reminder
func (s *ReminderService) Delete(id, userID uuid.UUID) error {
	return s.reminderRepo.Delete(id, userID)
}

// Logs returns the delivery history for one of the user's reminders
func (s *ReminderService) Logs(id, userID uuid.UUID, limit int) ([]model.ReminderLog, error) {
	return s.reminderRepo.ListLogs(id, userID, limit)
}

// nextRunFromNow evaluates the schedule as if the current run just happened,
// yielding the first upcoming fire. Single reminders get one run tomorrow.
func nextRunFromNow(reminder *model.Reminder, now time.Time) (*time.Time, error) {
	if reminder.RecurrenceType == recurrence.TypeSingle {
		sched := reminder.Schedule()
		sched.Type = recurrence.TypeDaily
		sched.NextRunAt = nil
		return recurrence.NextRun(sched, now)
	}

	sched := reminder.Schedule()
	sched.NextRunAt = nil
	return recurrence.NextRun(sched, now)
}
