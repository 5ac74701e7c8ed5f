package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/recurrence"
	"github.com/prayerly/prayerly-api/internal/repository"
)

// PrayerService handles prayer journal business logic
type PrayerService struct {
	prayerRepo   *repository.PrayerRepository
	reminderRepo *repository.ReminderRepository
	userRepo     *repository.UserRepository
}

func NewPrayerService(
	prayerRepo *repository.PrayerRepository,
	reminderRepo *repository.ReminderRepository,
	userRepo *repository.UserRepository,
) *PrayerService {
	return &PrayerService{
		prayerRepo:   prayerRepo,
		reminderRepo: reminderRepo,
		userRepo:     userRepo,
	}
}

// Create records a new prayer and, when the submit form picked a recurrence
// other than "none", attaches a reminder scheduled for tomorrow 09:00 in the
// user's timezone, delivered to the account email by default.
func (s *PrayerService) Create(userID uuid.UUID, req model.CreatePrayerRequest) (*model.CreatePrayerResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	prayer := &model.Prayer{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Metadata:    req.Metadata,
	}
	if err := s.prayerRepo.Create(prayer); err != nil {
		return nil, errors.New("failed to create prayer")
	}

	resp := &model.CreatePrayerResponse{
		Message: "Prayer submitted successfully",
		Prayer:  *prayer,
	}

	if req.Recurrence == "" || req.Recurrence == "none" {
		return resp, nil
	}

	loc := time.UTC
	if user.Timezone != "" {
		if l, err := time.LoadLocation(user.Timezone); err == nil {
			loc = l
		}
	}

	now := time.Now().In(loc)
	tomorrow := now.AddDate(0, 0, 1)
	firstRun := time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), 9, 0, 0, 0, loc)

	channels := req.Channels
	if len(channels) == 0 {
		channels = []string{model.ChannelEmail}
	}

	reminder := &model.Reminder{
		UserID:         userID,
		PrayerID:       prayer.ID,
		RecurrenceType: recurrence.Type(req.Recurrence),
		TimeOfDay:      "09:00:00",
		StartDate:      now,
		NextRunAt:      &firstRun,
		Timezone:       user.Timezone,
		Channels:       channels,
		Destination:    model.Destination{Email: user.Email},
		IsActive:       true,
	}
	if err := s.reminderRepo.Create(reminder); err != nil {
		return nil, errors.New("failed to create reminder")
	}

	resp.Message = "Prayer submitted and reminder scheduled"
	resp.Reminder = reminder
	return resp, nil
}

// Get returns one of the user's prayers
func (s *PrayerService) Get(id, userID uuid.UUID) (*model.Prayer, error) {
	return s.prayerRepo.FindByID(id, userID)
}

// List returns the user's prayers matching the filter
func (s *PrayerService) List(userID uuid.UUID, filter model.PrayerFilterRequest) ([]model.Prayer, error) {
	return s.prayerRepo.ListFiltered(userID, filter)
}

// Update applies partial changes to a prayer
func (s *PrayerService) Update(id, userID uuid.UUID, req model.UpdatePrayerRequest) (*model.Prayer, error) {
	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.IsAnswered != nil {
		updates["is_answered"] = *req.IsAnswered
	}
	if req.IsArchived != nil {
		updates["is_archived"] = *req.IsArchived
	}
	if req.Metadata != nil {
		updates["metadata"] = req.Metadata
	}
	if len(updates) == 0 {
		return nil, errors.New("nothing to update")
	}
	return s.prayerRepo.Update(id, userID, updates)
}

// Delete removes a prayer and its reminders
func (s *PrayerService) Delete(id, userID uuid.UUID) error {
	return s.prayerRepo.Delete(id, userID)
}

// Bulk applies an action to many prayers at once
func (s *PrayerService) Bulk(userID uuid.UUID, req model.BulkPrayerRequest) (int64, error) {
	switch req.Action {
	case "archive":
		return s.prayerRepo.BulkUpdate(userID, req.IDs, map[string]interface{}{"is_archived": true})
	case "unarchive":
		return s.prayerRepo.BulkUpdate(userID, req.IDs, map[string]interface{}{"is_archived": false})
	case "delete":
		return s.prayerRepo.BulkDelete(userID, req.IDs)
	default:
		return 0, errors.New("unknown bulk action")
	}
}
