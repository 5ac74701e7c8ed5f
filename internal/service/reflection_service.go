package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/repository"
)

// ReflectionService handles journal reflections on prayers
type ReflectionService struct {
	reflectionRepo *repository.ReflectionRepository
	prayerRepo     *repository.PrayerRepository
}

func NewReflectionService(
	reflectionRepo *repository.ReflectionRepository,
	prayerRepo *repository.PrayerRepository,
) *ReflectionService {
	return &ReflectionService{
		reflectionRepo: reflectionRepo,
		prayerRepo:     prayerRepo,
	}
}

// Create adds a reflection to one of the user's prayers
func (s *ReflectionService) Create(userID uuid.UUID, req model.CreateReflectionRequest) (*model.Reflection, error) {
	// The prayer must exist and belong to the user
	if _, err := s.prayerRepo.FindByID(req.PrayerID, userID); err != nil {
		return nil, errors.New("prayer not found")
	}

	reflection := &model.Reflection{
		UserID:   userID,
		PrayerID: req.PrayerID,
		Content:  req.Content,
	}
	if err := s.reflectionRepo.Create(reflection); err != nil {
		return nil, errors.New("failed to create reflection")
	}
	return reflection, nil
}

// List returns the user's reflections, optionally for a single prayer
func (s *ReflectionService) List(userID uuid.UUID, prayerID *uuid.UUID) ([]model.Reflection, error) {
	return s.reflectionRepo.List(userID, prayerID)
}

// Update rewrites a reflection's content
func (s *ReflectionService) Update(id, userID uuid.UUID, req model.UpdateReflectionRequest) (*model.Reflection, error) {
	return s.reflectionRepo.UpdateContent(id, userID, req.Content)
}

// Delete removes a reflection
func (s *ReflectionService) Delete(id, userID uuid.UUID) error {
	return s.reflectionRepo.Delete(id, userID)
}
