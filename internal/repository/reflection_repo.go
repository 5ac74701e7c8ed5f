package repository

import (
	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"gorm.io/gorm"
)

// ReflectionRepository handles database operations for Reflection
type ReflectionRepository struct {
	db *gorm.DB
}

func NewReflectionRepository(db *gorm.DB) *ReflectionRepository {
	return &ReflectionRepository{db: db}
}

// Create inserts a new reflection
func (r *ReflectionRepository) Create(reflection *model.Reflection) error {
	return r.db.Create(reflection).Error
}

// FindByID finds a reflection owned by the given user
func (r *ReflectionRepository) FindByID(id, userID uuid.UUID) (*model.Reflection, error) {
	var reflection model.Reflection
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&reflection).Error
	if err != nil {
		return nil, err
	}
	return &reflection, nil
}

// List returns a user's reflections, optionally scoped to one prayer
func (r *ReflectionRepository) List(userID uuid.UUID, prayerID *uuid.UUID) ([]model.Reflection, error) {
	q := r.db.Where("user_id = ?", userID)
	if prayerID != nil {
		q = q.Where("prayer_id = ?", *prayerID)
	}
	var reflections []model.Reflection
	err := q.Order("created_at DESC").Find(&reflections).Error
	return reflections, err
}

// UpdateContent replaces a reflection's content
func (r *ReflectionRepository) UpdateContent(id, userID uuid.UUID, content string) (*model.Reflection, error) {
	result := r.db.Model(&model.Reflection{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("content", content)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id, userID)
}

// Delete removes a reflection
func (r *ReflectionRepository) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Reflection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
