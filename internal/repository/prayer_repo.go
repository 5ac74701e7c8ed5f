package repository

import (
	"github.com/google/uuid"
	"github.com/prayerly/prayerly-api/internal/model"
	"gorm.io/gorm"
)

// PrayerRepository handles database operations for Prayer
type PrayerRepository struct {
	db *gorm.DB
}

func NewPrayerRepository(db *gorm.DB) *PrayerRepository {
	return &PrayerRepository{db: db}
}

// Create inserts a new prayer
func (r *PrayerRepository) Create(prayer *model.Prayer) error {
	return r.db.Create(prayer).Error
}

// FindByID finds a prayer owned by the given user
func (r *PrayerRepository) FindByID(id, userID uuid.UUID) (*model.Prayer, error) {
	var prayer model.Prayer
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&prayer).Error
	if err != nil {
		return nil, err
	}
	return &prayer, nil
}

// ListFiltered returns a user's prayers matching the filter
func (r *PrayerRepository) ListFiltered(userID uuid.UUID, filter model.PrayerFilterRequest) ([]model.Prayer, error) {
	q := r.db.Where("user_id = ?", userID)

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	switch filter.Status {
	case "answered":
		q = q.Where("is_answered = true")
	case "archived":
		q = q.Where("is_archived = true")
	case "active":
		q = q.Where("is_answered = false AND is_archived = false")
	}
	if filter.Search != "" {
		q = q.Where("(title ILIKE ? OR description ILIKE ?)", "%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var prayers []model.Prayer
	err := q.Order("created_at DESC").Limit(limit).Offset(filter.Offset).Find(&prayers).Error
	return prayers, err
}

// Update applies the given column updates to a user's prayer
func (r *PrayerRepository) Update(id, userID uuid.UUID, updates map[string]interface{}) (*model.Prayer, error) {
	result := r.db.Model(&model.Prayer{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id, userID)
}

// Delete soft-deletes a prayer and cascades to its reminders
func (r *PrayerRepository) Delete(id, userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Prayer{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Where("prayer_id = ?", id).Delete(&model.Reminder{}).Error
	})
}

// BulkUpdate applies an archive flag to many prayers at once
func (r *PrayerRepository) BulkUpdate(userID uuid.UUID, ids []uuid.UUID, updates map[string]interface{}) (int64, error) {
	result := r.db.Model(&model.Prayer{}).
		Where("user_id = ? AND id IN ?", userID, ids).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// BulkDelete soft-deletes many prayers and their reminders
func (r *PrayerRepository) BulkDelete(userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	var affected int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND id IN ?", userID, ids).Delete(&model.Prayer{})
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return tx.Where("prayer_id IN ?", ids).Delete(&model.Reminder{}).Error
	})
	return affected, err
}
