package repositories

import (
	"ejaraat_backend/internal/models"

	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(db *gorm.DB, activity *models.RecentActivity) error
	// FindRecent: последние limit активностей пользователя, новые первыми
	FindRecent(db *gorm.DB, userID string, limit int, exclude ...models.ActivityType) ([]models.RecentActivity, error)
}

type ActivityRepositoryImpl struct{}

func NewActivityRepository() ActivityRepository {
	return &ActivityRepositoryImpl{}
}

func (r *ActivityRepositoryImpl) Create(db *gorm.DB, activity *models.RecentActivity) error {
	return db.Omit("Property").Create(activity).Error
}

func (r *ActivityRepositoryImpl) FindRecent(db *gorm.DB, userID string, limit int, exclude ...models.ActivityType) ([]models.RecentActivity, error) {
	query := db.Preload("Property").Where("user_id = ?", userID)
	if len(exclude) > 0 {
		query = query.Where("activity_type NOT IN ?", exclude)
	}

	var activities []models.RecentActivity
	err := query.Order("timestamp DESC").Order("created_at DESC").Limit(limit).Find(&activities).Error
	return activities, err
}
