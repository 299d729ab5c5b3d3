package repositories

import (
	"ejaraat_backend/internal/models"

	"gorm.io/gorm"
)

type HistoryRepository interface {
	Create(db *gorm.DB, history *models.RentHistory) error
	// FindByProperty: история объекта, самые поздние договоры первыми
	FindByProperty(db *gorm.DB, propertyID string) ([]models.RentHistory, error)
}

type HistoryRepositoryImpl struct{}

func NewHistoryRepository() HistoryRepository {
	return &HistoryRepositoryImpl{}
}

func (r *HistoryRepositoryImpl) Create(db *gorm.DB, history *models.RentHistory) error {
	return db.Omit("Tenant").Create(history).Error
}

func (r *HistoryRepositoryImpl) FindByProperty(db *gorm.DB, propertyID string) ([]models.RentHistory, error) {
	var history []models.RentHistory
	err := db.Preload("Tenant").
		Where("property_id = ?", propertyID).
		Order("end_date DESC").
		Find(&history).Error
	return history, err
}
