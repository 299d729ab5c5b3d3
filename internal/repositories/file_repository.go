package repositories

import (
	"ejaraat_backend/internal/models"

	"gorm.io/gorm"
)

// FileRepository отвечает на вопрос "чей это файл": ID арендатора, договор аренды или договор из истории
type FileRepository interface {
	IsOwnedBy(db *gorm.DB, userID, path string) (bool, error)
}

type FileRepositoryImpl struct{}

func NewFileRepository() FileRepository {
	return &FileRepositoryImpl{}
}

func (r *FileRepositoryImpl) IsOwnedBy(db *gorm.DB, userID, path string) (bool, error) {
	if path == "" {
		return false, nil
	}

	var count int64
	if err := db.Model(&models.Tenant{}).
		Where("landlord_id = ? AND id_image = ?", userID, path).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&models.RentProperty{}).
		Joins("JOIN properties ON properties.id = rent_properties.property_id").
		Where("properties.user_id = ? AND rent_properties.contract = ?", userID, path).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&models.RentHistory{}).
		Joins("JOIN properties ON properties.id = rent_histories.property_id").
		Where("properties.user_id = ? AND rent_histories.contract = ?", userID, path).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
