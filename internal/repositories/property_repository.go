package repositories

import (
	"errors"
	"strings"

	"ejaraat_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPropertyNotFound = errors.New("property not found")

// PropertyFilter: фильтр списка объектов арендодателя
type PropertyFilter struct {
	Search   string // по названию или стране, без учёта регистра
	IsRented *bool
}

type PropertyRepository interface {
	Create(db *gorm.DB, property *models.Property) error
	Update(db *gorm.DB, property *models.Property) error
	SetRented(db *gorm.DB, propertyID string, rented bool) error
	FindByID(db *gorm.DB, id string) (*models.Property, error)
	// FindOwned возвращает объект только если он принадлежит userID
	FindOwned(db *gorm.DB, userID, id string) (*models.Property, error)
	FindByUser(db *gorm.DB, userID string, filter PropertyFilter) ([]models.Property, error)
	Delete(db *gorm.DB, id string) error
}

type PropertyRepositoryImpl struct{}

func NewPropertyRepository() PropertyRepository {
	return &PropertyRepositoryImpl{}
}

func (r *PropertyRepositoryImpl) Create(db *gorm.DB, property *models.Property) error {
	return db.Omit("Rental", "History").Create(property).Error
}

func (r *PropertyRepositoryImpl) Update(db *gorm.DB, property *models.Property) error {
	return db.Omit("Rental", "History").Save(property).Error
}

func (r *PropertyRepositoryImpl) SetRented(db *gorm.DB, propertyID string, rented bool) error {
	result := db.Model(&models.Property{}).Where("id = ?", propertyID).Update("is_rented", rented)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}

func (r *PropertyRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Property, error) {
	var property models.Property
	if err := db.First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepositoryImpl) FindOwned(db *gorm.DB, userID, id string) (*models.Property, error) {
	var property models.Property
	err := db.Preload("Rental").Preload("Rental.Tenant").
		Where("id = ? AND user_id = ?", id, userID).
		First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepositoryImpl) FindByUser(db *gorm.DB, userID string, filter PropertyFilter) ([]models.Property, error) {
	query := db.Preload("Rental").Preload("Rental.Tenant").Where("user_id = ?", userID)

	if q := strings.TrimSpace(filter.Search); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(country) LIKE ?", like, like)
	}
	if filter.IsRented != nil {
		query = query.Where("is_rented = ?", *filter.IsRented)
	}

	var properties []models.Property
	if err := query.Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}
	return properties, nil
}

// Delete удаляет объект вместе с арендой, историей, активностями и уведомлениями.
// Каскад сделан явно: sqlite без PRAGMA foreign_keys внешние ключи не соблюдает.
func (r *PropertyRepositoryImpl) Delete(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&models.RentProperty{}, &models.RentHistory{}, &models.RecentActivity{}, &models.Notification{}} {
			if err := tx.Where("property_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Property{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrPropertyNotFound
		}
		return nil
	})
}
