package repositories

import (
	"errors"

	"ejaraat_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRentalNotFound        = errors.New("rental not found")
	ErrPropertyAlreadyRented = errors.New("property already has an active rental")
)

type RentalRepository interface {
	Create(db *gorm.DB, rental *models.RentProperty) error
	Update(db *gorm.DB, rental *models.RentProperty) error
	UpdateStatus(db *gorm.DB, rentalID string, status models.RentalStatus) error
	FindByID(db *gorm.DB, id string) (*models.RentProperty, error)
	// FindOwned возвращает аренду только если объект принадлежит userID
	FindOwned(db *gorm.DB, userID, id string) (*models.RentProperty, error)
	FindByUser(db *gorm.DB, userID string) ([]models.RentProperty, error)
	FindAll(db *gorm.DB) ([]models.RentProperty, error)
	CountByStatus(db *gorm.DB, userID string) (map[models.RentalStatus]int64, error)
	Delete(db *gorm.DB, id string) error
}

type RentalRepositoryImpl struct{}

func NewRentalRepository() RentalRepository {
	return &RentalRepositoryImpl{}
}

func (r *RentalRepositoryImpl) Create(db *gorm.DB, rental *models.RentProperty) error {
	var count int64
	if err := db.Model(&models.RentProperty{}).Where("property_id = ?", rental.PropertyID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrPropertyAlreadyRented
	}
	return db.Omit("Property", "Tenant").Create(rental).Error
}

func (r *RentalRepositoryImpl) Update(db *gorm.DB, rental *models.RentProperty) error {
	return db.Omit("Property", "Tenant").Save(rental).Error
}

func (r *RentalRepositoryImpl) UpdateStatus(db *gorm.DB, rentalID string, status models.RentalStatus) error {
	result := db.Model(&models.RentProperty{}).Where("id = ?", rentalID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRentalNotFound
	}
	return nil
}

func (r *RentalRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.RentProperty, error) {
	var rental models.RentProperty
	if err := db.Preload("Property").Preload("Tenant").First(&rental, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return &rental, nil
}

func (r *RentalRepositoryImpl) FindOwned(db *gorm.DB, userID, id string) (*models.RentProperty, error) {
	var rental models.RentProperty
	err := db.Preload("Property").Preload("Tenant").
		Joins("JOIN properties ON properties.id = rent_properties.property_id").
		Where("rent_properties.id = ? AND properties.user_id = ?", id, userID).
		First(&rental).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRentalNotFound
		}
		return nil, err
	}
	return &rental, nil
}

func (r *RentalRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.RentProperty, error) {
	var rentals []models.RentProperty
	err := db.Preload("Property").Preload("Tenant").
		Joins("JOIN properties ON properties.id = rent_properties.property_id").
		Where("properties.user_id = ?", userID).
		Order("rent_properties.end_date ASC").
		Find(&rentals).Error
	return rentals, err
}

func (r *RentalRepositoryImpl) FindAll(db *gorm.DB) ([]models.RentProperty, error) {
	var rentals []models.RentProperty
	err := db.Preload("Property").Preload("Tenant").Order("created_at ASC").Find(&rentals).Error
	return rentals, err
}

func (r *RentalRepositoryImpl) CountByStatus(db *gorm.DB, userID string) (map[models.RentalStatus]int64, error) {
	var rows []struct {
		Status models.RentalStatus
		Count  int64
	}
	err := db.Model(&models.RentProperty{}).
		Select("rent_properties.status AS status, COUNT(*) AS count").
		Joins("JOIN properties ON properties.id = rent_properties.property_id").
		Where("properties.user_id = ?", userID).
		Group("rent_properties.status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.RentalStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *RentalRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.RentProperty{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRentalNotFound
	}
	return nil
}
