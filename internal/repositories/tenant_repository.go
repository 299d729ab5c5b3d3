package repositories

import (
	"errors"

	"ejaraat_backend/internal/models"

	"gorm.io/gorm"
)

type TenantRepository interface {
	// FindOrCreate ищет арендатора по (арендодатель, имя, телефон) или создаёт нового.
	// Второе значение: true, если запись создана.
	FindOrCreate(db *gorm.DB, tenant *models.Tenant) (*models.Tenant, bool, error)
	Update(db *gorm.DB, tenant *models.Tenant) error
}

type TenantRepositoryImpl struct{}

func NewTenantRepository() TenantRepository {
	return &TenantRepositoryImpl{}
}

func (r *TenantRepositoryImpl) FindOrCreate(db *gorm.DB, tenant *models.Tenant) (*models.Tenant, bool, error) {
	var existing models.Tenant
	err := db.Where("landlord_id = ? AND name = ? AND phone_number = ?", tenant.LandlordID, tenant.Name, tenant.PhoneNumber).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if err := db.Create(tenant).Error; err != nil {
		return nil, false, err
	}
	return tenant, true, nil
}

func (r *TenantRepositoryImpl) Update(db *gorm.DB, tenant *models.Tenant) error {
	return db.Save(tenant).Error
}
