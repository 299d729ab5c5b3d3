// Package testutil: общие хелперы для тестов: база в памяти и фикстуры.
package testutil

import (
	"testing"
	"time"

	"ejaraat_backend/internal/database"
	"ejaraat_backend/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB открывает sqlite в памяти и прогоняет миграции
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(database.DriverSQLite, ":memory:", false)
	require.NoError(t, err, "не удалось открыть sqlite")
	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Date: полночь UTC
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateUser создает арендодателя. PasswordHash здесь не настоящий bcrypt.
func CreateUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{Email: email, PasswordHash: "x", Name: "Owner"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateProperty создает объект с разумными значениями по умолчанию
func CreateProperty(t *testing.T, db *gorm.DB, userID, name, country string) *models.Property {
	t.Helper()

	property := &models.Property{
		UserID:  userID,
		Name:    name,
		Country: country,
		City:    "Khartoum",
		Address: "Street 1",
	}
	require.NoError(t, db.Omit("Rental", "History").Create(property).Error)
	return property
}

// CreateRental сдаёт объект новому арендатору напрямую через БД (без хуков сервиса)
func CreateRental(t *testing.T, db *gorm.DB, property *models.Property, rental *models.RentProperty) *models.RentProperty {
	t.Helper()

	tenant := &models.Tenant{LandlordID: property.UserID, Name: "Tenant", PhoneNumber: "+10000000"}
	require.NoError(t, db.Create(tenant).Error)

	rental.PropertyID = property.ID
	rental.TenantID = tenant.ID
	require.NoError(t, db.Omit("Property", "Tenant").Create(rental).Error)
	require.NoError(t, db.Model(property).Update("is_rented", true).Error)
	property.IsRented = true
	return rental
}
