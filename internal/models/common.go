package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel: общие поля всех таблиц.
// ID генерируется в BeforeCreate, а не дефолтом БД, чтобы модели работали на postgres, mysql и sqlite.
type BaseModel struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// AllModels: список моделей для AutoMigrate (порядок важен для внешних ключей)
func AllModels() []any {
	return []any{
		&User{},
		&Property{},
		&Tenant{},
		&RentProperty{},
		&RentHistory{},
		&RecentActivity{},
		&Notification{},
	}
}
