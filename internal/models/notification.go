package models

import (
	"time"

	"gorm.io/datatypes"
)

// OverdueMessage: текст уведомления о просрочке
const OverdueMessage = "Payment overdue for the property."

type Notification struct {
	BaseModel
	UserID     string  `gorm:"type:varchar(36);not null;index"`
	PropertyID *string `gorm:"type:varchar(36);index"`
	Message    string  `gorm:"not null"`
	IsRead     bool    `gorm:"not null;default:false"`
	Timestamp  time.Time
	Data       datatypes.JSON // {"property_id": "...", "rental_id": "...", "activity": "overdue"}

	Property *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}
