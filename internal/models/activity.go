package models

import "time"

type RecentActivity struct {
	BaseModel
	UserID       string       `gorm:"type:varchar(36);not null;index"`
	PropertyID   string       `gorm:"type:varchar(36);not null;index"`
	ActivityType ActivityType `gorm:"type:varchar(10);not null"`
	Timestamp    time.Time    `gorm:"not null;index"`

	Property *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}
