package models

import "time"

// RentHistory: снимок завершённой аренды, не меняется после создания
type RentHistory struct {
	BaseModel
	PropertyID    string  `gorm:"type:varchar(36);not null;index"`
	TenantID      *string `gorm:"type:varchar(36);index"`
	Price         int64   `gorm:"not null"`
	DamageDeposit *int64
	PaymentType   string    `gorm:"size:10;not null"` // day, week, month, year
	StartDate     time.Time `gorm:"type:date;not null"`
	EndDate       time.Time `gorm:"type:date;not null"`
	Contract      string

	Tenant *Tenant `gorm:"foreignKey:TenantID;constraint:OnDelete:SET NULL"`
}
