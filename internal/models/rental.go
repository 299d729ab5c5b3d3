package models

import (
	"time"

	"gorm.io/gorm"
)

// RentProperty: активная аренда. На объект не больше одной.
type RentProperty struct {
	BaseModel
	PropertyID    string          `gorm:"type:varchar(36);not null;uniqueIndex"`
	TenantID      string          `gorm:"type:varchar(36);not null;index"`
	Payment       PaymentInterval `gorm:"not null;default:30"`
	Price         int64           `gorm:"not null"`
	DamageDeposit *int64
	StartDate     time.Time    `gorm:"type:date;not null"`
	EndDate       time.Time    `gorm:"type:date;not null"`
	Status        RentalStatus `gorm:"type:varchar(10);not null;default:'paid'"`
	Contract      string

	Property *Property `gorm:"foreignKey:PropertyID"`
	Tenant   *Tenant   `gorm:"foreignKey:TenantID;constraint:OnDelete:CASCADE"`
}

// DefaultContractDays: срок договора, если дата окончания не указана
const DefaultContractDays = 30

func (r *RentProperty) BeforeSave(tx *gorm.DB) error {
	if r.Payment == 0 {
		r.Payment = PaymentMonthly
	}
	if r.Status == "" {
		r.Status = RentalStatusPaid
	}
	if r.StartDate.IsZero() {
		r.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if r.EndDate.IsZero() {
		r.EndDate = r.StartDate.AddDate(0, 0, DefaultContractDays)
	}
	return nil
}
