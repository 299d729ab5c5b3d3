package models

import "gorm.io/gorm"

type Property struct {
	BaseModel
	UserID       string       `gorm:"type:varchar(36);not null;index"`
	Name         string       `gorm:"size:20;not null"`
	PropertyType PropertyType `gorm:"type:varchar(2);not null;default:'A'"`
	Country      string       `gorm:"size:2;not null"`
	City         string       `gorm:"size:25;not null"`
	Address      string       `gorm:"size:100;not null"`
	Currency     Currency     `gorm:"type:varchar(3)"`
	IsRented     bool         `gorm:"not null;default:false"`

	// Relations
	Rental  *RentProperty `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	History []RentHistory `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}

// BeforeSave подставляет валюту по стране, если её не выбрали явно
func (p *Property) BeforeSave(tx *gorm.DB) error {
	if p.Currency == "" {
		p.Currency = CurrencyForCountry(p.Country)
	}
	if p.PropertyType == "" {
		p.PropertyType = PropertyTypeApartment
	}
	return nil
}
