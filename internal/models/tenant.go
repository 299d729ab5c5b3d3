package models

type Tenant struct {
	BaseModel
	LandlordID  string `gorm:"type:varchar(36);not null;index"`
	Name        string `gorm:"size:100;not null"`
	PhoneNumber string `gorm:"size:14;not null"`
	IDImage     string // путь в storage (паспорт, ID)
}
