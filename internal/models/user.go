package models

// User: арендодатель
type User struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string `gorm:"size:100"`

	Properties []Property `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
