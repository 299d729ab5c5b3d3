package handlers

import (
	"ejaraat_backend/internal/services"
	"ejaraat_backend/internal/validator"

	"gorm.io/gorm"
)

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	PropertyHandler     *PropertyHandler
	RentalHandler       *RentalHandler
	DashboardHandler    *DashboardHandler
	NotificationHandler *NotificationHandler
	CurrencyHandler     *CurrencyHandler
	FileHandler         *FileHandler
	HealthHandler       *HealthHandler
}

func NewAppHandlers(container *services.ServiceContainer, v *validator.Validator, db *gorm.DB) *AppHandlers {
	base := NewBaseHandler(v)

	return &AppHandlers{
		AuthHandler:         NewAuthHandler(base, container.AuthService),
		PropertyHandler:     NewPropertyHandler(base, container.PropertyService),
		RentalHandler:       NewRentalHandler(base, container.RentalService),
		DashboardHandler:    NewDashboardHandler(base, container.DashboardService),
		NotificationHandler: NewNotificationHandler(base, container.NotificationService),
		CurrencyHandler:     NewCurrencyHandler(base, container.CurrencyService),
		FileHandler:         NewFileHandler(base, container.FileService),
		HealthHandler:       NewHealthHandler(db),
	}
}
