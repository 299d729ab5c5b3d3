package services

import (
	"ejaraat_backend/internal/auth"
	"ejaraat_backend/internal/broadcast"
	"ejaraat_backend/internal/email"
	"ejaraat_backend/internal/render"
	"ejaraat_backend/internal/repositories"
	"ejaraat_backend/internal/storage"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	PropertyService     PropertyService
	RentalService       RentalService
	ActivityService     ActivityService
	NotificationService NotificationService
	DashboardService    DashboardService
	CurrencyService     CurrencyService
	FileService         FileService
	EmailService        *EmailService
	Tokens              *auth.TokenManager
	Storage             storage.Storage
	Broker              broadcast.Broker
	Renderer            *render.Renderer
}

// Repositories: набор stateless репозиториев
type Repositories struct {
	User         repositories.UserRepository
	Property     repositories.PropertyRepository
	Tenant       repositories.TenantRepository
	Rental       repositories.RentalRepository
	History      repositories.HistoryRepository
	Activity     repositories.ActivityRepository
	Notification repositories.NotificationRepository
	File         repositories.FileRepository
}

func NewRepositories() *Repositories {
	return &Repositories{
		User:         repositories.NewUserRepository(),
		Property:     repositories.NewPropertyRepository(),
		Tenant:       repositories.NewTenantRepository(),
		Rental:       repositories.NewRentalRepository(),
		History:      repositories.NewHistoryRepository(),
		Activity:     repositories.NewActivityRepository(),
		Notification: repositories.NewNotificationRepository(),
		File:         repositories.NewFileRepository(),
	}
}

// Dependencies: внешние зависимости сервисов
type Dependencies struct {
	Tokens   *auth.TokenManager
	Storage  storage.Storage
	Broker   broadcast.Broker
	Renderer *render.Renderer
	Mailer   email.Mailer
	Rates    RateProvider
	Clock    Clock
}

// NewServiceContainer связывает сервисы: ActivityService служит ChangeHook для аренды и объектов
func NewServiceContainer(deps Dependencies) *ServiceContainer {
	repos := NewRepositories()
	emailService := NewEmailService(deps.Mailer, deps.Renderer)

	activityService := NewActivityService(
		repos.Activity, repos.Notification, repos.Property, repos.Rental, repos.User,
		deps.Broker, deps.Renderer, emailService, deps.Clock,
	)
	rentalService := NewRentalService(
		repos.Property, repos.Rental, repos.Tenant, repos.History,
		deps.Storage, activityService, deps.Clock,
	)

	return &ServiceContainer{
		AuthService:         NewAuthService(repos.User, deps.Tokens),
		PropertyService:     NewPropertyService(repos.Property, repos.History, deps.Storage, activityService, deps.Clock),
		RentalService:       rentalService,
		ActivityService:     activityService,
		NotificationService: NewNotificationService(repos.Notification, deps.Broker, deps.Renderer),
		DashboardService:    NewDashboardService(repos.Property, repos.Rental, repos.Notification, rentalService, activityService, deps.Clock),
		CurrencyService:     NewCurrencyService(deps.Rates),
		FileService:         NewFileService(repos.File, deps.Storage),
		EmailService:        emailService,
		Tokens:              deps.Tokens,
		Storage:             deps.Storage,
		Broker:              deps.Broker,
		Renderer:            deps.Renderer,
	}
}
