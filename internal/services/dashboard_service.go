package services

import (
	"context"

	"ejaraat_backend/internal/payments"
	"ejaraat_backend/internal/render"
	"ejaraat_backend/internal/repositories"
	"ejaraat_backend/internal/services/dto"

	"gorm.io/gorm"
)

// DashboardService собирает главную страницу арендодателя
type DashboardService interface {
	Get(ctx context.Context, db *gorm.DB, userID string) (*dto.DashboardResponse, error)
}

type DashboardServiceImpl struct {
	propertyRepo     repositories.PropertyRepository
	rentalRepo       repositories.RentalRepository
	notificationRepo repositories.NotificationRepository
	rentalService    RentalService
	activityService  ActivityService
	clock            Clock
}

func NewDashboardService(
	propertyRepo repositories.PropertyRepository,
	rentalRepo repositories.RentalRepository,
	notificationRepo repositories.NotificationRepository,
	rentalService RentalService,
	activityService ActivityService,
	clock Clock,
) DashboardService {
	return &DashboardServiceImpl{
		propertyRepo:     propertyRepo,
		rentalRepo:       rentalRepo,
		notificationRepo: notificationRepo,
		rentalService:    rentalService,
		activityService:  activityService,
		clock:            clock,
	}
}

func (s *DashboardServiceImpl) Get(ctx context.Context, db *gorm.DB, userID string) (*dto.DashboardResponse, error) {
	// классификатор первым: статусы ниже должны быть уже пересчитаны
	upcoming, err := s.rentalService.UpcomingPayments(ctx, db, userID)
	if err != nil {
		return nil, err
	}

	properties, err := s.propertyRepo.FindByUser(db, userID, repositories.PropertyFilter{})
	if err != nil {
		return nil, repoError(err)
	}
	rentals, err := s.rentalRepo.FindByUser(db, userID)
	if err != nil {
		return nil, repoError(err)
	}

	resp := &dto.DashboardResponse{
		AvailableProperties: make([]dto.PropertyResponse, 0),
		RentedProperties:    make([]dto.PropertyResponse, 0),
		ExpiringContracts:   make([]dto.ExpiringContract, 0),
		UpcomingPayments:    upcoming,
		RecentActivities:    make([]dto.ActivityResponse, 0),
		Notifications:       make([]dto.NotificationResponse, 0),
		MonthlyRevenue:      make(map[string]int64),
	}

	for i := range properties {
		if properties[i].IsRented {
			resp.RentedProperties = append(resp.RentedProperties, dto.NewPropertyResponse(&properties[i]))
		} else {
			resp.AvailableProperties = append(resp.AvailableProperties, dto.NewPropertyResponse(&properties[i]))
		}
	}

	today := s.clock.Today()
	for i := range rentals {
		rental := &rentals[i]
		currency := ""
		name := ""
		if rental.Property != nil {
			currency = string(rental.Property.Currency)
			name = rental.Property.Name
		}
		resp.MonthlyRevenue[currency] += payments.MonthlyAmount(rental.Payment, rental.Price)

		if expiring, daysLeft := payments.ExpiringWithin(rental.EndDate, today, payments.ExpiringWindowDays); expiring {
			resp.ExpiringContracts = append(resp.ExpiringContracts, dto.ExpiringContract{
				RentalID:     rental.ID,
				PropertyID:   rental.PropertyID,
				PropertyName: name,
				EndDate:      dto.FormatDate(rental.EndDate),
				DaysLeft:     daysLeft,
			})
		}
	}

	activities, err := s.activityService.Recent(db, userID)
	if err != nil {
		return nil, repoError(err)
	}
	for _, a := range activities {
		item := dto.ActivityResponse{
			ID:           a.ID,
			PropertyID:   a.PropertyID,
			ActivityType: string(a.ActivityType),
			Timestamp:    a.Timestamp,
		}
		if a.Property != nil {
			item.PropertyName = a.Property.Name
		}
		item.Message = render.ActivityText(a.ActivityType, item.PropertyName)
		resp.RecentActivities = append(resp.RecentActivities, item)
	}

	notifications, err := s.notificationRepo.FindUnread(db, userID, NotificationListLimit)
	if err != nil {
		return nil, repoError(err)
	}
	for i := range notifications {
		resp.Notifications = append(resp.Notifications, dto.NewNotificationResponse(&notifications[i]))
	}
	if resp.UnreadCount, err = s.notificationRepo.CountUnread(db, userID); err != nil {
		return nil, repoError(err)
	}

	if resp.PaymentStatus, err = s.activityService.PaymentStatus(db, userID); err != nil {
		return nil, repoError(err)
	}
	return resp, nil
}
