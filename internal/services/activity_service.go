package services

import (
	"context"
	"encoding/json"

	"ejaraat_backend/internal/broadcast"
	"ejaraat_backend/internal/email"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/models"
	"ejaraat_backend/internal/render"
	"ejaraat_backend/internal/repositories"
	"ejaraat_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecentActivityLimit: сколько активностей показываем в ленте
const RecentActivityLimit = 10

// NotificationListLimit: сколько непрочитанных уведомлений в виджете
const NotificationListLimit = 10

// ActivityService превращает изменения объектов и аренд в ленту активности,
// уведомления и live-сообщения в канал user_{id}.
type ActivityService interface {
	ChangeHook
	Recent(db *gorm.DB, userID string) ([]models.RecentActivity, error)
	RecentHTML(db *gorm.DB, userID string) (string, error)
	PaymentStatus(db *gorm.DB, userID string) (dto.PaymentStatusChart, error)
}

type ActivityServiceImpl struct {
	activityRepo     repositories.ActivityRepository
	notificationRepo repositories.NotificationRepository
	propertyRepo     repositories.PropertyRepository
	rentalRepo       repositories.RentalRepository
	userRepo         repositories.UserRepository
	broker           broadcast.Broker
	renderer         *render.Renderer
	emailService     *EmailService
	clock            Clock
}

func NewActivityService(
	activityRepo repositories.ActivityRepository,
	notificationRepo repositories.NotificationRepository,
	propertyRepo repositories.PropertyRepository,
	rentalRepo repositories.RentalRepository,
	userRepo repositories.UserRepository,
	broker broadcast.Broker,
	renderer *render.Renderer,
	emailService *EmailService,
	clock Clock,
) ActivityService {
	return &ActivityServiceImpl{
		activityRepo:     activityRepo,
		notificationRepo: notificationRepo,
		propertyRepo:     propertyRepo,
		rentalRepo:       rentalRepo,
		userRepo:         userRepo,
		broker:           broker,
		renderer:         renderer,
		emailService:     emailService,
		clock:            clock,
	}
}

// AfterCommit никогда не прерывает запрос: ошибки логируются и отбрасываются
func (s *ActivityServiceImpl) AfterCommit(ctx context.Context, db *gorm.DB, change Change) {
	switch change.Kind {
	case ChangeProperty:
		property, ok := change.New.(*models.Property)
		if !ok || change.Op != OpCreate {
			return
		}
		s.record(ctx, db, property.UserID, property, models.ActivityAdd)

	case ChangeRental:
		rental, ok := change.New.(*models.RentProperty)
		if !ok {
			return
		}
		property := s.rentalProperty(ctx, db, rental)
		if property == nil {
			return
		}

		if change.Op == OpCreate {
			s.record(ctx, db, property.UserID, property, models.ActivityRent)
			return
		}

		// любое сохранение оплаченной или просроченной аренды попадает в ленту
		switch rental.Status {
		case models.RentalStatusPaid:
			s.record(ctx, db, property.UserID, property, models.ActivityPayment)
		case models.RentalStatusOverdue:
			s.record(ctx, db, property.UserID, property, models.ActivityOverdue)
			s.notifyOverdue(ctx, db, property, rental)
		}
	}
}

func (s *ActivityServiceImpl) rentalProperty(ctx context.Context, db *gorm.DB, rental *models.RentProperty) *models.Property {
	if rental.Property != nil {
		return rental.Property
	}
	property, err := s.propertyRepo.FindByID(db, rental.PropertyID)
	if err != nil {
		logger.CtxWithError(ctx, "Fan-out: property lookup failed", err, "rental_id", rental.ID)
		return nil
	}
	return property
}

// record добавляет активность и рассылает обновлённую ленту
func (s *ActivityServiceImpl) record(ctx context.Context, db *gorm.DB, userID string, property *models.Property, kind models.ActivityType) {
	activity := &models.RecentActivity{
		UserID:       userID,
		PropertyID:   property.ID,
		ActivityType: kind,
		Timestamp:    s.clock.Now(),
	}
	if err := s.activityRepo.Create(db, activity); err != nil {
		logger.CtxWithError(ctx, "Fan-out: failed to save activity", err, "property_id", property.ID, "activity", kind)
		return
	}
	logger.CtxDebug(ctx, "Activity recorded", "property_id", property.ID, "activity", kind)

	html, err := s.RecentHTML(db, userID)
	if err != nil {
		logger.CtxWithError(ctx, "Fan-out: failed to render recent activities", err)
		return
	}
	s.publish(ctx, userID, broadcast.Envelope{Type: broadcast.TypeRecentActivities, HTML: html})
}

func (s *ActivityServiceImpl) notifyOverdue(ctx context.Context, db *gorm.DB, property *models.Property, rental *models.RentProperty) {
	data, _ := json.Marshal(map[string]string{
		"property_id": property.ID,
		"rental_id":   rental.ID,
		"activity":    string(models.ActivityOverdue),
	})
	propertyID := property.ID
	notification := &models.Notification{
		UserID:     property.UserID,
		PropertyID: &propertyID,
		Message:    models.OverdueMessage,
		Timestamp:  s.clock.Now(),
		Data:       datatypes.JSON(data),
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		logger.CtxWithError(ctx, "Fan-out: failed to save notification", err, "property_id", property.ID)
	} else if html, err := s.unreadHTML(db, property.UserID); err != nil {
		logger.CtxWithError(ctx, "Fan-out: failed to render notifications", err)
	} else {
		s.publish(ctx, property.UserID, broadcast.Envelope{Type: broadcast.TypeNotifications, HTML: html})
	}

	if chart, err := s.PaymentStatus(db, property.UserID); err != nil {
		logger.CtxWithError(ctx, "Fan-out: failed to count statuses", err)
	} else {
		s.publish(ctx, property.UserID, broadcast.Envelope{Type: broadcast.TypePaymentStatusChart, Data: chart})
	}

	s.mailOverdue(ctx, db, property, rental)
}

func (s *ActivityServiceImpl) mailOverdue(ctx context.Context, db *gorm.DB, property *models.Property, rental *models.RentProperty) {
	if s.emailService == nil {
		return
	}
	owner, err := s.userRepo.FindByID(db, property.UserID)
	if err != nil {
		logger.CtxWithError(ctx, "Fan-out: owner lookup failed", err, "user_id", property.UserID)
		return
	}

	tenantName := ""
	if rental.Tenant != nil {
		tenantName = rental.Tenant.Name
	}
	data := email.TemplateData{
		"OwnerName":    owner.Name,
		"PropertyName": property.Name,
		"TenantName":   tenantName,
		"Price":        rental.Price,
		"Currency":     string(property.Currency),
		"Period":       rental.Payment.Period(),
		"StartDate":    rental.StartDate,
		"EndDate":      rental.EndDate,
	}
	subject := "Payment overdue: " + property.Name
	if err := s.emailService.SendTemplatedEmail(ctx, []string{owner.Email}, subject, render.OverdueEmail, data); err != nil {
		logger.CtxWithError(ctx, "Fan-out: failed to send overdue email", err, "user_id", owner.ID)
	}
}

func (s *ActivityServiceImpl) publish(ctx context.Context, userID string, env broadcast.Envelope) {
	if s.broker == nil {
		return
	}
	if err := broadcast.PublishEnvelope(ctx, s.broker, broadcast.UserTopic(userID), env); err != nil {
		logger.CtxWarn(ctx, "Fan-out: publish failed", "type", env.Type, "user_id", userID, "error", err)
	}
}

// Recent: последние активности без просрочек (они идут в уведомления)
func (s *ActivityServiceImpl) Recent(db *gorm.DB, userID string) ([]models.RecentActivity, error) {
	return s.activityRepo.FindRecent(db, userID, RecentActivityLimit, models.ActivityOverdue)
}

func (s *ActivityServiceImpl) RecentHTML(db *gorm.DB, userID string) (string, error) {
	activities, err := s.Recent(db, userID)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(render.RecentActivities, activities)
}

func (s *ActivityServiceImpl) unreadHTML(db *gorm.DB, userID string) (string, error) {
	notifications, err := s.notificationRepo.FindUnread(db, userID, NotificationListLimit)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(render.Notifications, notifications)
}

func (s *ActivityServiceImpl) PaymentStatus(db *gorm.DB, userID string) (dto.PaymentStatusChart, error) {
	counts, err := s.rentalRepo.CountByStatus(db, userID)
	if err != nil {
		return dto.PaymentStatusChart{}, err
	}
	return dto.PaymentStatusChart{
		Paid:    counts[models.RentalStatusPaid],
		Pending: counts[models.RentalStatusPending],
		Overdue: counts[models.RentalStatusOverdue],
	}, nil
}
