package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"ejaraat_backend/internal/imageprocessor"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/models"
	"ejaraat_backend/internal/payments"
	"ejaraat_backend/internal/repositories"
	"ejaraat_backend/internal/services/dto"
	"ejaraat_backend/internal/storage"
	"ejaraat_backend/pkg/apperrors"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

type RentalService interface {
	Rent(ctx context.Context, db *gorm.DB, userID, propertyID string, req *dto.RentRequest, uploads dto.RentUploads) (*dto.RentalResponse, error)
	Update(ctx context.Context, db *gorm.DB, userID, rentalID string, req *dto.UpdateRentalRequest, contract *dto.FileUpload) (*dto.RentalResponse, error)
	// MarkPaid возвращает обновлённый список ближайших платежей
	MarkPaid(ctx context.Context, db *gorm.DB, userID, rentalID string) ([]dto.UpcomingPayment, error)
	Vacate(ctx context.Context, db *gorm.DB, userID, rentalID string) (*dto.RentHistoryResponse, error)

	// ClassifyAndPersist переводит аренду в новый статус на дату today и сохраняет переход
	ClassifyAndPersist(ctx context.Context, db *gorm.DB, rental *models.RentProperty, today time.Time) (payments.Decision, error)
	UpcomingPayments(ctx context.Context, db *gorm.DB, userID string) ([]dto.UpcomingPayment, error)
	// ReclassifyAll: один проход классификатора по всем арендам, возвращает число переходов
	ReclassifyAll(ctx context.Context, db *gorm.DB) (int, error)
}

const tenantsDir = "tenants"

type RentalServiceImpl struct {
	propertyRepo repositories.PropertyRepository
	rentalRepo   repositories.RentalRepository
	tenantRepo   repositories.TenantRepository
	historyRepo  repositories.HistoryRepository
	storage      storage.Storage
	images       *imageprocessor.Processor
	hook         ChangeHook
	clock        Clock
}

func NewRentalService(
	propertyRepo repositories.PropertyRepository,
	rentalRepo repositories.RentalRepository,
	tenantRepo repositories.TenantRepository,
	historyRepo repositories.HistoryRepository,
	storage storage.Storage,
	hook ChangeHook,
	clock Clock,
) RentalService {
	if hook == nil {
		hook = noopHook{}
	}
	return &RentalServiceImpl{
		propertyRepo: propertyRepo,
		rentalRepo:   rentalRepo,
		tenantRepo:   tenantRepo,
		historyRepo:  historyRepo,
		storage:      storage,
		images:       imageprocessor.NewProcessor(85, imageprocessor.SizeDocument),
		hook:         hook,
		clock:        clock,
	}
}

func (s *RentalServiceImpl) Rent(ctx context.Context, db *gorm.DB, userID, propertyID string, req *dto.RentRequest, uploads dto.RentUploads) (*dto.RentalResponse, error) {
	property, err := s.propertyRepo.FindOwned(db, userID, propertyID)
	if err != nil {
		return nil, repoError(err)
	}
	if property.Rental != nil || property.IsRented {
		return nil, apperrors.ErrPropertyAlreadyRented()
	}

	today := s.clock.Today()
	start, end, err := contractDates(req.StartDate, req.EndDate, today)
	if err != nil {
		return nil, err
	}

	idImage, err := s.saveUpload(ctx, tenantsDir, uploads.IDImage)
	if err != nil {
		return nil, err
	}
	contract, err := s.saveUpload(ctx, "contracts", uploads.Contract)
	if err != nil {
		s.removeFiles(ctx, idImage)
		return nil, err
	}

	tenant := &models.Tenant{
		LandlordID:  userID,
		Name:        titleCase(req.TenantName),
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		IDImage:     idImage,
	}
	rental := &models.RentProperty{
		PropertyID:    property.ID,
		Payment:       models.PaymentInterval(req.Payment),
		Price:         req.Price,
		DamageDeposit: req.DamageDeposit,
		StartDate:     start,
		EndDate:       end,
		Contract:      contract,
	}

	var replacedImage string
	err = db.Transaction(func(tx *gorm.DB) error {
		found, created, err := s.tenantRepo.FindOrCreate(tx, tenant)
		if err != nil {
			return err
		}
		if !created && idImage != "" {
			replacedImage = found.IDImage
			found.IDImage = idImage
			if err := s.tenantRepo.Update(tx, found); err != nil {
				return err
			}
		}
		tenant = found
		rental.TenantID = tenant.ID

		if err := s.rentalRepo.Create(tx, rental); err != nil {
			return err
		}
		return s.propertyRepo.SetRented(tx, property.ID, true)
	})
	if err != nil {
		s.removeFiles(ctx, idImage, contract)
		return nil, repoError(err)
	}
	if replacedImage != "" && replacedImage != idImage {
		s.removeFiles(ctx, replacedImage)
	}
	logger.CtxInfo(ctx, "Property rented", "property_id", property.ID, "rental_id", rental.ID, "tenant_id", tenant.ID)

	property.IsRented = true
	property.Rental = nil
	rental.Property = property
	rental.Tenant = tenant

	s.hook.AfterCommit(ctx, db, Change{Kind: ChangeRental, Op: OpCreate, New: rental})

	resp := rentalResponse(rental, today)
	return &resp, nil
}

func (s *RentalServiceImpl) Update(ctx context.Context, db *gorm.DB, userID, rentalID string, req *dto.UpdateRentalRequest, contract *dto.FileUpload) (*dto.RentalResponse, error) {
	rental, err := s.rentalRepo.FindOwned(db, userID, rentalID)
	if err != nil {
		return nil, repoError(err)
	}
	old := *rental

	if req.Payment != nil {
		rental.Payment = models.PaymentInterval(*req.Payment)
	}
	if req.Price != nil {
		rental.Price = *req.Price
	}
	if req.DamageDeposit != nil {
		rental.DamageDeposit = req.DamageDeposit
	}
	if req.Status != nil {
		rental.Status = models.RentalStatus(*req.Status)
	}

	startValue, endValue := dto.FormatDate(rental.StartDate), dto.FormatDate(rental.EndDate)
	if req.StartDate != nil {
		startValue = *req.StartDate
	}
	if req.EndDate != nil {
		endValue = *req.EndDate
	}
	if rental.StartDate, rental.EndDate, err = contractDates(startValue, endValue, s.clock.Today()); err != nil {
		return nil, err
	}

	path, err := s.saveUpload(ctx, "contracts", contract)
	if err != nil {
		return nil, err
	}
	if path != "" {
		rental.Contract = path
	}

	if err := s.rentalRepo.Update(db, rental); err != nil {
		s.removeFiles(ctx, path)
		return nil, repoError(err)
	}
	if path != "" && old.Contract != "" {
		s.removeFiles(ctx, old.Contract)
	}

	s.hook.AfterCommit(ctx, db, Change{Kind: ChangeRental, Op: OpUpdate, Old: &old, New: rental})

	resp := rentalResponse(rental, s.clock.Today())
	return &resp, nil
}

func (s *RentalServiceImpl) MarkPaid(ctx context.Context, db *gorm.DB, userID, rentalID string) ([]dto.UpcomingPayment, error) {
	rental, err := s.rentalRepo.FindOwned(db, userID, rentalID)
	if err != nil {
		return nil, repoError(err)
	}

	old := *rental
	if err := s.rentalRepo.UpdateStatus(db, rental.ID, models.RentalStatusPaid); err != nil {
		return nil, repoError(err)
	}
	rental.Status = models.RentalStatusPaid
	logger.CtxInfo(ctx, "Rental marked as paid", "rental_id", rental.ID)

	// повторная отметка тоже фиксируется как платёж
	s.hook.AfterCommit(ctx, db, Change{Kind: ChangeRental, Op: OpUpdate, Old: &old, New: rental})

	return s.UpcomingPayments(ctx, db, userID)
}

func (s *RentalServiceImpl) Vacate(ctx context.Context, db *gorm.DB, userID, rentalID string) (*dto.RentHistoryResponse, error) {
	rental, err := s.rentalRepo.FindOwned(db, userID, rentalID)
	if err != nil {
		return nil, repoError(err)
	}

	// договор закрывается сегодняшним днём, если съехали раньше срока
	end := payments.Day(rental.EndDate)
	if today := s.clock.Today(); today.Before(end) {
		end = today
	}
	if end.Before(payments.Day(rental.StartDate)) {
		end = payments.Day(rental.StartDate)
	}

	tenantID := rental.TenantID
	history := &models.RentHistory{
		PropertyID:    rental.PropertyID,
		TenantID:      &tenantID,
		Price:         rental.Price,
		DamageDeposit: rental.DamageDeposit,
		PaymentType:   rental.Payment.Period(),
		StartDate:     rental.StartDate,
		EndDate:       end,
		Contract:      rental.Contract,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.historyRepo.Create(tx, history); err != nil {
			return err
		}
		if err := s.rentalRepo.Delete(tx, rental.ID); err != nil {
			return err
		}
		return s.propertyRepo.SetRented(tx, rental.PropertyID, false)
	})
	if err != nil {
		return nil, repoError(err)
	}
	logger.CtxInfo(ctx, "Property vacated", "property_id", rental.PropertyID, "rental_id", rental.ID)

	history.Tenant = rental.Tenant
	resp := dto.NewRentHistoryResponse(history)
	return &resp, nil
}

func (s *RentalServiceImpl) ClassifyAndPersist(ctx context.Context, db *gorm.DB, rental *models.RentProperty, today time.Time) (payments.Decision, error) {
	decision := payments.Evaluate(rental, today)
	if !decision.Changed {
		return decision, nil
	}

	old := *rental
	if err := s.rentalRepo.UpdateStatus(db, rental.ID, decision.Status); err != nil {
		return decision, repoError(err)
	}
	rental.Status = decision.Status
	logger.CtxInfo(ctx, "Rental status changed", "rental_id", rental.ID, "from", old.Status, "to", rental.Status)

	s.hook.AfterCommit(ctx, db, Change{Kind: ChangeRental, Op: OpUpdate, Old: &old, New: rental})
	return decision, nil
}

func (s *RentalServiceImpl) UpcomingPayments(ctx context.Context, db *gorm.DB, userID string) ([]dto.UpcomingPayment, error) {
	rentals, err := s.rentalRepo.FindByUser(db, userID)
	if err != nil {
		return nil, repoError(err)
	}

	today := s.clock.Today()
	upcoming := make([]dto.UpcomingPayment, 0)
	for i := range rentals {
		decision, err := s.ClassifyAndPersist(ctx, db, &rentals[i], today)
		if err != nil {
			return nil, err
		}
		if decision.Attention {
			upcoming = append(upcoming, upcomingPayment(&rentals[i], decision))
		}
	}
	return upcoming, nil
}

func (s *RentalServiceImpl) ReclassifyAll(ctx context.Context, db *gorm.DB) (int, error) {
	rentals, err := s.rentalRepo.FindAll(db)
	if err != nil {
		return 0, repoError(err)
	}

	today := s.clock.Today()
	changed := 0
	var errs []error
	for i := range rentals {
		decision, err := s.ClassifyAndPersist(ctx, db, &rentals[i], today)
		if err != nil {
			errs = append(errs, fmt.Errorf("rental %s: %w", rentals[i].ID, err))
			continue
		}
		if decision.Changed {
			changed++
		}
	}
	return changed, errors.Join(errs...)
}

func (s *RentalServiceImpl) saveUpload(ctx context.Context, dir string, upload *dto.FileUpload) (string, error) {
	if upload == nil || upload.Content == nil {
		return "", nil
	}
	if s.storage == nil {
		return "", apperrors.ErrInvalidOperation("file", "File storage is not configured")
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	content := upload.Content
	// фото документа арендатора уменьшаем и перекодируем
	if dir == tenantsDir && imageprocessor.Supports(ext) {
		processed, err := s.images.Process(content)
		if errors.Is(err, imageprocessor.ErrInvalidImage) {
			return "", apperrors.ValidationError(map[string]string{"id_image": "file is not a valid image"})
		}
		if err != nil {
			return "", apperrors.InternalError(err)
		}
		content = processed
	}

	path := dir + "/" + uuid.NewString() + ext
	if err := s.storage.Save(ctx, path, content); err != nil {
		return "", apperrors.InternalError(err)
	}
	return path, nil
}

func (s *RentalServiceImpl) removeFiles(ctx context.Context, paths ...string) {
	if s.storage == nil {
		return
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := s.storage.Delete(ctx, p); err != nil {
			logger.CtxWarn(ctx, "Failed to delete stored file", "path", p, "error", err)
		}
	}
}

// titleCase: "jOHN smith" -> "John Smith". Caser не потокобезопасен, создаём на вызов.
func titleCase(name string) string {
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

// contractDates разбирает даты договора: начало по умолчанию сегодня, конец +30 дней
func contractDates(startValue, endValue string, today time.Time) (time.Time, time.Time, error) {
	start, err := dto.ParseDate(startValue)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.ValidationError(map[string]string{"start_date": "must be a date in YYYY-MM-DD format"})
	}
	end, err := dto.ParseDate(endValue)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.ValidationError(map[string]string{"end_date": "must be a date in YYYY-MM-DD format"})
	}

	if start.IsZero() {
		start = today
	}
	if end.IsZero() {
		end = start.AddDate(0, 0, models.DefaultContractDays)
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, apperrors.ValidationError(map[string]string{"end_date": "must not be before start_date"})
	}
	return start, end, nil
}

// rentalResponse дополняет ответ ближайшей датой оплаты
func rentalResponse(rental *models.RentProperty, today time.Time) dto.RentalResponse {
	resp := dto.NewRentalResponse(rental)
	if due, ok := payments.NextDue(rental.Payment, rental.StartDate, rental.EndDate, today); ok {
		days := due.DaysUntil
		resp.NextDueDate = dto.FormatDate(due.Date)
		resp.DaysUntilDue = &days
	}
	return resp
}

func upcomingPayment(rental *models.RentProperty, decision payments.Decision) dto.UpcomingPayment {
	item := dto.UpcomingPayment{
		RentalID:   rental.ID,
		PropertyID: rental.PropertyID,
		Price:      rental.Price,
		Period:     rental.Payment.Period(),
		Status:     string(decision.Status),
	}
	if rental.Property != nil {
		item.PropertyName = rental.Property.Name
		item.Currency = string(rental.Property.Currency)
	}
	if rental.Tenant != nil {
		item.TenantName = rental.Tenant.Name
	}
	if decision.HasDue {
		days := decision.Due.DaysUntil
		item.DueDate = dto.FormatDate(decision.Due.Date)
		item.DaysUntilDue = &days
	}
	return item
}
