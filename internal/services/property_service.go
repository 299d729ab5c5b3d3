package services

import (
	"context"

	"ejaraat_backend/internal/export"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/models"
	"ejaraat_backend/internal/repositories"
	"ejaraat_backend/internal/services/dto"
	"ejaraat_backend/internal/storage"
	"ejaraat_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PropertyService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error)
	// List: объекты арендодателя; q ищет по названию или стране
	List(ctx context.Context, db *gorm.DB, userID string, query *dto.PropertyListQuery) ([]dto.PropertyResponse, error)
	Get(ctx context.Context, db *gorm.DB, userID, propertyID string) (*dto.PropertyDetailsResponse, error)
	Update(ctx context.Context, db *gorm.DB, userID, propertyID string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error)
	Delete(ctx context.Context, db *gorm.DB, userID, propertyID string) error
	History(ctx context.Context, db *gorm.DB, userID, propertyID string) ([]dto.RentHistoryResponse, error)
	ExportHistory(ctx context.Context, db *gorm.DB, userID, propertyID string) (string, []byte, error)
}

type PropertyServiceImpl struct {
	propertyRepo repositories.PropertyRepository
	historyRepo  repositories.HistoryRepository
	storage      storage.Storage
	hook         ChangeHook
	clock        Clock
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	historyRepo repositories.HistoryRepository,
	storage storage.Storage,
	hook ChangeHook,
	clock Clock,
) PropertyService {
	if hook == nil {
		hook = noopHook{}
	}
	return &PropertyServiceImpl{
		propertyRepo: propertyRepo,
		historyRepo:  historyRepo,
		storage:      storage,
		hook:         hook,
		clock:        clock,
	}
}

func (s *PropertyServiceImpl) Create(ctx context.Context, db *gorm.DB, userID string, req *dto.CreatePropertyRequest) (*dto.PropertyResponse, error) {
	property := &models.Property{
		UserID:       userID,
		Name:         req.Name,
		PropertyType: models.PropertyType(req.PropertyType),
		Country:      req.Country,
		City:         req.City,
		Address:      req.Address,
		Currency:     models.Currency(req.Currency),
	}

	if err := s.propertyRepo.Create(db, property); err != nil {
		return nil, repoError(err)
	}
	logger.CtxInfo(ctx, "Property created", "property_id", property.ID)

	s.hook.AfterCommit(ctx, db, Change{Kind: ChangeProperty, Op: OpCreate, New: property})

	resp := dto.NewPropertyResponse(property)
	return &resp, nil
}

func (s *PropertyServiceImpl) List(ctx context.Context, db *gorm.DB, userID string, query *dto.PropertyListQuery) ([]dto.PropertyResponse, error) {
	filter := repositories.PropertyFilter{}
	if query != nil {
		filter.Search = query.Q
		filter.IsRented = query.IsRented
	}

	properties, err := s.propertyRepo.FindByUser(db, userID, filter)
	if err != nil {
		return nil, repoError(err)
	}
	return dto.NewPropertyListResponse(properties), nil
}

func (s *PropertyServiceImpl) Get(ctx context.Context, db *gorm.DB, userID, propertyID string) (*dto.PropertyDetailsResponse, error) {
	property, err := s.propertyRepo.FindOwned(db, userID, propertyID)
	if err != nil {
		return nil, repoError(err)
	}
	history, err := s.historyRepo.FindByProperty(db, property.ID)
	if err != nil {
		return nil, repoError(err)
	}

	resp := &dto.PropertyDetailsResponse{
		PropertyResponse: dto.NewPropertyResponse(property),
		History:          make([]dto.RentHistoryResponse, 0, len(history)),
	}
	if property.Rental != nil {
		property.Rental.Property = property
		rental := rentalResponse(property.Rental, s.clock.Today())
		resp.Rental = &rental
	}
	for i := range history {
		resp.History = append(resp.History, dto.NewRentHistoryResponse(&history[i]))
	}
	return resp, nil
}

func (s *PropertyServiceImpl) Update(ctx context.Context, db *gorm.DB, userID, propertyID string, req *dto.UpdatePropertyRequest) (*dto.PropertyResponse, error) {
	property, err := s.propertyRepo.FindOwned(db, userID, propertyID)
	if err != nil {
		return nil, repoError(err)
	}
	old := *property

	if req.Name != nil {
		property.Name = *req.Name
	}
	if req.PropertyType != nil {
		property.PropertyType = models.PropertyType(*req.PropertyType)
	}
	if req.Country != nil {
		property.Country = *req.Country
	}
	if req.City != nil {
		property.City = *req.City
	}
	if req.Address != nil {
		property.Address = *req.Address
	}
	if req.Currency != nil {
		// пустая строка снова выводит валюту из страны
		property.Currency = models.Currency(*req.Currency)
	}

	if err := s.propertyRepo.Update(db, property); err != nil {
		return nil, repoError(err)
	}

	s.hook.AfterCommit(ctx, db, Change{Kind: ChangeProperty, Op: OpUpdate, Old: &old, New: property})

	resp := dto.NewPropertyResponse(property)
	return &resp, nil
}

func (s *PropertyServiceImpl) Delete(ctx context.Context, db *gorm.DB, userID, propertyID string) error {
	property, err := s.propertyRepo.FindOwned(db, userID, propertyID)
	if err != nil {
		return repoError(err)
	}
	history, err := s.historyRepo.FindByProperty(db, property.ID)
	if err != nil {
		return repoError(err)
	}

	if err := s.propertyRepo.Delete(db, property.ID); err != nil {
		return repoError(err)
	}
	logger.CtxInfo(ctx, "Property deleted", "property_id", property.ID)

	// файлы договоров удаляем после коммита, ошибки не критичны
	var files []string
	if property.Rental != nil && property.Rental.Contract != "" {
		files = append(files, property.Rental.Contract)
	}
	for _, h := range history {
		if h.Contract != "" {
			files = append(files, h.Contract)
		}
	}
	s.removeFiles(ctx, files...)
	return nil
}

func (s *PropertyServiceImpl) History(ctx context.Context, db *gorm.DB, userID, propertyID string) ([]dto.RentHistoryResponse, error) {
	property, err := s.propertyRepo.FindOwned(db, userID, propertyID)
	if err != nil {
		return nil, repoError(err)
	}
	history, err := s.historyRepo.FindByProperty(db, property.ID)
	if err != nil {
		return nil, repoError(err)
	}

	result := make([]dto.RentHistoryResponse, 0, len(history))
	for i := range history {
		result = append(result, dto.NewRentHistoryResponse(&history[i]))
	}
	return result, nil
}

func (s *PropertyServiceImpl) ExportHistory(ctx context.Context, db *gorm.DB, userID, propertyID string) (string, []byte, error) {
	property, err := s.propertyRepo.FindOwned(db, userID, propertyID)
	if err != nil {
		return "", nil, repoError(err)
	}
	history, err := s.historyRepo.FindByProperty(db, property.ID)
	if err != nil {
		return "", nil, repoError(err)
	}

	data, err := export.RentHistoryXLSX(property, history)
	if err != nil {
		return "", nil, apperrors.InternalError(err)
	}
	return export.HistoryFilename(property), data, nil
}

func (s *PropertyServiceImpl) removeFiles(ctx context.Context, paths ...string) {
	if s.storage == nil {
		return
	}
	for _, p := range paths {
		if err := s.storage.Delete(ctx, p); err != nil {
			logger.CtxWarn(ctx, "Failed to delete stored file", "path", p, "error", err)
		}
	}
}
