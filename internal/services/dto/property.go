package dto

import (
	"time"

	"ejaraat_backend/internal/models"
)

type CreatePropertyRequest struct {
	Name         string `json:"name" form:"name" validate:"required,max=20"`
	PropertyType string `json:"property_type" form:"property_type" validate:"omitempty,property-type"`
	Country      string `json:"country" form:"country" validate:"required,country-code"`
	City         string `json:"city" form:"city" validate:"required,max=25"`
	Address      string `json:"address" form:"address" validate:"required,max=100"`
	Currency     string `json:"currency" form:"currency" validate:"omitempty,currency-code"`
}

// UpdatePropertyRequest: частичное обновление, nil поля не трогаем
type UpdatePropertyRequest struct {
	Name         *string `json:"name" form:"name" validate:"omitempty,min=1,max=20"`
	PropertyType *string `json:"property_type" form:"property_type" validate:"omitempty,property-type"`
	Country      *string `json:"country" form:"country" validate:"omitempty,country-code"`
	City         *string `json:"city" form:"city" validate:"omitempty,min=1,max=25"`
	Address      *string `json:"address" form:"address" validate:"omitempty,min=1,max=100"`
	Currency     *string `json:"currency" form:"currency" validate:"omitempty,currency-code"`
}

// PropertyListQuery: фильтр списка
type PropertyListQuery struct {
	Q        string `form:"q" json:"q" validate:"omitempty,max=50"`
	IsRented *bool  `form:"is_rented" json:"is_rented"`
}

type PropertyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PropertyType string    `json:"property_type"`
	TypeLabel    string    `json:"type_label"`
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Address      string    `json:"address"`
	Currency     string    `json:"currency"`
	IsRented     bool      `json:"is_rented"`
	CreatedAt    time.Time `json:"created_at"`
}

// PropertyDetailsResponse: объект с активной арендой и историей
type PropertyDetailsResponse struct {
	PropertyResponse
	Rental  *RentalResponse       `json:"rental,omitempty"`
	History []RentHistoryResponse `json:"history"`
}

type RentHistoryResponse struct {
	ID            string `json:"id"`
	TenantName    string `json:"tenant_name,omitempty"`
	TenantPhone   string `json:"tenant_phone,omitempty"`
	Price         int64  `json:"price"`
	DamageDeposit *int64 `json:"damage_deposit,omitempty"`
	PaymentType   string `json:"payment_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Contract      string `json:"contract,omitempty"`
}

func NewPropertyResponse(p *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		Name:         p.Name,
		PropertyType: string(p.PropertyType),
		TypeLabel:    p.PropertyType.Label(),
		Country:      p.Country,
		City:         p.City,
		Address:      p.Address,
		Currency:     string(p.Currency),
		IsRented:     p.IsRented,
		CreatedAt:    p.CreatedAt,
	}
}

func NewPropertyListResponse(properties []models.Property) []PropertyResponse {
	result := make([]PropertyResponse, 0, len(properties))
	for i := range properties {
		result = append(result, NewPropertyResponse(&properties[i]))
	}
	return result
}

func NewRentHistoryResponse(h *models.RentHistory) RentHistoryResponse {
	resp := RentHistoryResponse{
		ID:            h.ID,
		Price:         h.Price,
		DamageDeposit: h.DamageDeposit,
		PaymentType:   h.PaymentType,
		StartDate:     FormatDate(h.StartDate),
		EndDate:       FormatDate(h.EndDate),
		Contract:      h.Contract,
	}
	if h.Tenant != nil {
		resp.TenantName = h.Tenant.Name
		resp.TenantPhone = h.Tenant.PhoneNumber
	}
	return resp
}
