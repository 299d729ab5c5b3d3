package dto

import (
	"io"

	"ejaraat_backend/internal/models"
)

// RentRequest: сдать объект. Принимается JSON или multipart (с файлами).
type RentRequest struct {
	TenantName    string `json:"tenant_name" form:"tenant_name" validate:"required,max=100"`
	PhoneNumber   string `json:"phone_number" form:"phone_number" validate:"required,max=14,phone-plus"`
	Payment       int    `json:"payment" form:"payment" validate:"omitempty,payment-interval"`
	Price         int64  `json:"price" form:"price" validate:"required,gt=0"`
	DamageDeposit *int64 `json:"damage_deposit" form:"damage_deposit" validate:"omitempty,gte=0"`
	StartDate     string `json:"start_date" form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `json:"end_date" form:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateRentalRequest: nil поля не меняются
type UpdateRentalRequest struct {
	Payment       *int    `json:"payment" form:"payment" validate:"omitempty,payment-interval"`
	Price         *int64  `json:"price" form:"price" validate:"omitempty,gt=0"`
	DamageDeposit *int64  `json:"damage_deposit" form:"damage_deposit" validate:"omitempty,gte=0"`
	StartDate     *string `json:"start_date" form:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string `json:"end_date" form:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status        *string `json:"status" form:"status" validate:"omitempty,oneof=paid unpaid pending overdue"`
}

// FileUpload: загруженный файл (ID арендатора, договор)
type FileUpload struct {
	Filename string
	Content  io.Reader
}

// RentUploads: необязательные файлы к аренде
type RentUploads struct {
	IDImage  *FileUpload
	Contract *FileUpload
}

type TenantResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
	IDImage     string `json:"id_image,omitempty"`
}

type RentalResponse struct {
	ID            string          `json:"id"`
	PropertyID    string          `json:"property_id"`
	PropertyName  string          `json:"property_name,omitempty"`
	Tenant        *TenantResponse `json:"tenant,omitempty"`
	Payment       int             `json:"payment"`
	PaymentLabel  string          `json:"payment_label"`
	Price         int64           `json:"price"`
	Currency      string          `json:"currency,omitempty"`
	DamageDeposit *int64          `json:"damage_deposit,omitempty"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	Status        string          `json:"status"`
	Contract      string          `json:"contract,omitempty"`
	NextDueDate   string          `json:"next_due_date,omitempty"`
	DaysUntilDue  *int            `json:"days_until_due,omitempty"`
}

// UpcomingPayment: аренда, требующая внимания
type UpcomingPayment struct {
	RentalID     string `json:"rental_id"`
	PropertyID   string `json:"property_id"`
	PropertyName string `json:"property_name"`
	TenantName   string `json:"tenant_name,omitempty"`
	Price        int64  `json:"price"`
	Currency     string `json:"currency"`
	Period       string `json:"period"`
	Status       string `json:"status"`
	DueDate      string `json:"due_date,omitempty"`
	DaysUntilDue *int   `json:"days_until_due,omitempty"`
}

func NewRentalResponse(r *models.RentProperty) RentalResponse {
	resp := RentalResponse{
		ID:            r.ID,
		PropertyID:    r.PropertyID,
		Payment:       int(r.Payment),
		PaymentLabel:  r.Payment.Label(),
		Price:         r.Price,
		DamageDeposit: r.DamageDeposit,
		StartDate:     FormatDate(r.StartDate),
		EndDate:       FormatDate(r.EndDate),
		Status:        string(r.Status),
		Contract:      r.Contract,
	}
	if r.Property != nil {
		resp.PropertyName = r.Property.Name
		resp.Currency = string(r.Property.Currency)
	}
	if r.Tenant != nil {
		resp.Tenant = &TenantResponse{
			ID:          r.Tenant.ID,
			Name:        r.Tenant.Name,
			PhoneNumber: r.Tenant.PhoneNumber,
			IDImage:     r.Tenant.IDImage,
		}
	}
	return resp
}
