package handlers

import (
	"net/http"

	"ejaraat_backend/internal/services"
	"ejaraat_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type RentalHandler struct {
	*BaseHandler
	rentalService services.RentalService
}

func NewRentalHandler(base *BaseHandler, rentalService services.RentalService) *RentalHandler {
	return &RentalHandler{
		BaseHandler:   base,
		rentalService: rentalService,
	}
}

func (h *RentalHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/properties/:id/rent", authMW, h.Rent)

	rentals := rg.Group("/rentals")
	rentals.Use(authMW)
	{
		rentals.GET("/upcoming", h.Upcoming)
		rentals.PUT("/:id", h.Update)
		rentals.POST("/:id/paid", h.MarkPaid)
		rentals.POST("/:id/vacate", h.Vacate)
	}
}

// Rent сдаёт объект: поля формы арендатора, файлы id_image и contract (multipart)
func (h *RentalHandler) Rent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.RentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	idImage, releaseID, ok := h.FormFile(c, "id_image")
	if !ok {
		return
	}
	defer releaseID()

	contract, releaseContract, ok := h.FormFile(c, "contract")
	if !ok {
		return
	}
	defer releaseContract()

	rental, err := h.rentalService.Rent(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req, dto.RentUploads{
		IDImage:  idImage,
		Contract: contract,
	})
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rental)
}

func (h *RentalHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRentalRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	contract, release, ok := h.FormFile(c, "contract")
	if !ok {
		return
	}
	defer release()

	rental, err := h.rentalService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req, contract)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, rental)
}

// MarkPaid отмечает оплату и возвращает обновлённый список ближайших платежей
func (h *RentalHandler) MarkPaid(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	upcoming, err := h.rentalService.MarkPaid(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"upcoming_payments": upcoming})
}

func (h *RentalHandler) Vacate(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	history, err := h.rentalService.Vacate(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, history)
}

func (h *RentalHandler) Upcoming(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	upcoming, err := h.rentalService.UpcomingPayments(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"upcoming_payments": upcoming})
}
