package handlers

import (
	"net/http"

	"ejaraat_backend/internal/services"
	"ejaraat_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type CurrencyHandler struct {
	*BaseHandler
	currencyService services.CurrencyService
}

func NewCurrencyHandler(base *BaseHandler, currencyService services.CurrencyService) *CurrencyHandler {
	return &CurrencyHandler{
		BaseHandler:     base,
		currencyService: currencyService,
	}
}

func (h *CurrencyHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/currency/convert", authMW, h.Convert)
}

func (h *CurrencyHandler) Convert(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	var query dto.ConvertQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	conversion, err := h.currencyService.Convert(c.Request.Context(), &query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"from":   conversion.From,
		"to":     conversion.To,
		"rate":   conversion.Rate.String(),
		"amount": conversion.Amount.String(),
		"result": conversion.Result.StringFixed(2),
	})
}
