package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"ejaraat_backend/internal/services"
	"ejaraat_backend/internal/services/dto"
	"ejaraat_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PropertyHandler struct {
	*BaseHandler
	propertyService services.PropertyService
}

func NewPropertyHandler(base *BaseHandler, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler:     base,
		propertyService: propertyService,
	}
}

func (h *PropertyHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	properties := rg.Group("/properties")
	properties.Use(authMW)
	{
		properties.POST("", h.Create)
		properties.GET("", h.List)
		properties.GET("/search", h.Search)
		properties.GET("/:id", h.Get)
		properties.PUT("/:id", h.Update)
		properties.DELETE("/:id", h.Delete)
		properties.GET("/:id/history", h.History)
		properties.GET("/:id/history/export", h.ExportHistory)
	}
}

func (h *PropertyHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.propertyService.Create(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.PropertyListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	h.list(c, userID, &query)
}

// Search: тот же список, но q обязателен (поиск по названию или стране)
func (h *PropertyHandler) Search(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var query dto.PropertyListQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}
	if strings.TrimSpace(query.Q) == "" {
		apperrors.HandleError(c, apperrors.ValidationError(map[string]string{"q": "This field is required"}))
		return
	}

	h.list(c, userID, &query)
}

func (h *PropertyHandler) list(c *gin.Context, userID string, query *dto.PropertyListQuery) {
	properties, err := h.propertyService.List(c.Request.Context(), h.GetDB(c), userID, query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"properties": properties,
		"total":      len(properties),
	})
}

func (h *PropertyHandler) Get(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	property, err := h.propertyService.Get(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	property, err := h.propertyService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.propertyService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Property deleted successfully"})
}

func (h *PropertyHandler) History(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	history, err := h.propertyService.History(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

func (h *PropertyHandler) ExportHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	filename, data, err := h.propertyService.ExportHistory(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}
