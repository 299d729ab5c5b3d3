package handlers

import (
	"io"
	"net/http"
	"strings"

	"ejaraat_backend/internal/services"
	"ejaraat_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	*BaseHandler
	fileService services.FileService
}

func NewFileHandler(base *BaseHandler, fileService services.FileService) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		fileService: fileService,
	}
}

func (h *FileHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/files/*path", authMW, h.ServeFile)
}

// ServeFile отдаёт ID арендатора или договор владельцу объекта
func (h *FileHandler) ServeFile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	filePath := strings.TrimPrefix(c.Param("path"), "/")
	if filePath == "" {
		apperrors.HandleError(c, apperrors.NewBadRequestError("Missing file path"))
		return
	}

	file, err := h.fileService.Open(c.Request.Context(), h.GetDB(c), userID, filePath)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Content.Close()

	c.Header("Cache-Control", "private, max-age=3600")
	if c.Query("download") == "true" {
		c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	} else {
		c.Header("Content-Disposition", "inline")
	}
	c.Header("Content-Type", file.ContentType)
	c.Status(http.StatusOK)

	// Заголовки уже отправлены, ошибку копирования только фиксируем
	if _, err := io.Copy(c.Writer, file.Content); err != nil {
		c.Error(err)
	}
}
