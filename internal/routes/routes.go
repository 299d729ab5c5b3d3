package routes

import (
	"ejaraat_backend/internal/handlers"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/ws"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
// authMW проверяет JWT (заголовок Authorization или ?token=).
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	authMW gin.HandlerFunc,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)

	// Регистрация HTTP API v1
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.DashboardHandler.RegisterRoutes(api, authMW)
		appHandlers.PropertyHandler.RegisterRoutes(api, authMW)
		appHandlers.RentalHandler.RegisterRoutes(api, authMW)
		appHandlers.NotificationHandler.RegisterRoutes(api, authMW)
		appHandlers.CurrencyHandler.RegisterRoutes(api, authMW)
		appHandlers.FileHandler.RegisterRoutes(api, authMW)
	}

	// Регистрация WebSocket: без токена 401 ещё до апгрейда
	ginRouter.GET("/ws", authMW, wsHandler.ServeWS)
	logger.Info("WebSocket route /ws registered")
}
