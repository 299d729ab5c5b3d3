package ws

import (
	"net/http"
	"slices"

	"ejaraat_backend/internal/broadcast"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/middleware"
	"ejaraat_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	Manager  *WebSocketManager
	upgrader websocket.Upgrader
}

// NewWebSocketHandler: пустой allowedOrigins или "*" пропускает любой origin
func NewWebSocketHandler(manager *WebSocketManager, allowedOrigins []string) *WebSocketHandler {
	allowAll := len(allowedOrigins) == 0 || slices.Contains(allowedOrigins, "*")

	return &WebSocketHandler{
		Manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// ServeWS ожидает, что AuthMiddleware уже проверил токен: без него 401 до апгрейда
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if userID == "" {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrader сам ответил клиенту
		logger.CtxWarn(c.Request.Context(), "WebSocket upgrade error", "error", err)
		return
	}

	client := newClient(h.Manager, conn, userID)

	// Контекст запроса отменяется после выхода из хэндлера, подписка живёт в контексте клиента
	sub, err := h.Manager.broker.Subscribe(client.ctx, broadcast.UserTopic(userID))
	if err != nil {
		logger.CtxWithError(client.ctx, "WebSocket subscribe failed", err)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "unavailable"))
		client.cancel()
		conn.Close()
		return
	}

	if !h.Manager.add(client) {
		sub.Close()
		client.cancel()
		conn.Close()
		return
	}
	logger.CtxInfo(client.ctx, "WebSocket client connected")

	go client.forward(sub)
	go client.writePump()
	go client.readPump()
}
