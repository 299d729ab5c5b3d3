package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"ejaraat_backend/internal/broadcast"
	"ejaraat_backend/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 64
)

// ClearCommand: единственная входящая команда: {"data": "clear"}
const ClearCommand = "clear"

type IncomingWSMessage struct {
	Data string `json:"data"`
}

type Client struct {
	UserID string
	conn   *websocket.Conn
	send   chan []byte

	manager *WebSocketManager
	ctx     context.Context
	cancel  context.CancelFunc
	once    sync.Once
}

func newClient(manager *WebSocketManager, conn *websocket.Conn, userID string) *Client {
	ctx, cancel := context.WithCancel(manager.ctx)
	return &Client{
		UserID:  userID,
		conn:    conn,
		send:    make(chan []byte, sendBufferSize),
		manager: manager,
		ctx:     logger.WithUserID(ctx, userID),
		cancel:  cancel,
	}
}

// close идемпотентен: отменяет подписку, закрывает сокет и снимает клиента с учёта
func (c *Client) close() {
	c.once.Do(func() {
		c.cancel()
		c.conn.Close()
		c.manager.drop(c)
	})
}

// enqueue не блокируется: если клиент не успевает читать, сообщение теряется
func (c *Client) enqueue(msg []byte) {
	select {
	case c.send <- msg:
	case <-c.ctx.Done():
	default:
		logger.CtxWarn(c.ctx, "WebSocket send buffer full, dropping message")
	}
}

// forward переносит сообщения топика пользователя в сокет
func (c *Client) forward(sub *broadcast.Subscription) {
	defer sub.Close()

	for {
		select {
		case <-c.ctx.Done():
			return
		case msg, ok := <-sub.C:
			if !ok {
				c.close()
				return
			}
			c.enqueue(msg)
		}
	}
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msgBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.CtxWarn(c.ctx, "WebSocket read error", "error", err)
			}
			return
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.CtxDebug(c.ctx, "Failed to parse WebSocket message", "error", err)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return

		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.CtxWarn(c.ctx, "WebSocket write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Data {
	case ClearCommand:
		resp, err := c.manager.notifications.Clear(c.ctx, c.manager.db.WithContext(c.ctx), c.UserID)
		if err != nil {
			logger.CtxWithError(c.ctx, "Failed to clear notifications", err)
			return
		}

		payload, err := json.Marshal(broadcast.Envelope{Type: broadcast.TypeClearNotifications, HTML: resp.HTML})
		if err != nil {
			logger.CtxWithError(c.ctx, "Failed to encode clear_notifications", err)
			return
		}
		c.enqueue(payload)

	default:
		logger.CtxDebug(c.ctx, "Unhandled WebSocket message", "data", msg.Data)
	}
}
