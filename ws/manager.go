package ws

import (
	"context"
	"sync"

	"ejaraat_backend/internal/broadcast"
	"ejaraat_backend/internal/logger"
	"ejaraat_backend/internal/services"

	"gorm.io/gorm"
)

// WebSocketManager держит открытые соединения. Каждая вкладка пользователя -
// отдельный клиент со своей подпиской на топик user_{id}.
type WebSocketManager struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	broker        broadcast.Broker
	notifications services.NotificationService
	db            *gorm.DB

	ctx    context.Context
	cancel context.CancelFunc
}

func NewWebSocketManager(broker broadcast.Broker, notifications services.NotificationService, db *gorm.DB) *WebSocketManager {
	ctx, cancel := context.WithCancel(context.Background())
	return &WebSocketManager{
		clients:       make(map[string]map[*Client]struct{}),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		broker:        broker,
		notifications: notifications,
		db:            db,
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Run обслуживает регистрацию клиентов до отмены ctx, затем закрывает все соединения
func (manager *WebSocketManager) Run(ctx context.Context) error {
	for {
		select {
		case client := <-manager.register:
			manager.mu.Lock()
			if manager.clients[client.UserID] == nil {
				manager.clients[client.UserID] = make(map[*Client]struct{})
			}
			manager.clients[client.UserID][client] = struct{}{}
			total := len(manager.clients[client.UserID])
			manager.mu.Unlock()
			logger.CtxDebug(client.ctx, "WebSocket client registered", "connections", total)

		case client := <-manager.unregister:
			manager.remove(client)

		case <-ctx.Done():
			manager.shutdown()
			return nil
		}
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()

	conns, ok := manager.clients[client.UserID]
	if !ok {
		return
	}
	delete(conns, client)
	if len(conns) == 0 {
		delete(manager.clients, client.UserID)
	}
	logger.CtxDebug(client.ctx, "WebSocket client unregistered", "connections", len(conns))
}

func (manager *WebSocketManager) shutdown() {
	manager.cancel()

	manager.mu.Lock()
	var all []*Client
	for _, conns := range manager.clients {
		for client := range conns {
			all = append(all, client)
		}
	}
	manager.clients = make(map[string]map[*Client]struct{})
	manager.mu.Unlock()

	for _, client := range all {
		client.close()
	}
	logger.Info("WebSocket manager stopped", "closed", len(all))
}

func (manager *WebSocketManager) add(client *Client) bool {
	select {
	case manager.register <- client:
		return true
	case <-manager.ctx.Done():
		return false
	}
}

func (manager *WebSocketManager) drop(client *Client) {
	select {
	case manager.unregister <- client:
	case <-manager.ctx.Done():
	}
}

// GetClientCount возвращает количество открытых соединений пользователя
func (manager *WebSocketManager) GetClientCount(userID string) int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients[userID])
}

// IsClientConnected проверяет, есть ли у пользователя хотя бы одно соединение
func (manager *WebSocketManager) IsClientConnected(userID string) bool {
	return manager.GetClientCount(userID) > 0
}
