package broadcast

import (
	"context"
	"sync"

	"ejaraat_backend/internal/logger"
)

// Hub: брокер в памяти процесса
type Hub struct {
	mu      sync.RWMutex
	topics  map[string]map[*hubSubscriber]struct{}
	bufSize int
	closed  bool
}

type hubSubscriber struct {
	ch chan []byte
}

func NewHub(bufSize int) *Hub {
	if bufSize < 1 {
		bufSize = 64
	}
	return &Hub{
		topics:  make(map[string]map[*hubSubscriber]struct{}),
		bufSize: bufSize,
	}
}

func (h *Hub) Publish(ctx context.Context, topic string, payload []byte) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed {
		return ErrClosed
	}

	for sub := range h.topics[topic] {
		select {
		case sub.ch <- payload:
		default:
			// Буфер подписчика заполнен, сообщение теряется
			logger.CtxWarn(ctx, "broadcast: subscriber buffer full, dropping message", "topic", topic)
		}
	}
	return nil
}

func (h *Hub) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	sub := &hubSubscriber{ch: make(chan []byte, h.bufSize)}
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*hubSubscriber]struct{})
	}
	h.topics[topic][sub] = struct{}{}

	return newSubscription(ctx, sub.ch, func() {
		h.remove(topic, sub)
	}), nil
}

func (h *Hub) remove(topic string, sub *hubSubscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.topics[topic]
	if !ok {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	close(sub.ch)
	if len(subs) == 0 {
		delete(h.topics, topic)
	}
}

// Subscribers: число подписчиков топика
func (h *Hub) Subscribers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

func (h *Hub) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true
	for topic, subs := range h.topics {
		for sub := range subs {
			close(sub.ch)
		}
		delete(h.topics, topic)
	}
	return nil
}
