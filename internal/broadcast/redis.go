package broadcast

import (
	"context"
	"fmt"
	"sync"

	"ejaraat_backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// RedisBroker раздаёт сообщения через Redis PUBLISH/SUBSCRIBE,
// чтобы живой канал работал при нескольких инстансах сервера.
// Клиент принадлежит вызывающему и здесь не закрывается.
type RedisBroker struct {
	client  *redis.Client
	bufSize int

	mu     sync.Mutex
	subs   map[*redis.PubSub]struct{}
	closed bool
}

func NewRedisBroker(client *redis.Client, bufSize int) *RedisBroker {
	if bufSize < 1 {
		bufSize = 64
	}
	return &RedisBroker{
		client:  client,
		bufSize: bufSize,
		subs:    make(map[*redis.PubSub]struct{}),
	}
}

func (b *RedisBroker) Publish(ctx context.Context, topic string, payload []byte) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	if err := b.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", topic, err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, topic string) (*Subscription, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	b.mu.Unlock()

	ps := b.client.Subscribe(ctx, topic)
	// Ждём подтверждения подписки, иначе первые сообщения могут потеряться
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("redis subscribe %s: %w", topic, err)
	}

	b.mu.Lock()
	b.subs[ps] = struct{}{}
	b.mu.Unlock()

	out := make(chan []byte, b.bufSize)
	go func() {
		defer close(out)
		for msg := range ps.Channel() {
			select {
			case out <- []byte(msg.Payload):
			default:
				logger.Warn("broadcast: subscriber buffer full, dropping message", "topic", topic)
			}
		}
	}()

	return newSubscription(ctx, out, func() {
		b.mu.Lock()
		_, active := b.subs[ps]
		delete(b.subs, ps)
		b.mu.Unlock()
		if !active {
			// уже закрыта в Close
			return
		}
		if err := ps.Close(); err != nil {
			logger.Warn("broadcast: failed to close redis subscription", "topic", topic, "error", err)
		}
	}), nil
}

func (b *RedisBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for ps := range b.subs {
		ps.Close()
		delete(b.subs, ps)
	}
	return nil
}
