// Package broadcast: шина сообщений для живого канала пользователя.
// Публикация никогда не ждёт доставки: медленный подписчик теряет сообщения.
package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

var ErrClosed = errors.New("broker is closed")

// Broker публикует сообщения в топик и раздаёт их подписчикам
type Broker interface {
	Publish(ctx context.Context, topic string, payload []byte) error
	Subscribe(ctx context.Context, topic string) (*Subscription, error)
	Close() error
}

// Subscription: поток сообщений топика. C закрывается после Close или отмены ctx.
type Subscription struct {
	C <-chan []byte

	once   sync.Once
	cancel func()
}

// newSubscription связывает подписку с ctx: отмена ctx закрывает подписку
func newSubscription(ctx context.Context, c <-chan []byte, cancel func()) *Subscription {
	done := make(chan struct{})
	s := &Subscription{C: c, cancel: func() {
		close(done)
		cancel()
	}}

	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-done:
		}
	}()
	return s
}

func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}

// Типы сообщений живого канала
const (
	TypeRecentActivities   = "recent_activities"
	TypeNotifications      = "notifications"
	TypeClearNotifications = "clear_notifications"
	TypePaymentStatusChart = "payment_status_chart"
)

// Envelope: формат сообщения, которое уходит в браузер
type Envelope struct {
	Type string `json:"type"`
	HTML string `json:"html,omitempty"`
	Data any    `json:"data,omitempty"`
}

// UserTopic: персональный топик пользователя
func UserTopic(userID string) string {
	return "user_" + userID
}

// PublishEnvelope сериализует envelope и публикует его
func PublishEnvelope(ctx context.Context, b Broker, topic string, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return b.Publish(ctx, topic, payload)
}
