package services

import (
	"context"
	"sync"

	"socialbook/models"
)

type EventHandler func(event models.NotificationEvent)

// EventBus доставляет события о новых уведомлениях до websocket-клиентов
type EventBus interface {
	Publish(ctx context.Context, event models.NotificationEvent) error
	// Consume registers handler until ctx is done.
	Consume(ctx context.Context, handler EventHandler) error
	Close() error
}

// LocalEventBus delivers events in-process; used when RabbitMQ is not configured.
type LocalEventBus struct {
	mu       sync.RWMutex
	nextID   int
	handlers map[int]EventHandler
}

func NewLocalEventBus() *LocalEventBus {
	return &LocalEventBus{handlers: make(map[int]EventHandler)}
}

func (b *LocalEventBus) Publish(_ context.Context, event models.NotificationEvent) error {
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.handlers))
	for _, h := range b.handlers {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()
	for _, h := range handlers {
		h(event)
	}
	return nil
}

func (b *LocalEventBus) Consume(ctx context.Context, handler EventHandler) error {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = handler
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.handlers, id)
		b.mu.Unlock()
	}()
	return nil
}

func (b *LocalEventBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = make(map[int]EventHandler)
	return nil
}
