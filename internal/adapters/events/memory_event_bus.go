package events

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
)

// MemoryEventBus delivers events within a single process. It is used when
// Redis is disabled.
type MemoryEventBus struct {
	hub    *hub
	ctx    context.Context
	cancel context.CancelFunc
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &MemoryEventBus{hub: newHub(), ctx: ctx, cancel: cancel}
}

// Publish delivers the event to current subscribers
func (b *MemoryEventBus) Publish(_ context.Context, channel string, event *entities.NotificationEvent) error {
	b.hub.broadcast(channel, event)
	return nil
}

// Subscribe registers a subscriber until ctx is done
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error) {
	ch, _ := b.hub.add(channel)
	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.hub.remove(channel, ch)
	}()
	return ch, nil
}

// Unsubscribe drops every subscriber of a channel
func (b *MemoryEventBus) Unsubscribe(_ context.Context, channel string) error {
	b.hub.removeAll(channel)
	return nil
}

// Close drops all subscribers
func (b *MemoryEventBus) Close() error {
	b.cancel()
	for _, c := range b.hub.channels() {
		b.hub.removeAll(c)
	}
	return nil
}
