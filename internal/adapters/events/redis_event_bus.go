package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
	redisclient "github.com/carelink/backend/internal/infrastructure/clients/redis"
)

// pubSub is the part of *redis.PubSub the bus uses
type pubSub interface {
	Channel(opts ...redis.ChannelOption) <-chan *redis.Message
	Close() error
}

// RedisEventBus implements the EventBus interface using Redis Pub/Sub, so
// notifications reach streams held open by any API instance. One Redis
// subscription is held per channel while it has local subscribers; mu guards
// both the hub membership and the subscriptions map.
type RedisEventBus struct {
	client        *redisclient.Client
	hub           *hub
	mu            sync.Mutex
	subscriptions map[string]pubSub
	subscribe     func(ctx context.Context, channel string) pubSub
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		hub:           newHub(),
		subscriptions: make(map[string]pubSub),
		subscribe: func(ctx context.Context, channel string) pubSub {
			return client.Client().Subscribe(ctx, channel)
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.NotificationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Msg("published notification event")
	return nil
}

// Subscribe subscribes to events on a channel
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error) {
	b.mu.Lock()
	eventChan, _ := b.hub.add(channel)
	if _, exists := b.subscriptions[channel]; !exists {
		ps := b.subscribe(b.ctx, channel)
		b.subscriptions[channel] = ps
		go b.receive(channel, ps)
	}
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.hub.remove(channel, eventChan) {
			b.closeSubscriptionLocked(channel)
		}
	}()

	return eventChan, nil
}

func (b *RedisEventBus) receive(channel string, pubsub pubSub) {
	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event entities.NotificationEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Error().Err(err).Str("channel", channel).Msg("failed to unmarshal notification event")
				continue
			}
			b.hub.broadcast(channel, &event)
		}
	}
}

func (b *RedisEventBus) closeSubscriptionLocked(channel string) {
	if pubsub, ok := b.subscriptions[channel]; ok {
		if err := pubsub.Close(); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to close subscription")
		}
		delete(b.subscriptions, channel)
	}
}

// Unsubscribe drops every local subscriber of a channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hub.removeAll(channel)
	b.closeSubscriptionLocked(channel)
	return nil
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, channel := range b.hub.channels() {
		b.hub.removeAll(channel)
	}
	var errs []error
	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(b.subscriptions, channel)
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %v", errs)
	}
	return nil
}
