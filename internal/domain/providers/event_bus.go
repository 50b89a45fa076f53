package providers

import (
	"context"
	"fmt"

	"github.com/carelink/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to notification events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.NotificationEvent) error

	// Subscribe subscribes to events on a channel. The returned channel is
	// closed when ctx is done or Unsubscribe is called.
	Subscribe(ctx context.Context, channel string) (<-chan *entities.NotificationEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelUserPrefix is the prefix for per-user notification channels
const EventChannelUserPrefix = "notifications:user:"

// GetUserChannel returns the channel name for a user's notifications
func GetUserChannel(userID int64) string {
	return fmt.Sprintf("%s%d", EventChannelUserPrefix, userID)
}
