package entities

import (
	"time"

	"github.com/google/uuid"
)

// NotificationEvent is published on the event bus when a notification is stored
type NotificationEvent struct {
	ID           string        `json:"id"`
	UserID       int64         `json:"user_id"`
	Notification *Notification `json:"notification"`
	Timestamp    time.Time     `json:"timestamp"`
}

// NewNotificationEvent wraps a stored notification for publishing
func NewNotificationEvent(n *Notification) *NotificationEvent {
	return &NotificationEvent{
		ID:           uuid.NewString(),
		UserID:       n.UserID,
		Notification: n,
		Timestamp:    time.Now().UTC(),
	}
}
