package repositories

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// NotificationRepository defines the interface for notification data operations
type NotificationRepository interface {
	Create(ctx context.Context, notification *entities.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, id int64) error
}
