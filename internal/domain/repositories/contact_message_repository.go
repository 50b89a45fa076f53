package repositories

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// ContactMessageRepository defines the interface for contact inbox operations
type ContactMessageRepository interface {
	Create(ctx context.Context, msg *entities.ContactMessage) error
	List(ctx context.Context) ([]*entities.ContactMessage, error)
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
	SetAutoReplyStatus(ctx context.Context, id int64, status entities.AutoReplyStatus) error
}
