package services

import (
	"context"
	"strings"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
	"github.com/carelink/backend/internal/domain/repositories"
	apperrors "github.com/carelink/backend/pkg/errors"
)

// NotificationService stores in-app notifications and pushes them to live subscribers
type NotificationService struct {
	repo     repositories.NotificationRepository
	eventBus providers.EventBus
}

// NewNotificationService creates a new notification service
func NewNotificationService(repo repositories.NotificationRepository, eventBus providers.EventBus) *NotificationService {
	return &NotificationService{repo: repo, eventBus: eventBus}
}

// Create stores a notification and publishes it. Type defaults to system.
func (s *NotificationService) Create(ctx context.Context, n *entities.Notification) error {
	if n.UserID <= 0 || strings.TrimSpace(n.Title) == "" || strings.TrimSpace(n.Message) == "" {
		return apperrors.NewValidationError("missing required fields")
	}
	if n.Type == "" {
		n.Type = entities.NotificationTypeSystem
	}
	if !n.Type.Valid() {
		return apperrors.NewValidationErrorf("invalid notification type %q", n.Type)
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	publishNotification(ctx, s.eventBus, n)
	return nil
}

// ListByUser returns the user's most recent notifications
func (s *NotificationService) ListByUser(ctx context.Context, userID int64) ([]*entities.Notification, error) {
	return s.repo.ListByUser(ctx, userID, entities.RecentNotificationsLimit)
}

// MarkRead flags a notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id int64) error {
	return s.repo.MarkRead(ctx, id)
}

// Subscribe opens a live feed of the user's notifications until ctx is done
func (s *NotificationService) Subscribe(ctx context.Context, userID int64) (<-chan *entities.NotificationEvent, error) {
	if s.eventBus == nil {
		return nil, apperrors.NewUnavailableError("notification stream is not configured")
	}
	return s.eventBus.Subscribe(ctx, providers.GetUserChannel(userID))
}
