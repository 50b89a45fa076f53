package handlers

import (
	"context"
	"net/http"

	"github.com/carelink/backend/internal/domain/entities"
)

// NotificationService defines the notification operations used by the handlers
type NotificationService interface {
	Create(ctx context.Context, n *entities.Notification) error
	ListByUser(ctx context.Context, userID int64) ([]*entities.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	Subscribe(ctx context.Context, userID int64) (<-chan *entities.NotificationEvent, error)
}

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	service NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

type createNotificationRequest struct {
	UserID  int64                     `json:"user_id" validate:"required,gt=0"`
	Title   string                    `json:"title" validate:"required"`
	Message string                    `json:"message" validate:"required"`
	Type    entities.NotificationType `json:"type" validate:"omitempty,oneof=payment appointment system"`
}

// CreateNotification handles POST /api/notifications
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req createNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "failed to send notification")
		return
	}

	n := &entities.Notification{UserID: req.UserID, Title: req.Title, Message: req.Message, Type: req.Type}
	if err := h.service.Create(r.Context(), n); err != nil {
		respondWithAppError(w, r, err, "failed to send notification")
		return
	}
	respondWithJSON(w, http.StatusCreated, createdResponse{ID: n.ID, Message: "Notification sent successfully"})
}

// ListUserNotifications handles GET /api/notifications/user/{user_id}
func (h *NotificationHandler) ListUserNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "user_id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch notifications")
		return
	}
	list, err := h.service.ListByUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch notifications")
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

// MarkRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to update notification")
		return
	}
	if err := h.service.MarkRead(r.Context(), id); err != nil {
		respondWithAppError(w, r, err, "failed to update notification")
		return
	}
	respondWithMessage(w, http.StatusOK, "Notification marked as read")
}
