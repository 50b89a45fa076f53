package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/carelink/backend/internal/domain/entities"
)

// ContactService defines the contact inbox operations used by the handler
type ContactService interface {
	Submit(ctx context.Context, msg *entities.ContactMessage) error
	List(ctx context.Context) ([]*entities.ContactMessage, error)
	Update(ctx context.Context, id int64, patch entities.ContactMessagePatch) error
}

// ContactHandler handles the public contact form and the admin inbox
type ContactHandler struct {
	service ContactService
}

// NewContactHandler creates a new contact handler
func NewContactHandler(service ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=255"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Service string `json:"service" validate:"max=255"`
	Message string `json:"message" validate:"required,max=5000"`
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// SubmitContact handles POST /api/contact
func (h *ContactHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "failed to send message")
		return
	}

	msg := &entities.ContactMessage{
		Name:          strings.TrimSpace(req.Name),
		Email:         req.Email,
		Phone:         optionalString(req.Phone),
		ServiceNeeded: optionalString(req.Service),
		Message:       req.Message,
	}
	if err := h.service.Submit(r.Context(), msg); err != nil {
		respondWithAppError(w, r, err, "failed to send message")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"id":                msg.ID,
		"message":           "Your message has been sent successfully! We'll contact you soon.",
		"auto_reply_status": msg.AutoReplyStatus,
	})
}

// ListContactMessages handles GET /api/contact-messages
func (h *ContactHandler) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch contact messages")
		return
	}
	respondWithJSON(w, http.StatusOK, msgs)
}

// UpdateContactMessage handles PATCH /api/contact-messages/{id}
func (h *ContactHandler) UpdateContactMessage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to update message status")
		return
	}
	var patch entities.ContactMessagePatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err, "failed to update message status")
		return
	}
	if err := h.service.Update(r.Context(), id, patch); err != nil {
		respondWithAppError(w, r, err, "failed to update message status")
		return
	}
	respondWithMessage(w, http.StatusOK, "Message status updated successfully")
}
