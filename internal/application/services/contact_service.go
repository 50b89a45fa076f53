package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
	"github.com/carelink/backend/internal/domain/repositories"
	"github.com/carelink/backend/internal/infrastructure/observability"
	apperrors "github.com/carelink/backend/pkg/errors"
)

// ContactService stores contact form submissions and acknowledges them by email
type ContactService struct {
	repo    repositories.ContactMessageRepository
	mailer  providers.Mailer
	metrics *observability.Metrics
}

// NewContactService creates a new contact service. metrics may be nil.
func NewContactService(repo repositories.ContactMessageRepository, mailer providers.Mailer, metrics *observability.Metrics) *ContactService {
	return &ContactService{repo: repo, mailer: mailer, metrics: metrics}
}

// Submit stores the message and sends the auto-reply. Mail failures never fail
// the submission; the outcome is recorded on the message instead.
func (s *ContactService) Submit(ctx context.Context, msg *entities.ContactMessage) error {
	if strings.TrimSpace(msg.Name) == "" || strings.TrimSpace(msg.Email) == "" || strings.TrimSpace(msg.Message) == "" {
		return apperrors.NewValidationError("name, email and message are required")
	}
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Status = entities.ContactStatusNew
	msg.AutoReplyStatus = entities.AutoReplyPending

	if err := s.repo.Create(ctx, msg); err != nil {
		return err
	}

	msg.AutoReplyStatus = s.sendAutoReply(ctx, msg)
	s.metrics.RecordMail(ctx, string(msg.AutoReplyStatus))

	if err := s.repo.SetAutoReplyStatus(ctx, msg.ID, msg.AutoReplyStatus); err != nil {
		log.Ctx(ctx).Error().Err(err).Int64("contact_message_id", msg.ID).Msg("failed to record auto-reply status")
	}
	return nil
}

func (s *ContactService) sendAutoReply(ctx context.Context, msg *entities.ContactMessage) entities.AutoReplyStatus {
	if s.mailer == nil || !s.mailer.Enabled() {
		return entities.AutoReplySkipped
	}

	data := AutoReplyData{Name: msg.Name, Message: msg.Message}
	if msg.ServiceNeeded != nil {
		data.Service = *msg.ServiceNeeded
	}
	body, err := RenderAutoReply(data)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to render auto-reply")
		return entities.AutoReplyFailed
	}

	if err := s.mailer.Send(ctx, msg.Email, AutoReplySubject, body); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("contact_message_id", msg.ID).Msg("auto-reply not delivered")
		return entities.AutoReplyFailed
	}
	return entities.AutoReplySent
}

// List returns all contact messages, newest first
func (s *ContactService) List(ctx context.Context) ([]*entities.ContactMessage, error) {
	return s.repo.List(ctx)
}

// Update applies the fields present in patch
func (s *ContactService) Update(ctx context.Context, id int64, patch entities.ContactMessagePatch) error {
	changes, err := patch.Changes()
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, id, changes)
}
