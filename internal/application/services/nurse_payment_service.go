package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
	"github.com/carelink/backend/internal/domain/repositories"
	apperrors "github.com/carelink/backend/pkg/errors"
)

// NursePaymentService computes nurse commissions and pays them out
type NursePaymentService struct {
	repo              repositories.NursePaymentRepository
	eventBus          providers.EventBus
	defaultPercentage float64
}

// NewNursePaymentService creates a new nurse payment service
func NewNursePaymentService(
	repo repositories.NursePaymentRepository,
	eventBus providers.EventBus,
	defaultPercentage float64,
) *NursePaymentService {
	return &NursePaymentService{
		repo:              repo,
		eventBus:          eventBus,
		defaultPercentage: defaultPercentage,
	}
}

// Calculate derives the nurse's share of an appointment's service fee and
// stores it as a pending payout. The stored amounts are never recomputed.
func (s *NursePaymentService) Calculate(ctx context.Context, appointmentID int64, percentage *float64) (*entities.NursePayment, error) {
	if appointmentID <= 0 {
		return nil, apperrors.NewValidationError("appointment_id is required")
	}

	pct := s.defaultPercentage
	if percentage != nil {
		pct = *percentage
	}
	// commission_percentage is NUMERIC(5,2); compute from the value that is stored
	pct = entities.RoundMoney(pct)

	fee, err := s.repo.ServiceFeeForAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if fee.NurseID == nil {
		return nil, apperrors.NewValidationError("appointment has no assigned nurse")
	}
	if fee.Amount == nil {
		return nil, apperrors.NewNotFoundError("no payment recorded for appointment")
	}

	serviceAmount := entities.RoundMoney(*fee.Amount)
	nurseAmount, err := entities.CalculateNurseAmount(serviceAmount, pct)
	if err != nil {
		return nil, err
	}

	np := &entities.NursePayment{
		NurseID:              *fee.NurseID,
		AppointmentID:        appointmentID,
		ServiceAmount:        serviceAmount,
		CommissionPercentage: pct,
		NurseAmount:          nurseAmount,
		PaymentStatus:        entities.NursePaymentStatusPending,
	}
	if err := s.repo.Create(ctx, np); err != nil {
		return nil, err
	}
	return np, nil
}

// Pay moves a pending payout to paid. The nurse's notification is stored in
// the same transaction and published once it has committed.
func (s *NursePaymentService) Pay(ctx context.Context, id int64) (*entities.NursePayment, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("nurse_payment_id is required")
	}

	np, notification, err := s.repo.MarkPaid(ctx, id)
	if err != nil {
		return nil, err
	}

	publishNotification(ctx, s.eventBus, notification)
	return np, nil
}

// Get returns one nurse payment
func (s *NursePaymentService) Get(ctx context.Context, id int64) (*entities.NursePayment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns nurse payments. An empty status or "all" disables the status filter.
func (s *NursePaymentService) List(ctx context.Context, status string, nurseID *int64) ([]*entities.NursePayment, error) {
	filter, err := nursePaymentFilter(status)
	if err != nil {
		return nil, err
	}
	filter.NurseID = nurseID
	return s.repo.List(ctx, filter)
}

// ListByNurse returns one nurse's payouts
func (s *NursePaymentService) ListByNurse(ctx context.Context, nurseID int64, status string) ([]*entities.NursePayment, error) {
	return s.List(ctx, status, &nurseID)
}

func nursePaymentFilter(status string) (entities.NursePaymentFilter, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" || status == "all" {
		return entities.NursePaymentFilter{}, nil
	}
	st := entities.NursePaymentStatus(status)
	if !st.Valid() {
		return entities.NursePaymentFilter{}, apperrors.NewValidationErrorf("invalid payment status %q", status)
	}
	return entities.NursePaymentFilter{Status: st}, nil
}

// publishNotification is best effort; the notification row is already committed
func publishNotification(ctx context.Context, bus providers.EventBus, n *entities.Notification) {
	if bus == nil || n == nil {
		return
	}
	event := entities.NewNotificationEvent(n)
	if err := bus.Publish(ctx, providers.GetUserChannel(n.UserID), event); err != nil {
		log.Ctx(ctx).Warn().Err(err).
			Int64("user_id", n.UserID).
			Int64("notification_id", n.ID).
			Msg("failed to publish notification event")
	}
}
