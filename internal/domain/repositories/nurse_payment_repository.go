package repositories

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// ServiceFee is the appointment data the commission calculator needs
type ServiceFee struct {
	AppointmentID int64
	NurseID       *int64
	Amount        *float64
}

// NursePaymentRepository defines the interface for nurse payout data operations
type NursePaymentRepository interface {
	// ServiceFeeForAppointment loads the appointment's nurse and the amount of
	// its most recent payment. Amount is nil when no payment is linked.
	ServiceFeeForAppointment(ctx context.Context, appointmentID int64) (*ServiceFee, error)

	// Create stores a new nurse payment; a second record for the same appointment is a conflict
	Create(ctx context.Context, payment *entities.NursePayment) error

	// GetByID retrieves a nurse payment with the nurse's name
	GetByID(ctx context.Context, id int64) (*entities.NursePayment, error)

	// List retrieves nurse payments matching the filter, newest first
	List(ctx context.Context, filter entities.NursePaymentFilter) ([]*entities.NursePayment, error)

	// MarkPaid moves a pending payment to paid and stores the nurse's
	// notification in the same transaction. It returns the updated payment
	// and the stored notification.
	MarkPaid(ctx context.Context, id int64) (*entities.NursePayment, *entities.Notification, error)
}
