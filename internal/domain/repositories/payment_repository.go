package repositories

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// PaymentRepository defines the interface for patient payment data operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entities.Payment) error
	List(ctx context.Context) ([]*entities.Payment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*entities.Payment, error)
}
