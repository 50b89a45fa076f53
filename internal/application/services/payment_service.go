package services

import (
	"context"
	"math"
	"strings"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	apperrors "github.com/carelink/backend/pkg/errors"
)

const defaultPaymentMethod = "cash"

// PaymentService records patient payments
type PaymentService struct {
	repo repositories.PaymentRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo repositories.PaymentRepository) *PaymentService {
	return &PaymentService{repo: repo}
}

// Create records a payment. Status defaults to pending and method to cash.
func (s *PaymentService) Create(ctx context.Context, p *entities.Payment) error {
	if p.PatientID <= 0 || p.Amount == 0 || math.IsNaN(p.Amount) {
		return apperrors.NewValidationError("missing required fields")
	}
	if p.Amount < 0 {
		return apperrors.NewValidationError("amount must be positive")
	}
	p.Amount = entities.RoundMoney(p.Amount)

	if p.Status == "" {
		p.Status = entities.PaymentStatusPending
	}
	if !p.Status.Valid() {
		return apperrors.NewValidationErrorf("invalid payment status %q", p.Status)
	}
	if strings.TrimSpace(p.PaymentMethod) == "" {
		p.PaymentMethod = defaultPaymentMethod
	}

	return s.repo.Create(ctx, p)
}

// List returns all payments with patient names
func (s *PaymentService) List(ctx context.Context) ([]*entities.Payment, error) {
	return s.repo.List(ctx)
}

// ListByPatient returns a patient's payments, newest first
func (s *PaymentService) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Payment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}
