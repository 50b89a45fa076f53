package handlers

import (
	"context"
	"net/http"

	"github.com/carelink/backend/internal/domain/entities"
)

// PaymentService defines the patient payment operations used by the handler
type PaymentService interface {
	Create(ctx context.Context, p *entities.Payment) error
	List(ctx context.Context) ([]*entities.Payment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*entities.Payment, error)
}

// PaymentHandler handles patient payment endpoints
type PaymentHandler struct {
	service PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

type createPaymentRequest struct {
	PatientID     int64                  `json:"patient_id" validate:"required,gt=0"`
	Amount        float64                `json:"amount" validate:"required,gt=0"`
	Status        entities.PaymentStatus `json:"status" validate:"omitempty,oneof=paid pending"`
	PaymentMethod string                 `json:"payment_method"`
	PaymentType   *string                `json:"payment_type"`
	AppointmentID *int64                 `json:"appointment_id" validate:"omitempty,gt=0"`
}

// ListPayments handles GET /api/payments
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch payments")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}

// ListPatientPayments handles GET /api/payments/patient/{patient_id}
func (h *PaymentHandler) ListPatientPayments(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patient_id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch patient payments")
		return
	}
	payments, err := h.service.ListByPatient(r.Context(), patientID)
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch patient payments")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}

// CreatePayment handles POST /api/payments
func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "failed to record payment")
		return
	}

	p := &entities.Payment{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		Amount:        req.Amount,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		PaymentType:   req.PaymentType,
	}
	if err := h.service.Create(r.Context(), p); err != nil {
		respondWithAppError(w, r, err, "failed to record payment")
		return
	}
	respondWithJSON(w, http.StatusCreated, createdResponse{ID: p.ID, Message: "Payment recorded successfully"})
}
