package handlers

import (
	"context"
	"net/http"

	"github.com/carelink/backend/internal/domain/entities"
)

// NursePaymentService defines the nurse payout operations used by the handler
type NursePaymentService interface {
	Calculate(ctx context.Context, appointmentID int64, percentage *float64) (*entities.NursePayment, error)
	Pay(ctx context.Context, id int64) (*entities.NursePayment, error)
	Get(ctx context.Context, id int64) (*entities.NursePayment, error)
	List(ctx context.Context, status string, nurseID *int64) ([]*entities.NursePayment, error)
	ListByNurse(ctx context.Context, nurseID int64, status string) ([]*entities.NursePayment, error)
}

// NursePaymentHandler handles nurse commission and payout endpoints
type NursePaymentHandler struct {
	service NursePaymentService
}

// NewNursePaymentHandler creates a new nurse payment handler
func NewNursePaymentHandler(service NursePaymentService) *NursePaymentHandler {
	return &NursePaymentHandler{service: service}
}

type calculateRequest struct {
	AppointmentID        int64    `json:"appointment_id" validate:"required,gt=0"`
	CommissionPercentage *float64 `json:"commission_percentage" validate:"omitempty,gte=0,lte=100"`
}

type payRequest struct {
	NursePaymentID int64 `json:"nurse_payment_id" validate:"required,gt=0"`
}

type calculateResponse struct {
	ID                   int64   `json:"id"`
	NurseAmount          float64 `json:"nurse_amount"`
	ServiceAmount        float64 `json:"service_amount"`
	CommissionPercentage float64 `json:"commission_percentage"`
	Message              string  `json:"message"`
}

// Calculate handles POST /api/nurse-payments/calculate
func (h *NursePaymentHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "failed to calculate nurse payment")
		return
	}

	np, err := h.service.Calculate(r.Context(), req.AppointmentID, req.CommissionPercentage)
	if err != nil {
		respondWithAppError(w, r, err, "failed to calculate nurse payment")
		return
	}
	respondWithJSON(w, http.StatusCreated, calculateResponse{
		ID:                   np.ID,
		NurseAmount:          np.NurseAmount,
		ServiceAmount:        np.ServiceAmount,
		CommissionPercentage: np.CommissionPercentage,
		Message:              "Nurse payment calculated successfully",
	})
}

// Pay handles POST /api/nurse-payments/pay
func (h *NursePaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "failed to pay nurse")
		return
	}

	np, err := h.service.Pay(r.Context(), req.NursePaymentID)
	if err != nil {
		respondWithAppError(w, r, err, "failed to pay nurse")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Nurse payment completed successfully",
		"payment_id":   np.ID,
		"payment_date": np.PaymentDate,
	})
}

// ListNursePayments handles GET /api/nurse-payments?status=&nurse_id=
func (h *NursePaymentHandler) ListNursePayments(w http.ResponseWriter, r *http.Request) {
	nurseID, err := queryID(r, "nurse_id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch nurse payments")
		return
	}
	payments, err := h.service.List(r.Context(), r.URL.Query().Get("status"), nurseID)
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch nurse payments")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}

// GetNursePayment handles GET /api/nurse-payments/{id}
func (h *NursePaymentHandler) GetNursePayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch nurse payment")
		return
	}
	np, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch nurse payment")
		return
	}
	respondWithJSON(w, http.StatusOK, np)
}

// ListByNurse handles GET /api/nurse-payments/nurse/{nurse_id}?status=
func (h *NursePaymentHandler) ListByNurse(w http.ResponseWriter, r *http.Request) {
	nurseID, err := pathID(r, "nurse_id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch nurse payments")
		return
	}
	payments, err := h.service.ListByNurse(r.Context(), nurseID, r.URL.Query().Get("status"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch nurse payments")
		return
	}
	respondWithJSON(w, http.StatusOK, payments)
}
