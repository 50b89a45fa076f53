package handlers

import (
	"context"
	"net/http"

	"github.com/carelink/backend/internal/application/services"
	"github.com/carelink/backend/internal/domain/entities"
)

// AppointmentService defines the appointment operations used by the handler
type AppointmentService interface {
	Create(ctx context.Context, in services.NewAppointmentInput) (*entities.Appointment, error)
	Get(ctx context.Context, id int64) (*entities.Appointment, error)
	List(ctx context.Context) ([]*entities.Appointment, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error)
	Update(ctx context.Context, id int64, patch entities.AppointmentPatch) error
}

// AppointmentHandler handles appointment-related HTTP requests
type AppointmentHandler struct {
	service AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

type createAppointmentRequest struct {
	PatientID       int64                      `json:"patient_id" validate:"required,gt=0"`
	NurseID         *int64                     `json:"nurse_id" validate:"omitempty,gt=0"`
	AppointmentDate entities.DateTime          `json:"appointment_date" validate:"required"`
	Status          entities.AppointmentStatus `json:"status" validate:"omitempty,oneof=pending approved cancelled rescheduled unassigned"`
}

// ListAppointments handles GET /api/appointments
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appts, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch appointments")
		return
	}
	respondWithJSON(w, http.StatusOK, appts)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch appointment")
		return
	}
	appt, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch appointment")
		return
	}
	respondWithJSON(w, http.StatusOK, appt)
}

// ListPatientAppointments handles GET /api/appointments/patient/{patient_id}
func (h *AppointmentHandler) ListPatientAppointments(w http.ResponseWriter, r *http.Request) {
	patientID, err := pathID(r, "patient_id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch patient appointments")
		return
	}
	appts, err := h.service.ListByPatient(r.Context(), patientID)
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch patient appointments")
		return
	}
	respondWithJSON(w, http.StatusOK, appts)
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req createAppointmentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err, "failed to create appointment")
		return
	}

	appt, err := h.service.Create(r.Context(), services.NewAppointmentInput{
		PatientID:       req.PatientID,
		NurseID:         req.NurseID,
		AppointmentDate: req.AppointmentDate.Time,
		Status:          req.Status,
	})
	if err != nil {
		respondWithAppError(w, r, err, "failed to create appointment")
		return
	}
	respondWithJSON(w, http.StatusCreated, createdResponse{ID: appt.ID, Message: "Appointment created successfully"})
}

// UpdateAppointment handles PATCH /api/appointments/{id}. Only fields present
// in the body are written.
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to update appointment")
		return
	}
	var patch entities.AppointmentPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondWithAppError(w, r, err, "failed to update appointment")
		return
	}
	if err := h.service.Update(r.Context(), id, patch); err != nil {
		respondWithAppError(w, r, err, "failed to update appointment")
		return
	}
	respondWithMessage(w, http.StatusOK, "Appointment updated successfully")
}
