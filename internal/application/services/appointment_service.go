package services

import (
	"context"
	"time"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/repositories"
	apperrors "github.com/carelink/backend/pkg/errors"
)

// AppointmentService handles appointment booking and updates
type AppointmentService struct {
	repo repositories.AppointmentRepository
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(repo repositories.AppointmentRepository) *AppointmentService {
	return &AppointmentService{repo: repo}
}

// NewAppointmentInput carries the fields for a booking
type NewAppointmentInput struct {
	PatientID       int64
	NurseID         *int64
	AppointmentDate time.Time
	Status          entities.AppointmentStatus
}

// Create books an appointment. Status defaults to pending.
func (s *AppointmentService) Create(ctx context.Context, in NewAppointmentInput) (*entities.Appointment, error) {
	if in.PatientID <= 0 || in.AppointmentDate.IsZero() {
		return nil, apperrors.NewValidationError("missing required fields")
	}
	if in.Status == "" {
		in.Status = entities.AppointmentStatusPending
	}
	if !in.Status.Valid() {
		return nil, apperrors.NewValidationErrorf("invalid appointment status %q", in.Status)
	}

	appt := &entities.Appointment{
		PatientID:       in.PatientID,
		NurseID:         in.NurseID,
		AppointmentDate: in.AppointmentDate.UTC(),
		Status:          in.Status,
	}
	if err := s.repo.Create(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Get returns one appointment with patient and nurse names
func (s *AppointmentService) Get(ctx context.Context, id int64) (*entities.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns all appointments
func (s *AppointmentService) List(ctx context.Context) ([]*entities.Appointment, error) {
	return s.repo.List(ctx)
}

// ListByPatient returns a patient's appointments
func (s *AppointmentService) ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

// Update applies the fields present in patch. An empty patch is rejected
// before reaching the database.
func (s *AppointmentService) Update(ctx context.Context, id int64, patch entities.AppointmentPatch) error {
	changes, err := patch.Changes()
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		return apperrors.NewValidationError("no updates provided")
	}
	return s.repo.Update(ctx, id, changes)
}
