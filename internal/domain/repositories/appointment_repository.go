package repositories

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// AppointmentRepository defines the interface for appointment data operations
type AppointmentRepository interface {
	// Create creates a new appointment
	Create(ctx context.Context, appointment *entities.Appointment) error

	// GetByID retrieves an appointment with patient and nurse names
	GetByID(ctx context.Context, id int64) (*entities.Appointment, error)

	// List retrieves all appointments with patient and nurse names
	List(ctx context.Context) ([]*entities.Appointment, error)

	// ListByPatient retrieves a patient's appointments with nurse names
	ListByPatient(ctx context.Context, patientID int64) ([]*entities.Appointment, error)

	// Update writes only the given columns
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
}
