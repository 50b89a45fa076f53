package entities

import (
	"time"

	apperrors "github.com/carelink/backend/pkg/errors"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending     AppointmentStatus = "pending"
	AppointmentStatusApproved    AppointmentStatus = "approved"
	AppointmentStatusCancelled   AppointmentStatus = "cancelled"
	AppointmentStatusRescheduled AppointmentStatus = "rescheduled"
	AppointmentStatusUnassigned  AppointmentStatus = "unassigned"
)

// Valid reports whether s is a known appointment status
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusApproved, AppointmentStatusCancelled,
		AppointmentStatusRescheduled, AppointmentStatusUnassigned:
		return true
	}
	return false
}

// Appointment represents a patient booking, optionally assigned to a nurse.
// PatientName and NurseName are filled by joined reads and are null when the
// related user is missing.
type Appointment struct {
	ID              int64             `json:"id" db:"id"`
	PatientID       int64             `json:"patient_id" db:"patient_id"`
	NurseID         *int64            `json:"nurse_id" db:"nurse_id"`
	AppointmentDate time.Time         `json:"appointment_date" db:"appointment_date"`
	Status          AppointmentStatus `json:"status" db:"status"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	PatientName     *string           `json:"patient_name,omitempty" db:"patient_name"`
	NurseName       *string           `json:"nurse_name" db:"nurse_name"`
}

// AppointmentPatch carries the fields present in a partial appointment update.
// A null nurse_id unassigns the nurse.
type AppointmentPatch struct {
	Status          Optional[AppointmentStatus] `json:"status"`
	NurseID         Optional[int64]             `json:"nurse_id"`
	AppointmentDate Optional[DateTime]          `json:"appointment_date"`
}

// Changes returns the column values to write
func (p AppointmentPatch) Changes() (map[string]interface{}, error) {
	changes := make(map[string]interface{})
	if p.Status.Set {
		if !p.Status.Value.Valid() {
			return nil, apperrors.NewValidationErrorf("invalid appointment status %q", p.Status.Value)
		}
		changes["status"] = string(p.Status.Value)
	}
	if p.NurseID.Set {
		if p.NurseID.Null {
			changes["nurse_id"] = nil
		} else {
			changes["nurse_id"] = p.NurseID.Value
		}
	}
	if p.AppointmentDate.Set {
		if p.AppointmentDate.Null {
			return nil, apperrors.NewValidationError("appointment_date cannot be null")
		}
		changes["appointment_date"] = p.AppointmentDate.Value.Time
	}
	return changes, nil
}
