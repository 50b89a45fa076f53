package entities

import "time"

// PaymentStatus represents whether a patient payment has settled
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPending PaymentStatus = "pending"
)

// Valid reports whether s is a known payment status
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPaid || s == PaymentStatusPending
}

// Payment represents money received from a patient, optionally for an appointment
type Payment struct {
	ID            int64         `json:"id" db:"id"`
	PatientID     int64         `json:"patient_id" db:"patient_id"`
	AppointmentID *int64        `json:"appointment_id" db:"appointment_id"`
	Amount        float64       `json:"amount" db:"amount"`
	Status        PaymentStatus `json:"status" db:"status"`
	PaymentMethod string        `json:"payment_method" db:"payment_method"`
	PaymentType   *string       `json:"payment_type" db:"payment_type"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	PatientName   *string       `json:"patient_name,omitempty" db:"patient_name"`
}
