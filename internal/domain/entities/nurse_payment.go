package entities

import (
	"fmt"
	"math"
	"time"

	apperrors "github.com/carelink/backend/pkg/errors"
)

// NursePaymentStatus is pending until paid; paid is terminal
type NursePaymentStatus string

const (
	NursePaymentStatusPending NursePaymentStatus = "pending"
	NursePaymentStatusPaid    NursePaymentStatus = "paid"
)

// Valid reports whether s is a known nurse payment status
func (s NursePaymentStatus) Valid() bool {
	return s == NursePaymentStatusPending || s == NursePaymentStatusPaid
}

// NursePayment is the nurse's share of an appointment's service fee.
// NurseAmount is fixed when the record is created.
type NursePayment struct {
	ID                   int64              `json:"id" db:"id"`
	NurseID              int64              `json:"nurse_id" db:"nurse_id"`
	AppointmentID        int64              `json:"appointment_id" db:"appointment_id"`
	ServiceAmount        float64            `json:"service_amount" db:"service_amount"`
	CommissionPercentage float64            `json:"commission_percentage" db:"commission_percentage"`
	NurseAmount          float64            `json:"nurse_amount" db:"nurse_amount"`
	PaymentStatus        NursePaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentDate          *time.Time         `json:"payment_date" db:"payment_date"`
	CreatedAt            time.Time          `json:"created_at" db:"created_at"`
	NurseName            *string            `json:"nurse_name,omitempty" db:"nurse_name"`
	AppointmentDate      *time.Time         `json:"appointment_date,omitempty" db:"appointment_date"`
}

// IsPaid reports whether the payout has been made
func (n *NursePayment) IsPaid() bool {
	return n.PaymentStatus == NursePaymentStatusPaid
}

// RoundMoney rounds an amount to cents, half away from zero.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// CalculateNurseAmount returns round(serviceFee * percentage / 100, 2).
func CalculateNurseAmount(serviceFee, percentage float64) (float64, error) {
	if math.IsNaN(serviceFee) || serviceFee < 0 {
		return 0, apperrors.NewValidationError("service fee must be a non-negative amount")
	}
	if math.IsNaN(percentage) || percentage < 0 || percentage > 100 {
		return 0, apperrors.NewValidationError("commission percentage must be between 0 and 100")
	}
	return math.Round(serviceFee*percentage) / 100, nil
}

// PaymentReceivedMessage is the body of the notification sent to a nurse when paid.
func PaymentReceivedMessage(amount float64, appointmentID int64) string {
	return fmt.Sprintf("Your payment of $%.2f for appointment #%d has been processed.", amount, appointmentID)
}

// NursePaymentFilter narrows nurse payment listings
type NursePaymentFilter struct {
	Status  NursePaymentStatus
	NurseID *int64
}
