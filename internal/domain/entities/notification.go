package entities

import "time"

// NotificationType represents the notification purpose
type NotificationType string

const (
	NotificationTypePayment     NotificationType = "payment"
	NotificationTypeAppointment NotificationType = "appointment"
	NotificationTypeSystem      NotificationType = "system"
)

// Valid reports whether t is a known notification type
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypePayment, NotificationTypeAppointment, NotificationTypeSystem:
		return true
	}
	return false
}

// RecentNotificationsLimit caps the per-user notification listing
const RecentNotificationsLimit = 10

// Notification is an in-app message addressed to one user
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	Type      NotificationType `json:"type" db:"type"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// PaymentReceivedNotification builds the notification sent to a nurse on payout.
func PaymentReceivedNotification(np *NursePayment) *Notification {
	return &Notification{
		UserID:  np.NurseID,
		Title:   "Payment Received",
		Message: PaymentReceivedMessage(np.NurseAmount, np.AppointmentID),
		Type:    NotificationTypePayment,
	}
}
