package entities

import (
	"time"

	apperrors "github.com/carelink/backend/pkg/errors"
)

// ContactStatus tracks how far a contact message has been handled
type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

// Valid reports whether s is a known contact status
func (s ContactStatus) Valid() bool {
	switch s {
	case ContactStatusNew, ContactStatusRead, ContactStatusReplied:
		return true
	}
	return false
}

// AutoReplyStatus records the outcome of the acknowledgement email
type AutoReplyStatus string

const (
	AutoReplyPending AutoReplyStatus = "pending"
	AutoReplySent    AutoReplyStatus = "sent"
	AutoReplyFailed  AutoReplyStatus = "failed"
	AutoReplySkipped AutoReplyStatus = "skipped"
)

// ContactMessage is an inquiry submitted through the public contact form
type ContactMessage struct {
	ID              int64           `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Email           string          `json:"email" db:"email"`
	Phone           *string         `json:"phone" db:"phone"`
	ServiceNeeded   *string         `json:"service_needed" db:"service_needed"`
	Message         string          `json:"message" db:"message"`
	Status          ContactStatus   `json:"status" db:"status"`
	AutoReplyStatus AutoReplyStatus `json:"auto_reply_status" db:"auto_reply_status"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

// ContactMessagePatch carries the fields present in a contact message update
type ContactMessagePatch struct {
	Status Optional[ContactStatus] `json:"status"`
}

// Changes returns the column values to write
func (p ContactMessagePatch) Changes() (map[string]interface{}, error) {
	changes := make(map[string]interface{})
	if p.Status.Set {
		if !p.Status.Value.Valid() {
			return nil, apperrors.NewValidationErrorf("invalid contact status %q", p.Status.Value)
		}
		changes["status"] = string(p.Status.Value)
	}
	return changes, nil
}
