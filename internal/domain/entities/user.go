package entities

import (
	"strings"
	"time"

	apperrors "github.com/carelink/backend/pkg/errors"
)

// UserRole represents the account type
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleNurse   UserRole = "nurse"
	RolePatient UserRole = "patient"
)

// Valid reports whether r is a known role
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleNurse, RolePatient:
		return true
	}
	return false
}

// UserStatus represents whether an account may be used
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Valid reports whether s is a known status
func (s UserStatus) Valid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// User represents an admin, nurse or patient account.
// PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         UserRole   `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// UserPatch carries the fields present in a partial user update
type UserPatch struct {
	Name   Optional[string]     `json:"name"`
	Email  Optional[string]     `json:"email"`
	Role   Optional[UserRole]   `json:"role"`
	Status Optional[UserStatus] `json:"status"`
}

// Changes returns the column values to write. Present fields are applied even
// when empty; absent ones are left out.
func (p UserPatch) Changes() (map[string]interface{}, error) {
	changes := make(map[string]interface{})
	if p.Name.Set {
		if p.Name.Null {
			return nil, apperrors.NewValidationError("name cannot be null")
		}
		changes["name"] = p.Name.Value
	}
	if p.Email.Set {
		if p.Email.Null || strings.TrimSpace(p.Email.Value) == "" {
			return nil, apperrors.NewValidationError("email cannot be empty")
		}
		changes["email"] = NormalizeEmail(p.Email.Value)
	}
	if p.Role.Set {
		if !p.Role.Value.Valid() {
			return nil, apperrors.NewValidationErrorf("invalid role %q", p.Role.Value)
		}
		changes["role"] = string(p.Role.Value)
	}
	if p.Status.Set {
		if !p.Status.Value.Valid() {
			return nil, apperrors.NewValidationErrorf("invalid status %q", p.Status.Value)
		}
		changes["status"] = string(p.Status.Value)
	}
	return changes, nil
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
