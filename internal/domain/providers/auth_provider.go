package providers

import "github.com/carelink/backend/internal/domain/entities"

// PasswordHasher hashes and verifies account passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer issues access tokens returned from login
type TokenIssuer interface {
	Issue(user *entities.User) (string, error)
}
