package repositories

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create stores a new user and sets its ID and CreatedAt
	Create(ctx context.Context, user *entities.User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*entities.User, error)

	// GetByEmail retrieves a user by normalized email, including the password hash
	GetByEmail(ctx context.Context, email string) (*entities.User, error)

	// List retrieves all users, newest first
	List(ctx context.Context) ([]*entities.User, error)

	// Update writes only the given columns
	Update(ctx context.Context, id int64, changes map[string]interface{}) error

	// Delete removes a user; dependent rows follow the schema's cascade rules
	Delete(ctx context.Context, id int64) error
}
