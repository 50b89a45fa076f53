package repositories

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// BlogRepository defines the interface for blog data operations
type BlogRepository interface {
	// Create checks the author exists and inserts the blog in one transaction
	Create(ctx context.Context, blog *entities.Blog) error

	// GetByID retrieves a blog with its author's name
	GetByID(ctx context.Context, id int64) (*entities.Blog, error)

	// List retrieves blogs newest first, restricted to category when it is non-empty
	List(ctx context.Context, category string) ([]*entities.Blog, error)

	// Update checks the author exists and rewrites the blog. The image column
	// is left alone when keepImage is set.
	Update(ctx context.Context, blog *entities.Blog, keepImage bool) error

	// Delete removes a blog
	Delete(ctx context.Context, id int64) error
}
