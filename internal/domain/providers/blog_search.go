package providers

import (
	"context"

	"github.com/carelink/backend/internal/domain/entities"
)

// BlogSearchProvider indexes blogs for full-text search
type BlogSearchProvider interface {
	Index(ctx context.Context, blog *entities.Blog) error
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query, category string, limit int) ([]*entities.BlogSearchHit, error)
}
