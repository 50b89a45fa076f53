package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/backend/internal/domain/entities"
)

func TestBlogDocument(t *testing.T) {
	category := "Health"
	created := time.Unix(1714550400, 0).UTC()
	doc := BlogDocument(&entities.Blog{
		ID: 42, Title: "Hydration", Content: "Drink water", Category: &category,
		Status: entities.BlogStatusPublished, CreatedAt: created,
	})

	assert.Equal(t, "42", doc["id"])
	assert.Equal(t, "Health", doc["category"])
	assert.Equal(t, int64(1714550400), doc["created_at"])
	_, hasExcerpt := doc["excerpt"]
	assert.False(t, hasExcerpt)
}

func TestHitFromDocument(t *testing.T) {
	h := hitFromDocument(map[string]interface{}{
		"id": "7", "title": "Sleep", "excerpt": "Rest well", "category": "Wellness",
	})
	require.NotNil(t, h)
	assert.Equal(t, int64(7), h.ID)
	assert.Equal(t, "Sleep", h.Title)
	assert.Equal(t, "Wellness", h.Category)

	assert.Nil(t, hitFromDocument(map[string]interface{}{"id": 7}))
}
