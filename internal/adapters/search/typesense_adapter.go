package search

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
	tsclient "github.com/carelink/backend/internal/infrastructure/clients/typesense"
)

const blogsCollection = "blogs"

// TypesenseAdapter implements blog search using Typesense
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ providers.BlogSearchProvider = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the blogs collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	if _, err := a.client.Client().Collection(blogsCollection).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: blogsCollection,
		Fields: []api.Field{
			{Name: "title", Type: "string"},
			{Name: "content", Type: "string"},
			{Name: "excerpt", Type: "string", Optional: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "image", Type: "string", Optional: pointer.True()},
			{Name: "status", Type: "string", Facet: pointer.True()},
			{Name: "created_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	if _, err := a.client.Client().Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// BlogDocument converts a blog into its search document
func BlogDocument(b *entities.Blog) map[string]interface{} {
	doc := map[string]interface{}{
		"id":         strconv.FormatInt(b.ID, 10),
		"title":      b.Title,
		"content":    b.Content,
		"status":     string(b.Status),
		"created_at": b.CreatedAt.Unix(),
	}
	if b.Excerpt != nil {
		doc["excerpt"] = *b.Excerpt
	}
	if b.Category != nil {
		doc["category"] = *b.Category
	}
	if b.Image != nil {
		doc["image"] = *b.Image
	}
	return doc
}

// Index upserts a blog document
func (a *TypesenseAdapter) Index(ctx context.Context, blog *entities.Blog) error {
	if _, err := a.client.Client().Collection(blogsCollection).Documents().Upsert(ctx, BlogDocument(blog)); err != nil {
		return fmt.Errorf("failed to index blog %d: %w", blog.ID, err)
	}
	return nil
}

// Delete removes a blog from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id int64) error {
	if _, err := a.client.Client().Collection(blogsCollection).Document(strconv.FormatInt(id, 10)).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete blog %d from index: %w", id, err)
	}
	return nil
}

// Search runs a full-text query over title, excerpt and content
func (a *TypesenseAdapter) Search(ctx context.Context, query, category string, limit int) ([]*entities.BlogSearchHit, error) {
	if strings.TrimSpace(query) == "" {
		query = "*"
	}
	if limit <= 0 {
		limit = 20
	}

	params := &api.SearchCollectionParams{
		Q:       pointer.String(query),
		QueryBy: pointer.String("title,excerpt,content"),
		PerPage: pointer.Int(limit),
	}
	if category != "" {
		params.FilterBy = pointer.String(fmt.Sprintf("category:=`%s`", strings.ReplaceAll(category, "`", "")))
	}

	result, err := a.client.Client().Collection(blogsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search blogs: %w", err)
	}

	hits := make([]*entities.BlogSearchHit, 0)
	if result.Hits == nil {
		return hits, nil
	}
	for _, hit := range *result.Hits {
		if hit.Document == nil {
			continue
		}
		h := hitFromDocument(*hit.Document)
		if h == nil {
			continue
		}
		if hit.TextMatch != nil {
			h.Score = float64(*hit.TextMatch)
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// hitFromDocument reads a search document. Typesense returns untyped maps.
func hitFromDocument(doc map[string]interface{}) *entities.BlogSearchHit {
	idStr, _ := doc["id"].(string)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil
	}
	h := &entities.BlogSearchHit{ID: id}
	h.Title, _ = doc["title"].(string)
	h.Excerpt, _ = doc["excerpt"].(string)
	h.Category, _ = doc["category"].(string)
	h.Image, _ = doc["image"].(string)
	return h
}
