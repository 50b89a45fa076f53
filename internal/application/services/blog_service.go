package services

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
	"github.com/carelink/backend/internal/domain/repositories"
	apperrors "github.com/carelink/backend/pkg/errors"
)

const (
	defaultBlogSearchLimit = 20
	maxBlogSearchLimit     = 100
)

// BlogService manages blog posts and keeps the search index in step
type BlogService struct {
	repo   repositories.BlogRepository
	search providers.BlogSearchProvider
	now    func() time.Time
}

// NewBlogService creates a new blog service. search may be nil.
func NewBlogService(repo repositories.BlogRepository, search providers.BlogSearchProvider) *BlogService {
	return &BlogService{repo: repo, search: search, now: time.Now}
}

// BlogInput carries the writable blog fields. A nil Image on update keeps the stored image.
type BlogInput struct {
	Title       string
	Content     string
	AuthorID    int64
	Excerpt     *string
	Category    *string
	FullContent *string
	PublishDate *time.Time
	Image       *string
	Status      entities.BlogStatus
}

func (in BlogInput) blog() (*entities.Blog, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" || in.AuthorID <= 0 {
		return nil, apperrors.NewValidationError("missing required fields")
	}
	if in.Status == "" {
		in.Status = entities.BlogStatusDraft
	}
	if !in.Status.Valid() {
		return nil, apperrors.NewValidationErrorf("invalid blog status %q", in.Status)
	}
	return &entities.Blog{
		Title:       in.Title,
		Content:     in.Content,
		Excerpt:     in.Excerpt,
		Category:    in.Category,
		FullContent: in.FullContent,
		PublishDate: in.PublishDate,
		Image:       in.Image,
		AuthorID:    in.AuthorID,
		Status:      in.Status,
	}, nil
}

// Create stores a blog. The author must exist.
func (s *BlogService) Create(ctx context.Context, in BlogInput) (*entities.Blog, error) {
	blog, err := in.blog()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}
	s.index(ctx, blog)
	return blog, nil
}

// Update rewrites a blog. The author must exist.
func (s *BlogService) Update(ctx context.Context, id int64, in BlogInput) (*entities.Blog, error) {
	blog, err := in.blog()
	if err != nil {
		return nil, err
	}
	blog.ID = id
	if err := s.repo.Update(ctx, blog, in.Image == nil); err != nil {
		return nil, err
	}
	s.index(ctx, blog)
	return blog, nil
}

// Sample stores the fixed demonstration post for authorID
func (s *BlogService) Sample(ctx context.Context, authorID int64) (*entities.Blog, error) {
	blog := entities.SampleBlog(authorID, s.now())
	if err := s.repo.Create(ctx, blog); err != nil {
		return nil, err
	}
	s.index(ctx, blog)
	return blog, nil
}

// Get returns one blog
func (s *BlogService) Get(ctx context.Context, id int64) (*entities.Blog, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns blogs newest first, optionally restricted to a category
func (s *BlogService) List(ctx context.Context, category string) ([]*entities.Blog, error) {
	return s.repo.List(ctx, strings.TrimSpace(category))
}

// Delete removes a blog and its search document
func (s *BlogService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.search != nil {
		if err := s.search.Delete(ctx, id); err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("blog_id", id).Msg("failed to remove blog from search index")
		}
	}
	return nil
}

// Search runs a full-text query over indexed blogs
func (s *BlogService) Search(ctx context.Context, query, category string, limit int) ([]*entities.BlogSearchHit, error) {
	if s.search == nil {
		return nil, apperrors.NewUnavailableError("blog search is not configured")
	}
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewValidationError("q is required")
	}
	if limit <= 0 {
		limit = defaultBlogSearchLimit
	}
	if limit > maxBlogSearchLimit {
		limit = maxBlogSearchLimit
	}

	hits, err := s.search.Search(ctx, query, strings.TrimSpace(category), limit)
	if err != nil {
		return nil, apperrors.NewExternalError("blog search failed", err)
	}
	return hits, nil
}

// index is best effort; the database is the source of truth
func (s *BlogService) index(ctx context.Context, blog *entities.Blog) {
	if s.search == nil {
		return
	}
	if err := s.search.Index(ctx, blog); err != nil {
		log.Ctx(ctx).Warn().Err(err).Int64("blog_id", blog.ID).Msg("failed to index blog")
	}
}
