package handlers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/carelink/backend/internal/application/services"
	"github.com/carelink/backend/internal/domain/entities"
	"github.com/carelink/backend/internal/domain/providers"
	apperrors "github.com/carelink/backend/pkg/errors"
)

const (
	multipartMemory   = 8 << 20
	multipartOverhead = 1 << 20
	sniffLen          = 512
	sampleAuthorID    = 1
)

// BlogService defines the blog operations used by the handler
type BlogService interface {
	Create(ctx context.Context, in services.BlogInput) (*entities.Blog, error)
	Update(ctx context.Context, id int64, in services.BlogInput) (*entities.Blog, error)
	Sample(ctx context.Context, authorID int64) (*entities.Blog, error)
	Get(ctx context.Context, id int64) (*entities.Blog, error)
	List(ctx context.Context, category string) ([]*entities.Blog, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, query, category string, limit int) ([]*entities.BlogSearchHit, error)
}

// BlogHandler handles blog endpoints, including image uploads
type BlogHandler struct {
	service   BlogService
	images    providers.ImageStore
	maxUpload int64
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(service BlogService, images providers.ImageStore, maxUpload int64) *BlogHandler {
	return &BlogHandler{service: service, images: images, maxUpload: maxUpload}
}

type blogRequest struct {
	Title       string              `json:"title" validate:"required"`
	Content     string              `json:"content" validate:"required"`
	AuthorID    int64               `json:"author_id" validate:"required,gt=0"`
	Excerpt     *string             `json:"excerpt"`
	Category    *string             `json:"category"`
	FullContent *string             `json:"fullContent"`
	Date        *entities.DateTime  `json:"date"`
	Status      entities.BlogStatus `json:"status" validate:"omitempty,oneof=draft published"`
	Image       *string             `json:"image"`
}

func (req blogRequest) input() services.BlogInput {
	in := services.BlogInput{
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		AuthorID:    req.AuthorID,
		Excerpt:     req.Excerpt,
		Category:    req.Category,
		FullContent: req.FullContent,
		Status:      req.Status,
		Image:       req.Image,
	}
	if req.Date != nil {
		d := req.Date.Time.UTC().Truncate(24 * time.Hour)
		in.PublishDate = &d
	}
	return in
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// readBlogRequest decodes a JSON or multipart body. For multipart bodies an
// uploaded image file is stored first and replaces the image field; stored is
// true when that file was written by this request.
func (h *BlogHandler) readBlogRequest(w http.ResponseWriter, r *http.Request) (req blogRequest, stored bool, err error) {
	if !isMultipart(r) {
		err = decodeJSON(r, &req)
		return req, false, err
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	if err = r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, false, apperrors.NewValidationErrorf("request exceeds %d bytes", h.maxUpload)
		}
		return req, false, apperrors.NewValidationError("invalid multipart form")
	}

	req.Title = r.FormValue("title")
	req.Content = r.FormValue("content")
	if raw := strings.TrimSpace(r.FormValue("author_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return req, false, apperrors.NewValidationError("invalid author_id")
		}
		req.AuthorID = id
	}
	req.Excerpt = formString(r, "excerpt")
	req.Category = formString(r, "category")
	req.FullContent = formString(r, "fullContent")
	req.Status = entities.BlogStatus(r.FormValue("status"))
	if raw := strings.TrimSpace(r.FormValue("date")); raw != "" {
		t, err := entities.ParseDateTime(raw)
		if err != nil {
			return req, false, apperrors.NewValidationError("invalid date")
		}
		req.Date = &entities.DateTime{Time: t}
	}

	if err = validateStruct(&req); err != nil {
		return req, false, err
	}

	image, stored, err := h.attachImage(r)
	if err != nil {
		return req, false, err
	}
	req.Image = image
	return req, stored, nil
}

// attachImage stores an uploaded "image" file and returns its public path.
// Without a file, a non-empty "image" form value is used as given. Nil means
// no image was supplied.
func (h *BlogHandler) attachImage(r *http.Request) (*string, bool, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return formString(r, "image"), false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewValidationError("invalid image upload")
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		return nil, false, apperrors.NewValidationErrorf("image exceeds %d bytes", h.maxUpload)
	}

	body, contentType, err := sniffContentType(file)
	if err != nil {
		return nil, false, apperrors.NewValidationError("invalid image upload")
	}

	path, err := h.images.Save(r.Context(), header.Filename, contentType, body)
	if err != nil {
		return nil, false, err
	}
	return &path, true, nil
}

// sniffContentType detects the type from the file's leading bytes rather than
// trusting the client's header
func sniffContentType(file multipart.File) (io.Reader, string, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return io.MultiReader(bytes.NewReader(head), file), contentType, nil
}

// discardImage removes an upload whose blog was never written
func (h *BlogHandler) discardImage(ctx context.Context, publicPath string) {
	if err := h.images.Delete(ctx, publicPath); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("image", publicPath).Msg("failed to remove orphaned upload")
	}
}

func formString(r *http.Request, key string) *string {
	if _, ok := r.MultipartForm.Value[key]; !ok {
		return nil
	}
	v := r.FormValue(key)
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}

// ListBlogs handles GET /api/blogs?category=
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.List(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch blogs")
		return
	}
	respondWithJSON(w, http.StatusOK, blogs)
}

// GetBlog handles GET /api/blogs/{id}
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch blog")
		return
	}
	blog, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to fetch blog")
		return
	}
	respondWithJSON(w, http.StatusOK, blog)
}

// SearchBlogs handles GET /api/blogs/search?q=&category=&limit=
func (h *BlogHandler) SearchBlogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	hits, err := h.service.Search(r.Context(), q.Get("q"), q.Get("category"), limit)
	if err != nil {
		respondWithAppError(w, r, err, "failed to search blogs")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": hits,
		"count":   len(hits),
	})
}

// CreateBlog handles POST /api/blogs (JSON or multipart)
func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	req, stored, err := h.readBlogRequest(w, r)
	if err != nil {
		respondWithAppError(w, r, err, "failed to create blog")
		return
	}

	blog, err := h.service.Create(r.Context(), req.input())
	if err != nil {
		if stored {
			h.discardImage(r.Context(), *req.Image)
		}
		respondWithAppError(w, r, err, "failed to create blog")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"id":      blog.ID,
		"message": "Blog created successfully",
		"image":   blog.Image,
	})
}

// UpdateBlog handles PUT /api/blogs/{id}. The stored image is kept when no
// image is supplied.
func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to update blog")
		return
	}
	req, stored, err := h.readBlogRequest(w, r)
	if err != nil {
		respondWithAppError(w, r, err, "failed to update blog")
		return
	}

	blog, err := h.service.Update(r.Context(), id, req.input())
	if err != nil {
		if stored {
			h.discardImage(r.Context(), *req.Image)
		}
		respondWithAppError(w, r, err, "failed to update blog")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Blog updated successfully",
		"image":   blog.Image,
	})
}

// DeleteBlog handles DELETE /api/blogs/{id}
func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to delete blog")
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err, "failed to delete blog")
		return
	}
	respondWithMessage(w, http.StatusOK, "Blog deleted successfully")
}

// CreateSampleBlog handles POST /api/blogs/sample?author_id=
func (h *BlogHandler) CreateSampleBlog(w http.ResponseWriter, r *http.Request) {
	authorID, err := queryID(r, "author_id")
	if err != nil {
		respondWithAppError(w, r, err, "failed to create sample blog")
		return
	}
	id := int64(sampleAuthorID)
	if authorID != nil {
		id = *authorID
	}

	blog, err := h.service.Sample(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err, "failed to create sample blog")
		return
	}
	respondWithJSON(w, http.StatusCreated, createdResponse{ID: blog.ID, Message: "Sample blog created successfully"})
}
