package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelink/backend/internal/api/handlers"
	apperrors "github.com/carelink/backend/pkg/errors"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartBlog(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "cover.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestBlogHandler_CreateJSON(t *testing.T) {
	service := &stubBlogService{}
	handler := handlers.NewBlogHandler(service, &stubImageStore{}, 1<<20)

	body := `{"title":" Hydration ","content":"Drink water","author_id":3,"date":"2026-02-10","status":"published"}`
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.CreateBlog(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, service.created, 1)
	in := service.created[0]
	assert.Equal(t, "Hydration", in.Title)
	require.NotNil(t, in.PublishDate)
	assert.Equal(t, "2026-02-10", in.PublishDate.Format("2006-01-02"))
	assert.Nil(t, in.Image)
}

func TestBlogHandler_CreateMultipartStoresImage(t *testing.T) {
	service := &stubBlogService{}
	images := &stubImageStore{}
	handler := handlers.NewBlogHandler(service, images, 1<<20)

	body, contentType := multipartBlog(t, map[string]string{
		"title":     "Sleep",
		"content":   "Sleep well",
		"author_id": "2",
		"category":  "Wellness",
	}, pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.CreateBlog(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "image/png", images.contentType)
	assert.Equal(t, pngHeader, images.data)

	var resp map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "/uploads/fixed.png", resp["image"])
	require.Len(t, service.created, 1)
	require.NotNil(t, service.created[0].Category)
	assert.Equal(t, "Wellness", *service.created[0].Category)
}

func TestBlogHandler_FailedWriteRemovesUploadedImage(t *testing.T) {
	fields := map[string]string{"title": "Sleep", "content": "Sleep well", "author_id": "999"}

	t.Run("create", func(t *testing.T) {
		images := &stubImageStore{}
		handler := handlers.NewBlogHandler(&stubBlogService{err: apperrors.NewValidationError("author not found")}, images, 1<<20)

		body, contentType := multipartBlog(t, fields, pngHeader)
		req := httptest.NewRequest(http.MethodPost, "/api/blogs", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler.CreateBlog(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"/uploads/fixed.png"}, images.deleted)
	})

	t.Run("update of missing blog", func(t *testing.T) {
		images := &stubImageStore{}
		handler := handlers.NewBlogHandler(&stubBlogService{err: apperrors.NewNotFoundError("blog not found")}, images, 1<<20)

		body, contentType := multipartBlog(t, fields, pngHeader)
		req := httptest.NewRequest(http.MethodPut, "/api/blogs/404", body)
		req.Header.Set("Content-Type", contentType)
		req.SetPathValue("id", "404")
		w := httptest.NewRecorder()
		handler.UpdateBlog(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, []string{"/uploads/fixed.png"}, images.deleted)
	})

	t.Run("image given as a path is left alone", func(t *testing.T) {
		images := &stubImageStore{}
		handler := handlers.NewBlogHandler(&stubBlogService{err: apperrors.NewValidationError("author not found")}, images, 1<<20)

		withPath := map[string]string{"image": "/uploads/existing.png"}
		for k, v := range fields {
			withPath[k] = v
		}
		body, contentType := multipartBlog(t, withPath, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/blogs", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		handler.CreateBlog(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, images.deleted)
	})
}

func TestBlogHandler_CreateMultipartRejectsOversizedImage(t *testing.T) {
	handler := handlers.NewBlogHandler(&stubBlogService{}, &stubImageStore{}, 8)

	body, contentType := multipartBlog(t, map[string]string{
		"title":     "Sleep",
		"content":   "Sleep well",
		"author_id": "2",
	}, pngHeader)
	req := httptest.NewRequest(http.MethodPost, "/api/blogs", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	handler.CreateBlog(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "exceeds")
}

func TestBlogHandler_CreateMissingTitle(t *testing.T) {
	service := &stubBlogService{}
	handler := handlers.NewBlogHandler(service, &stubImageStore{}, 1<<20)

	req := httptest.NewRequest(http.MethodPost, "/api/blogs", strings.NewReader(`{"content":"x","author_id":1}`))
	w := httptest.NewRecorder()
	handler.CreateBlog(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"title is required"}`, w.Body.String())
	assert.Empty(t, service.created)
}

func TestBlogHandler_UpdateWithoutImageKeepsImageNil(t *testing.T) {
	service := &stubBlogService{}
	handler := handlers.NewBlogHandler(service, &stubImageStore{}, 1<<20)

	req := httptest.NewRequest(http.MethodPut, "/api/blogs/7", strings.NewReader(`{"title":"t","content":"c","author_id":1}`))
	req.SetPathValue("id", "7")
	w := httptest.NewRecorder()
	handler.UpdateBlog(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, service.updated, 1)
	assert.Nil(t, service.updated[0].Image)
}

func TestBlogHandler_Sample(t *testing.T) {
	t.Run("defaults author to 1", func(t *testing.T) {
		handler := handlers.NewBlogHandler(&stubBlogService{}, &stubImageStore{}, 1<<20)
		req := httptest.NewRequest(http.MethodPost, "/api/blogs/sample", nil)
		w := httptest.NewRecorder()
		handler.CreateSampleBlog(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.JSONEq(t, `{"id":30,"message":"Sample blog created successfully"}`, w.Body.String())
	})

	t.Run("missing author is 400", func(t *testing.T) {
		handler := handlers.NewBlogHandler(&stubBlogService{err: apperrors.NewValidationError("invalid author_id")}, &stubImageStore{}, 1<<20)
		req := httptest.NewRequest(http.MethodPost, "/api/blogs/sample?author_id=99", nil)
		w := httptest.NewRecorder()
		handler.CreateSampleBlog(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBlogHandler_Search(t *testing.T) {
	t.Run("unavailable without search backend", func(t *testing.T) {
		handler := handlers.NewBlogHandler(&stubBlogService{err: apperrors.NewUnavailableError("blog search is not configured")}, &stubImageStore{}, 1<<20)
		req := httptest.NewRequest(http.MethodGet, "/api/blogs/search?q=sleep", nil)
		w := httptest.NewRecorder()
		handler.SearchBlogs(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"error":"blog search is not configured"}`, w.Body.String())
	})

	t.Run("bad limit", func(t *testing.T) {
		handler := handlers.NewBlogHandler(&stubBlogService{}, &stubImageStore{}, 1<<20)
		req := httptest.NewRequest(http.MethodGet, "/api/blogs/search?q=sleep&limit=x", nil)
		w := httptest.NewRecorder()
		handler.SearchBlogs(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("results", func(t *testing.T) {
		handler := handlers.NewBlogHandler(&stubBlogService{}, &stubImageStore{}, 1<<20)
		req := httptest.NewRequest(http.MethodGet, "/api/blogs/search?q=sleep", nil)
		w := httptest.NewRecorder()
		handler.SearchBlogs(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"results":[],"count":0}`, w.Body.String())
	})
}
