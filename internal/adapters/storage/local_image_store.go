package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/carelink/backend/internal/domain/providers"
	apperrors "github.com/carelink/backend/pkg/errors"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalImageStore writes uploaded blog images to a directory served under a URL prefix
type LocalImageStore struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

var _ providers.ImageStore = (*LocalImageStore)(nil)

// NewLocalImageStore creates the upload directory if needed
func NewLocalImageStore(dir, urlPrefix string, maxBytes int64) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalImageStore{dir: dir, urlPrefix: urlPrefix, maxBytes: maxBytes}, nil
}

// Dir returns the directory images are written to
func (s *LocalImageStore) Dir() string { return s.dir }

// Save stores the image under a random name and returns its public path.
// Non-image content and files over the size limit are rejected.
func (s *LocalImageStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", apperrors.NewValidationError("image must be a jpeg, png, gif or webp file")
	}
	if strings.EqualFold(filepath.Ext(filename), ".jpeg") && ext == ".jpg" {
		ext = ".jpeg"
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", apperrors.NewInternalError("failed to store image", err)
	}

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil || n > s.maxBytes {
		if rmErr := os.Remove(dst); rmErr != nil {
			log.Ctx(ctx).Warn().Err(rmErr).Str("file", dst).Msg("failed to remove partial upload")
		}
		if err != nil {
			return "", apperrors.NewInternalError("failed to store image", err)
		}
		return "", apperrors.NewValidationErrorf("image exceeds %d bytes", s.maxBytes)
	}

	return path.Join(s.urlPrefix, name), nil
}

// Delete removes an image by the public path Save returned. Paths outside the
// URL prefix or naming anything but a file directly in the upload dir are rejected.
func (s *LocalImageStore) Delete(ctx context.Context, publicPath string) error {
	name := strings.TrimPrefix(publicPath, s.urlPrefix)
	if name == publicPath || name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return apperrors.NewValidationError("invalid image path")
	}

	dst := filepath.Join(s.dir, name)
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.NewInternalError("failed to delete image", err)
	}
	log.Ctx(ctx).Debug().Str("file", dst).Msg("image deleted")
	return nil
}
