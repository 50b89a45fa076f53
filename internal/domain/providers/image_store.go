package providers

import (
	"context"
	"io"
)

// ImageStore persists uploaded images and returns the public path they are served from
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	// Delete removes an image previously returned by Save. Missing images are not an error.
	Delete(ctx context.Context, publicPath string) error
}
