package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/carelink/backend/pkg/errors"
)

func TestLocalImageStore_Save(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, "/uploads", 16)
	require.NoError(t, err)

	url, err := store.Save(context.Background(), "photo.png", "image/png", bytes.NewReader([]byte("png-bytes")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalImageStore_RejectsNonImage(t *testing.T) {
	store, err := NewLocalImageStore(t.TempDir(), "/uploads/", 16)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "notes.txt", "text/plain", strings.NewReader("hello"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestLocalImageStore_RejectsOversize(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, "/uploads/", 4)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), "big.jpg", "image/jpeg", strings.NewReader("0123456789"))
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial file should be removed")
}

func TestLocalImageStore_Delete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalImageStore(dir, "/uploads", 16)
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Save(ctx, "photo.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, url))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// already gone
	assert.NoError(t, store.Delete(ctx, url))
}

func TestLocalImageStore_DeleteRejectsPathsOutsideUploadDir(t *testing.T) {
	parent := t.TempDir()
	dir := filepath.Join(parent, "uploads")
	store, err := NewLocalImageStore(dir, "/uploads", 16)
	require.NoError(t, err)

	outside := filepath.Join(parent, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))

	for _, p := range []string{"/uploads/../keep.txt", "/uploads/", "/other/keep.txt", "/uploads/a/b.png", "/uploads/.."} {
		err := store.Delete(context.Background(), p)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation), p)
	}

	_, err = os.Stat(outside)
	assert.NoError(t, err)
}
