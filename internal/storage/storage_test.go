package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

func TestUploadAndDownload(t *testing.T) {
	ctx := context.Background()
	store := NewObjectStore(repository.NewMemoryObjectRepository(), "http://localhost:8080/", nil)

	require.NoError(t, store.Upload(ctx, "items", "/items/a.jpg", []byte("jpeg"), "image/jpeg"))
	obj, err := store.Download(ctx, "items", "items/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", obj.ContentType)
	assert.Equal(t, []byte("jpeg"), obj.Data)

	_, err = store.Download(ctx, "items", "items/missing.jpg")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestPublicURL(t *testing.T) {
	store := NewObjectStore(repository.NewMemoryObjectRepository(), "https://lf.example.edu/", nil)
	assert.Equal(t, "https://lf.example.edu/storage/items/items/a%20b.jpg", store.PublicURL("items", "items/a b.jpg"))
}

func TestRejectsTraversal(t *testing.T) {
	store := NewObjectStore(repository.NewMemoryObjectRepository(), "", nil)
	err := store.Upload(context.Background(), "items", "../secrets", nil, "text/plain")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	err = store.Upload(context.Background(), "", "a.jpg", nil, "image/jpeg")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
}

type failingObjects struct{}

func (failingObjects) Put(context.Context, *domain.StoredObject) error { return errors.New("disk full") }
func (failingObjects) Get(context.Context, string, string) (*domain.StoredObject, error) {
	return nil, errors.New("disk full")
}

func TestUploadFailureIsStorageError(t *testing.T) {
	store := NewObjectStore(failingObjects{}, "", nil)
	err := store.Upload(context.Background(), "items", "a.jpg", []byte("x"), "image/jpeg")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeStorageFailed))
}
