// Package storage is the object storage collaborator used for item photos.
package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/domain"
	"github.com/spec-kit/lostfound-service/internal/repository"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// RoutePrefix is where stored objects are served.
const RoutePrefix = "/storage"

// ObjectStore uploads blobs and hands out public URLs for them.
type ObjectStore struct {
	objects repository.ObjectRepository
	baseURL string
	logger  *zap.Logger
}

// NewObjectStore builds a store whose public URLs start with baseURL.
func NewObjectStore(objects repository.ObjectRepository, baseURL string, logger *zap.Logger) *ObjectStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObjectStore{objects: objects, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Upload stores data at bucket/path, replacing any previous object.
func (s *ObjectStore) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) error {
	bucket, path, err := cleanKey(bucket, path)
	if err != nil {
		return err
	}
	obj := &domain.StoredObject{Bucket: bucket, Path: path, ContentType: contentType, Data: data}
	if err := s.objects.Put(ctx, obj); err != nil {
		s.logger.Error("object upload failed", zap.String("bucket", bucket), zap.String("path", path), zap.Error(err))
		return apperrors.NewStorageError(err)
	}
	s.logger.Debug("object stored", zap.String("bucket", bucket), zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// Download returns the stored object.
func (s *ObjectStore) Download(ctx context.Context, bucket, path string) (*domain.StoredObject, error) {
	bucket, path, err := cleanKey(bucket, path)
	if err != nil {
		return nil, err
	}
	obj, err := s.objects.Get(ctx, bucket, path)
	if err != nil {
		if de := apperrors.ToDomainError(err); de.Code == apperrors.CodeNotFound {
			return nil, apperrors.NewNotFound("object", map[string]any{"bucket": bucket, "path": path})
		}
		return nil, apperrors.NewStorageError(err)
	}
	return obj, nil
}

// PublicURL returns the address at which bucket/path is served. It does not
// check that the object exists.
func (s *ObjectStore) PublicURL(bucket, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s%s/%s/%s", s.baseURL, RoutePrefix, url.PathEscape(bucket), strings.Join(segments, "/"))
}

func cleanKey(bucket, path string) (string, string, error) {
	bucket = strings.TrimSpace(bucket)
	path = strings.Trim(strings.TrimSpace(path), "/")
	if bucket == "" || path == "" || strings.Contains(bucket, "/") {
		return "", "", apperrors.NewValidationError("invalid object key", map[string]any{"bucket": bucket, "path": path})
	}
	for _, seg := range strings.Split(path, "/") {
		if seg == "" || seg == "." || seg == ".." {
			return "", "", apperrors.NewValidationError("invalid object key", map[string]any{"bucket": bucket, "path": path})
		}
	}
	return bucket, path, nil
}
