package vault

import (
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"doc-vault/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// DefaultURLExpiry bounds a pre-signed URL's usability window when the caller
// does not supply one.
const DefaultURLExpiry = 60 * time.Second

// Service exposes folder and document operations over a shared storage
// client. It holds no per-call state; the client is safe for concurrent use.
type Service struct {
	client storage.Client
	logger *zap.Logger
}

// NewService creates a new vault service. Backend error detail is logged at
// debug level through logger and never surfaced in returned errors.
func NewService(client storage.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		logger: logger,
	}
}

// UploadURL returns a pre-signed URL authorizing a single PUT of key in
// bucket, valid for expires (DefaultURLExpiry when non-positive). Bucket and
// key are not checked for existence; the backend authorizes at use time.
func (s *Service) UploadURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	u, err := s.client.PresignedPutObject(ctx, bucket, key, normalizeExpiry(expires))
	if err != nil {
		s.diag("upload url generation failed", err,
			zap.String("bucket", bucket), zap.String("key", key))
		return "", newError(KindPresign, "failed to generate upload url", err)
	}
	return u.String(), nil
}

// DownloadURL returns a pre-signed URL authorizing a single GET of key in
// bucket. A non-empty versionID pins the URL to that version; otherwise the
// URL resolves to the latest version at access time.
func (s *Service) DownloadURL(ctx context.Context, bucket, key string, expires time.Duration, versionID string) (string, error) {
	var params url.Values
	if versionID != "" {
		params = url.Values{}
		params.Set("versionId", versionID)
	}

	u, err := s.client.PresignedGetObject(ctx, bucket, key, normalizeExpiry(expires), params)
	if err != nil {
		s.diag("download url generation failed", err,
			zap.String("bucket", bucket), zap.String("key", key))
		return "", newError(KindPresign, "failed to generate download url", err)
	}
	return u.String(), nil
}

// VersionID returns the current version identifier of the object at key via
// a metadata-only lookup. An empty identifier means the bucket is not
// versioned, which is a valid state. A missing object is a metadata error.
func (s *Service) VersionID(ctx context.Context, bucket, key string) (string, error) {
	info, err := s.client.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		s.diag("version lookup failed", err,
			zap.String("bucket", bucket), zap.String("key", key))
		return "", newError(KindMetadata, "failed to look up object version", err)
	}
	return info.VersionID, nil
}

// CreateFolder writes the zero-byte marker object at folder + "/". Writing
// over an existing marker succeeds, so the call is idempotent.
func (s *Service) CreateFolder(ctx context.Context, bucket, folder string) (minio.UploadInfo, error) {
	info, err := s.client.PutObject(ctx, bucket, folderKey(folder), bytes.NewReader(nil), 0, minio.PutObjectOptions{})
	if err != nil {
		s.diag("folder creation failed", err,
			zap.String("bucket", bucket), zap.String("folder", folder))
		return minio.UploadInfo{}, newError(KindWrite, "failed to create folder", err)
	}
	return info, nil
}

// DeleteFolder removes every object whose key starts with folder + "/".
// The listing is consumed in full before deletes are issued, and all deletes
// are awaited; when some fail the returned write error carries the keys that
// failed. An empty listing means the folder does not exist.
func (s *Service) DeleteFolder(ctx context.Context, bucket, folder string) error {
	prefix := folderKey(folder)

	var objects []minio.ObjectInfo
	for obj := range s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			s.diag("folder listing failed", obj.Err,
				zap.String("bucket", bucket), zap.String("prefix", prefix))
			return newError(KindWrite, "failed to list folder contents", obj.Err)
		}
		objects = append(objects, obj)
	}

	if len(objects) == 0 {
		return newError(KindNotFound, "folder does not exist", nil)
	}

	objectsCh := make(chan minio.ObjectInfo, len(objects))
	for _, obj := range objects {
		objectsCh <- obj
	}
	close(objectsCh)

	var failed []string
	var cause error
	for rmErr := range s.client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			s.diag("object delete failed", rmErr.Err,
				zap.String("bucket", bucket), zap.String("key", rmErr.ObjectName))
			failed = append(failed, rmErr.ObjectName)
			if cause == nil {
				cause = rmErr.Err
			}
		}
	}

	if len(failed) > 0 {
		return &Error{
			Kind:       KindWrite,
			Message:    "failed to delete folder contents",
			FailedKeys: failed,
			Cause:      cause,
		}
	}
	return nil
}

// DeleteDocument deletes the current version of the object at folder/key.
// Deleting a key that does not exist is a backend no-op and succeeds.
func (s *Service) DeleteDocument(ctx context.Context, bucket, folder, key string) error {
	name := documentKey(folder, key)
	if err := s.client.RemoveObject(ctx, bucket, name, minio.RemoveObjectOptions{}); err != nil {
		s.diag("document delete failed", err,
			zap.String("bucket", bucket), zap.String("key", name))
		return newError(KindWrite, "failed to delete document", err)
	}
	return nil
}

// DeleteDocumentVersion deletes one specific version of the object at
// folder/key, leaving other versions in place.
func (s *Service) DeleteDocumentVersion(ctx context.Context, bucket, folder, key, versionID string) error {
	name := documentKey(folder, key)
	if err := s.client.RemoveObject(ctx, bucket, name, minio.RemoveObjectOptions{VersionID: versionID}); err != nil {
		s.diag("document version delete failed", err,
			zap.String("bucket", bucket), zap.String("key", name), zap.String("version_id", versionID))
		return newError(KindWrite, "failed to delete document version", err)
	}
	return nil
}

// diag logs the backend cause at debug level. Returned errors carry only the
// fixed taxonomy message, so this is the sole place backend detail surfaces.
func (s *Service) diag(msg string, err error, fields ...zap.Field) {
	s.logger.Debug(msg, append(fields, zap.Error(err))...)
}

func normalizeExpiry(expires time.Duration) time.Duration {
	if expires <= 0 {
		return DefaultURLExpiry
	}
	return expires
}

// folderKey is the zero-byte marker key for folder. Trailing separators from
// the caller are collapsed into the single one the marker convention uses.
func folderKey(folder string) string {
	return strings.TrimRight(folder, "/") + "/"
}

func documentKey(folder, key string) string {
	return strings.TrimRight(folder, "/") + "/" + key
}
