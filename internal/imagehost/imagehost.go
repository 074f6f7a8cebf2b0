// Package imagehost stores uploaded images on an S3-compatible object store
// and hands back public URLs plus the identifiers needed to delete them.
package imagehost

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/atinyakov/baristafolio/internal/config"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ErrNotConfigured is returned by Unconfigured for every call.
var ErrNotConfigured = errors.New("image storage is not configured")

// Host uploads and deletes images.
type Host interface {
	Upload(ctx context.Context, folder string, up *models.Upload) (models.Asset, error)
	Delete(ctx context.Context, assetID string) error
}

// objectStore is the part of *minio.Client the host needs.
type objectStore interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// MinioHost implements Host on top of minio-go.
type MinioHost struct {
	store   objectStore
	bucket  string
	baseURL string
	newID   func() string
}

// NewMinio connects to the object store described by cfg.
func NewMinio(cfg config.StorageOptions) (*MinioHost, *minio.Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init object store: %w", err)
	}
	return newHost(client, cfg), client, nil
}

func newHost(store objectStore, cfg config.StorageOptions) *MinioHost {
	base := strings.TrimRight(cfg.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = scheme + "://" + cfg.Endpoint
	}
	return &MinioHost{
		store:   store,
		bucket:  cfg.Bucket,
		baseURL: base + "/" + cfg.Bucket,
		newID:   uuid.NewString,
	}
}

// EnsureBucket creates the bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client *minio.Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Upload stores up under folder with a fresh name. The returned asset id is
// the object key.
func (h *MinioHost) Upload(ctx context.Context, folder string, up *models.Upload) (models.Asset, error) {
	key := path.Join(folder, h.newID()+extension(up))
	_, err := h.store.PutObject(ctx, h.bucket, key, up.Body, up.Size, minio.PutObjectOptions{
		ContentType: up.ContentType,
	})
	if err != nil {
		return models.Asset{}, fmt.Errorf("upload image: %w", err)
	}
	return models.Asset{URL: h.baseURL + "/" + key, ID: key}, nil
}

// Delete removes the object with key assetID. Removing a missing object succeeds.
func (h *MinioHost) Delete(ctx context.Context, assetID string) error {
	if err := h.store.RemoveObject(ctx, h.bucket, assetID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

func extension(up *models.Upload) string {
	if ext := strings.ToLower(path.Ext(up.Filename)); ext != "" && len(ext) <= 6 {
		return ext
	}
	if exts, err := mime.ExtensionsByType(up.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// Unconfigured rejects every call; it stands in when no storage endpoint is set.
type Unconfigured struct{}

// Upload implements Host.
func (Unconfigured) Upload(context.Context, string, *models.Upload) (models.Asset, error) {
	return models.Asset{}, ErrNotConfigured
}

// Delete implements Host.
func (Unconfigured) Delete(context.Context, string) error { return ErrNotConfigured }
