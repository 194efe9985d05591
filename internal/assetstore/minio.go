package assetstore

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	UseSSL        bool
	PublicBaseURL string
}

// MinioStore implements ObjectStore against MinIO or any S3-compatible
// endpoint.
type MinioStore struct {
	client *minio.Client
	cfg    Config
	log    *zap.Logger
}

func NewMinioStore(cfg Config, log *zap.Logger) (*MinioStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("assetstore: endpoint is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("assetstore: bucket is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("assetstore: create client: %w", err)
	}

	return &MinioStore{
		client: client,
		cfg:    cfg,
		log:    log.Named("assetstore"),
	}, nil
}

// EnsureBucket creates the configured bucket when missing. Called once at
// startup, not per upload.
func (s *MinioStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("assetstore: check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
		return fmt.Errorf("assetstore: create bucket: %w", err)
	}
	return nil
}

func (s *MinioStore) Upload(ctx context.Context, data []byte, folder, assetID, contentType string, overwrite bool) (Upload, error) {
	key := objectKey(folder, assetID)
	if contentType == "" {
		contentType = "image/jpeg"
	}

	if !overwrite {
		if _, err := s.client.StatObject(ctx, s.cfg.Bucket, key, minio.StatObjectOptions{}); err == nil {
			return Upload{
				URL:      s.publicURL(key),
				PublicID: key,
				Format:   formatFromContentType(contentType),
				Bytes:    int64(len(data)),
			}, nil
		}
	}

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Upload{}, fmt.Errorf("%w: put %s: %v", ErrUploadFailed, key, err)
	}

	return Upload{
		URL:      s.publicURL(key),
		PublicID: key,
		Format:   formatFromContentType(contentType),
		Bytes:    int64(len(data)),
	}, nil
}

func (s *MinioStore) Owns(url string) bool {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	return base != "" && strings.HasPrefix(url, base)
}

func (s *MinioStore) publicURL(key string) string {
	base := strings.TrimRight(s.cfg.PublicBaseURL, "/")
	return fmt.Sprintf("%s/%s/%s", base, s.cfg.Bucket, key)
}

func objectKey(folder, assetID string) string {
	folder = strings.Trim(folder, "/")
	if folder == "" {
		return assetID
	}
	return folder + "/" + assetID
}

func formatFromContentType(contentType string) string {
	exts, err := mime.ExtensionsByType(contentType)
	if err == nil && len(exts) > 0 {
		return strings.TrimPrefix(exts[0], ".")
	}
	if idx := strings.Index(contentType, "/"); idx >= 0 {
		return contentType[idx+1:]
	}
	return contentType
}
