package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/analysis"
)

// DefaultLinkExpiry bounds how long a presigned download link stays valid.
const DefaultLinkExpiry = 24 * time.Hour

var _ domain.DocumentStore = (*Store)(nil)

type Store struct {
	client     *minio.Client
	bucketName string
	region     string
	expiry     time.Duration
}

// New buat koneksi MinIO
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Store, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	// pastikan bucket ada
	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		log.Info().Str("bucket", bucket).Msg("bucket created")
	}

	return &Store{client: cli, bucketName: bucket, region: region, expiry: DefaultLinkExpiry}, nil
}

// WithExpiry sets the lifetime of presigned links.
func (s *Store) WithExpiry(d time.Duration) *Store {
	if d > 0 {
		s.expiry = d
	}
	return s
}

// Put uploads data and returns a presigned download link. Buckets stay
// private; the link is the only way to read the object.
func (s *Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, time.Time, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", time.Time{}, fmt.Errorf("upload %s: %w", key, err)
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(key)))
	expiresAt := time.Now().Add(s.expiry)
	link, err := s.client.PresignedGetObject(ctx, s.bucketName, key, s.expiry, params)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign %s: %w", key, err)
	}

	log.Info().Str("bucket", s.bucketName).Str("key", key).Int("bytes", len(data)).Msg("document stored")
	return link.String(), expiresAt, nil
}

// Ping reports whether the bucket is reachable.
func (s *Store) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s does not exist", s.bucketName)
	}
	return nil
}
