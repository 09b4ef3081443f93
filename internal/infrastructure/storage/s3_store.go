// Package storage keeps invoice documents in S3-compatible object storage
// (AWS S3, MinIO, RustFS) behind presigned URLs.
package storage

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	financeapp "github.com/erp-obras/backend/internal/application/finance"
	infraconfig "github.com/erp-obras/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ financeapp.ObjectStorage = (*S3Store)(nil)

// ErrEmptyKey is returned for operations without a storage key.
var ErrEmptyKey = errors.New("storage key is required")

const (
	defaultEndpoint = "http://localhost:9000"
	defaultRegion   = "us-east-1"
	defaultExpiry   = 15 * time.Minute
)

// S3Store keeps documents in one bucket and hands out presigned URLs so
// file bytes never pass through the API.
type S3Store struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
	expiry  time.Duration
	logger  *zap.Logger
}

type Option func(*S3Store)

func WithLogger(logger *zap.Logger) Option {
	return func(s *S3Store) { s.logger = logger }
}

// WithExpiry sets the URL lifetime used when a caller passes zero.
func WithExpiry(d time.Duration) Option {
	return func(s *S3Store) { s.expiry = d }
}

func NewS3Store(cfg *infraconfig.StorageConfig, opts ...Option) (*S3Store, error) {
	if err := checkConfig(cfg); err != nil {
		return nil, err
	}
	endpoint, err := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}
	region := cmp.Or(cfg.Region, defaultRegion)

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.UsePathStyle
	})

	store := &S3Store{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		expiry:  cfg.PresignExpiration,
		logger:  zap.NewNop(),
	}
	for _, apply := range opts {
		apply(store)
	}
	if store.expiry <= 0 {
		store.expiry = defaultExpiry
	}
	return store, nil
}

func checkConfig(cfg *infraconfig.StorageConfig) error {
	var missing string
	switch {
	case cfg == nil:
		missing = "configuration"
	case cfg.Bucket == "":
		missing = "bucket"
	case cfg.AccessKey == "":
		missing = "access key"
	case cfg.SecretKey == "":
		missing = "secret key"
	default:
		return nil
	}
	return fmt.Errorf("storage %s is required", missing)
}

// normalizeEndpoint adds a scheme to bare host:port endpoints.
func normalizeEndpoint(endpoint string, useSSL bool) (string, error) {
	endpoint = cmp.Or(endpoint, defaultEndpoint)
	if !strings.Contains(endpoint, "://") {
		if useSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return "", fmt.Errorf("storage: invalid endpoint %q: %w", endpoint, err)
	}
	return endpoint, nil
}

func (s *S3Store) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket when it is missing. Called at startup.
func (s *S3Store) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: &s.bucket})
	switch {
	case err == nil:
		return nil
	case !isMissing(err):
		return fmt.Errorf("storage: head bucket %s: %w", s.bucket, err)
	}

	s.logger.Info("Creating document bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: &s.bucket})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("storage: create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// GenerateUploadURL presigns a PUT of key with the given content type.
func (s *S3Store) GenerateUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	ttl = s.lifetime(ttl)
	signed, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		ContentType: &contentType,
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: presign upload: %w", err)
	}
	return signed.URL, time.Now().Add(ttl), nil
}

// GenerateDownloadURL presigns a GET of key.
func (s *S3Store) GenerateDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, ErrEmptyKey
	}
	ttl = s.lifetime(ttl)
	signed, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key},
		s3.WithPresignExpires(ttl))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("storage: presign download: %w", err)
	}
	return signed.URL, time.Now().Add(ttl), nil
}

func (s *S3Store) DeleteObject(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
		return fmt.Errorf("storage: delete %s: %w", key, err)
	}
	return nil
}

// ObjectExists reports whether something was uploaded under key.
func (s *S3Store) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &key})
	switch {
	case err == nil:
		return true, nil
	case isMissing(err):
		return false, nil
	}
	return false, fmt.Errorf("storage: head %s: %w", key, err)
}

func (s *S3Store) lifetime(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return s.expiry
}

// isMissing matches the not-found answers of AWS and of S3-compatible
// servers. HEAD responses carry no body, so MinIO and RustFS only surface
// the generic "NotFound" API code.
func isMissing(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket":
			return true
		}
	}
	return false
}
