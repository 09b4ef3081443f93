package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/aws/smithy-go"
	"github.com/erp-obras/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:       "notas-fiscais",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	}
}

func TestNewS3Store_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.StorageConfig
		wantErr string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing access key", &config.StorageConfig{Bucket: "b", SecretKey: "s"}, "access key is required"},
		{"missing secret key", &config.StorageConfig{Bucket: "b", AccessKey: "k"}, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Store(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("defaults", func(t *testing.T) {
		store, err := NewS3Store(testConfig(), WithLogger(zaptest.NewLogger(t)))
		require.NoError(t, err)
		assert.Equal(t, "notas-fiscais", store.Bucket())
		assert.Equal(t, defaultExpiry, store.expiry)
	})

	t.Run("custom expiry", func(t *testing.T) {
		store, err := NewS3Store(testConfig(), WithExpiry(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, store.expiry)
	})
}

func TestNormalizeEndpoint(t *testing.T) {
	got, err := normalizeEndpoint("", false)
	require.NoError(t, err)
	assert.Equal(t, defaultEndpoint, got)

	got, err = normalizeEndpoint("minio:9000", true)
	require.NoError(t, err)
	assert.Equal(t, "https://minio:9000", got)

	got, err = normalizeEndpoint("minio:9000", false)
	require.NoError(t, err)
	assert.Equal(t, "http://minio:9000", got)
}

func TestS3Store_Presign(t *testing.T) {
	store, err := NewS3Store(testConfig())
	require.NoError(t, err)
	ctx := context.Background()
	key := "tenants/t1/invoices/i1/nf.pdf"

	t.Run("upload", func(t *testing.T) {
		u, expiresAt, err := store.GenerateUploadURL(ctx, key, "application/pdf", 0)
		require.NoError(t, err)
		assert.True(t, strings.Contains(u, "localhost:9000"))
		assert.True(t, strings.Contains(u, "notas-fiscais"))
		assert.True(t, expiresAt.After(time.Now()))
		assert.True(t, expiresAt.Before(time.Now().Add(16*time.Minute)))
	})

	t.Run("download", func(t *testing.T) {
		u, _, err := store.GenerateDownloadURL(ctx, key, time.Hour)
		require.NoError(t, err)
		assert.NotEmpty(t, u)
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := store.GenerateUploadURL(ctx, "", "application/pdf", 0)
		assert.ErrorIs(t, err, ErrEmptyKey)
		_, _, err = store.GenerateDownloadURL(ctx, "", 0)
		assert.ErrorIs(t, err, ErrEmptyKey)
		assert.ErrorIs(t, store.DeleteObject(ctx, ""), ErrEmptyKey)
		_, err = store.ObjectExists(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore("")
	key := "tenants/t1/invoices/i1/nf.pdf"

	exists, err := store.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	u, _, err := store.GenerateUploadURL(ctx, key, "application/pdf", time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/documents/upload/"+key+"?expires="))

	exists, _ = store.ObjectExists(ctx, key)
	assert.True(t, exists)

	require.NoError(t, store.DeleteObject(ctx, key))
	exists, _ = store.ObjectExists(ctx, key)
	assert.False(t, exists)
}

func TestS3Store_Integration(t *testing.T) {
	endpoint := os.Getenv("ERP_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("ERP_TEST_S3_ENDPOINT not set")
	}
	cfg := testConfig()
	cfg.Endpoint = endpoint
	cfg.Bucket = "erp-integration"
	cfg.AccessKey = os.Getenv("ERP_TEST_S3_ACCESS_KEY")
	cfg.SecretKey = os.Getenv("ERP_TEST_S3_SECRET_KEY")
	store, err := NewS3Store(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.EnsureBucket(ctx))
	require.NoError(t, store.EnsureBucket(ctx))

	exists, err := store.ObjectExists(ctx, "missing/key.pdf")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestIsMissing(t *testing.T) {
	assert.True(t, isMissing(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.True(t, isMissing(fmt.Errorf("head: %w", &smithy.GenericAPIError{Code: "NoSuchKey"})))
	assert.False(t, isMissing(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isMissing(errors.New("NotFound")))
}
