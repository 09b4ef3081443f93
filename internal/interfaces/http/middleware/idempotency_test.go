package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKeyStore struct{}

func (failingKeyStore) Claim(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func (failingKeyStore) Release(context.Context, string) error { return nil }

func idempotencyEngine(store RequestKeyStore, tenantID uuid.UUID, status *int, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(TenantIDKey, tenantID)
		c.Next()
	})
	engine.POST("/lancamentos/:id/pagar", Idempotency(IdempotencyConfig{Store: store}), func(c *gin.Context) {
		*calls++
		c.Status(*status)
	})
	return engine
}

func postWithKey(engine *gin.Engine, path, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestIdempotency(t *testing.T) {
	t.Run("repeated key is rejected", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusOK, 0
		engine := idempotencyEngine(store, uuid.New(), &status, &calls)

		first := postWithKey(engine, "/lancamentos/1/pagar", "abc")
		second := postWithKey(engine, "/lancamentos/1/pagar", "abc")

		assert.Equal(t, http.StatusOK, first.Code)
		assert.Equal(t, http.StatusConflict, second.Code)
		assert.Contains(t, second.Body.String(), "ERR_CONFLICT")
		assert.Equal(t, 1, calls)
	})

	t.Run("requests without a key always pass", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusOK, 0
		engine := idempotencyEngine(store, uuid.New(), &status, &calls)

		postWithKey(engine, "/lancamentos/1/pagar", "")
		postWithKey(engine, "/lancamentos/1/pagar", "")

		assert.Equal(t, 2, calls)
		assert.Equal(t, 0, store.Size())
	})

	t.Run("failed request releases the key", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusBadRequest, 0
		engine := idempotencyEngine(store, uuid.New(), &status, &calls)

		postWithKey(engine, "/lancamentos/1/pagar", "retry-me")
		status = http.StatusOK
		w := postWithKey(engine, "/lancamentos/1/pagar", "retry-me")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("same key on another path is independent", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusOK, 0
		engine := idempotencyEngine(store, uuid.New(), &status, &calls)

		postWithKey(engine, "/lancamentos/1/pagar", "k")
		w := postWithKey(engine, "/lancamentos/2/pagar", "k")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2, calls)
	})

	t.Run("keys are scoped per tenant", func(t *testing.T) {
		store := cache.NewInMemoryIdempotencyStore()
		defer store.Close()
		status, calls := http.StatusOK, 0
		engineA := idempotencyEngine(store, uuid.New(), &status, &calls)
		engineB := idempotencyEngine(store, uuid.New(), &status, &calls)

		postWithKey(engineA, "/lancamentos/1/pagar", "k")
		w := postWithKey(engineB, "/lancamentos/1/pagar", "k")

		assert.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, 2, calls)
	})

	t.Run("store failure lets the request through", func(t *testing.T) {
		status, calls := http.StatusOK, 0
		engine := idempotencyEngine(failingKeyStore{}, uuid.New(), &status, &calls)

		w := postWithKey(engine, "/lancamentos/1/pagar", "k")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, calls)
	})
}
