package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestNew(t *testing.T) {
	t.Run("file output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "erp.log")
		log, err := New(&Config{Level: "WARN", Format: "json", Output: path})
		require.NoError(t, err)

		log.Info("dropped")
		log.Warn("medicao atrasada", zap.String("obra", "Residencial Aurora"))
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"medicao atrasada"`)
		assert.NotContains(t, string(data), "dropped")
	})

	t.Run("unknown level falls back to info", func(t *testing.T) {
		log, err := New(&Config{Level: "verbose", Format: "console", Output: "stderr"})
		require.NoError(t, err)
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("unwritable file", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "erp.log")})
		assert.Error(t, err)
	})
}

func TestContextScope(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	ctx := WithLogger(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTenant(ctx, "tenant-1")
	ctx = WithUser(ctx, "user-1")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "tenant-1", TenantID(ctx))
	assert.Equal(t, "user-1", UserID(ctx))

	FromContext(ctx).Info("pagamento registrado")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "tenant-1", fields["tenant_id"])
	assert.Equal(t, "user-1", fields["user_id"])
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, UserID(context.Background()))

	core, logs := observer.New(zapcore.InfoLevel)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1},
		SpanID:  trace.SpanID{2},
	})
	ctx := trace.ContextWithSpanContext(WithLogger(context.Background(), zap.New(core)), sc)

	FromContext(ctx).Info("traced")
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, sc.TraceID().String(), fields["trace_id"])
	assert.Equal(t, sc.SpanID().String(), fields["span_id"])
}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set("request_id", "req-9")
		c.Next()
	})
	engine.Use(AccessLog(zap.New(core)))
	engine.GET("/api/obras/:id", func(c *gin.Context) {
		c.Request = c.Request.WithContext(WithTenant(c.Request.Context(), "tenant-9"))
		Request(c).Info("loading project")
		c.Status(http.StatusOK)
	})
	engine.GET("/boom", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/obras/3?full=1", nil))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "loading project", entries[0].Message)
	assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])

	access := entries[1].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "/api/obras/:id", access["route"])
	assert.Equal(t, "full=1", access["query"])
	assert.Equal(t, "tenant-9", access["tenant_id"])
	assert.EqualValues(t, http.StatusOK, access["status"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.ErrorLevel)

	engine := gin.New()
	engine.Use(Recovery(zap.New(core)))
	engine.GET("/panic", func(*gin.Context) { panic("nil stage") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"ERR_INTERNAL"`)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "nil stage", logs.All()[0].ContextMap()["panic"])
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, 50*time.Millisecond)
	ctx := WithTenant(context.Background(), "tenant-1")
	stmt := func() (string, int64) { return "SELECT * FROM projects", 2 }

	gl.Trace(ctx, time.Now(), stmt, nil)
	assert.Zero(t, logs.Len(), "fast statements are not logged at warn")

	gl.Trace(ctx, time.Now(), stmt, gormlogger.ErrRecordNotFound)
	assert.Zero(t, logs.Len(), "record not found is not an error")

	gl.Trace(ctx, time.Now().Add(-time.Second), stmt, nil)
	gl.Trace(ctx, time.Now(), stmt, errors.New("deadlock detected"))
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "Slow SQL", logs.All()[0].Message)
	assert.Equal(t, "tenant-1", logs.All()[0].ContextMap()["tenant_id"])
	assert.Equal(t, "SQL error", logs.All()[1].Message)

	gl.LogMode(gormlogger.Info).Trace(ctx, time.Now(), stmt, nil)
	assert.Equal(t, "SQL", logs.All()[2].Message)

	gl.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), stmt, errors.New("ignored"))
	assert.Equal(t, 3, logs.Len())
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Error, GormLevel("error"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel("warn"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}
