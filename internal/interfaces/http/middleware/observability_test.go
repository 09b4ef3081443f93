package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/erp-obras/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withTenant(tenantID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

func TestTracing_TagsSpanAfterHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tenantID := uuid.New()
	engine := gin.New()
	engine.Use(RequestID())
	engine.Use(Tracing("erp-obras", otelgin.WithTracerProvider(tp))...)
	engine.GET("/api/obras/:id", withTenant(tenantID), func(c *gin.Context) {
		c.Set(JWTUserIDKey, "user-1")
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/obras/42", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	span := spans[0]
	assert.Equal(t, codes.Error, span.Status().Code)

	attrs := map[attribute.Key]string{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, tenantID.String(), attrs["tenant_id"])
	assert.Equal(t, "user-1", attrs["user_id"])
	assert.Equal(t, w.Header().Get("X-Request-ID"), attrs["request_id"])
}

func TestHTTPMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	tenantID := uuid.New()
	engine := gin.New()
	engine.Use(HTTPMetrics(mp.Meter("http")))
	engine.GET("/api/obras/:id", withTenant(tenantID), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	for _, path := range []string{"/api/obras/1", "/api/obras/2", "/nao-existe"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	counts := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_server_request_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, p := range sum.DataPoints {
				route, _ := p.Attributes.Value(telemetry.AttrHTTPRoute)
				counts[route.AsString()] += p.Value
				if route.AsString() == "/api/obras/:id" {
					tenant, ok := p.Attributes.Value(telemetry.AttrTenantID)
					require.True(t, ok)
					assert.Equal(t, tenantID.String(), tenant.AsString())
				}
			}
		}
	}
	assert.Equal(t, map[string]int64{"/api/obras/:id": 2, unmatchedRoute: 1}, counts)
}

func TestHTTPMetrics_NilMeterPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(HTTPMetrics(nil))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestProfiling_RunsHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/api/medicoes/:id", withTenant(uuid.New()), Profiling(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/medicoes/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouteResource(t *testing.T) {
	tests := map[string]string{
		"/api/obras/:id/etapas": "obras",
		"/api/medicoes":         "medicoes",
		"/health":               "health",
		"":                      "",
		"/api/:id":              "",
	}
	for route, want := range tests {
		assert.Equal(t, want, routeResource(route), route)
	}
}

func TestTenantLabel(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, tenantLabel(c))

	c.Set(JWTTenantIDKey, "not-a-uuid")
	assert.Empty(t, tenantLabel(c))

	claim := uuid.New()
	c.Set(JWTTenantIDKey, claim.String())
	assert.Equal(t, claim.String(), tenantLabel(c))

	resolved := uuid.New()
	c.Set(TenantIDKey, resolved)
	assert.Equal(t, resolved.String(), tenantLabel(c))
}
