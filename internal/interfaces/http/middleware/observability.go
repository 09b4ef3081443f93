package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/erp-obras/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// unmatchedRoute labels requests no route matched, keeping raw paths out of
// metric attributes.
const unmatchedRoute = "unmatched"

// Tracing returns the otelgin server span handler followed by a handler that,
// once the request has been served, tags the span with the request id, the
// authenticated tenant and user, and marks 5xx responses as errors.
// Install both with engine.Use(Tracing(name)...).
func Tracing(serviceName string, opts ...otelgin.Option) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName, opts...),
		func(c *gin.Context) {
			c.Next()

			span := trace.SpanFromContext(c.Request.Context())
			if !span.IsRecording() {
				return
			}
			var attrs []attribute.KeyValue
			if id := c.GetString("request_id"); id != "" {
				attrs = append(attrs, attribute.String("request_id", id))
			}
			if tenant := tenantLabel(c); tenant != "" {
				attrs = append(attrs, attribute.String("tenant_id", tenant))
			}
			if user := c.GetString(JWTUserIDKey); user != "" {
				attrs = append(attrs, attribute.String("user_id", user))
			}
			span.SetAttributes(attrs...)
			if status := c.Writer.Status(); status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		},
	}
}

// HTTPMetrics records request counts, latency, response size and in-flight
// requests on meter. Routes are labeled by their pattern, never the raw path.
// A nil meter or an instrument failure yields a pass-through handler.
func HTTPMetrics(meter metric.Meter) gin.HandlerFunc {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	instruments, err := newHTTPInstruments(meter)
	if err != nil {
		return func(c *gin.Context) { c.Next() }
	}
	return instruments.handle
}

type httpInstruments struct {
	requests     *telemetry.Counter
	duration     *telemetry.Histogram
	responseSize *telemetry.Histogram
	inFlight     metric.Int64UpDownCounter
}

func newHTTPInstruments(meter metric.Meter) (*httpInstruments, error) {
	set := telemetry.Instruments(meter)
	m := &httpInstruments{
		requests:     set.Counter("http_server_request_total", "{request}", "HTTP requests served"),
		duration:     set.Histogram("http_server_request_duration_seconds", "s", "HTTP request latency", telemetry.HTTPDurationBuckets...),
		responseSize: set.Histogram("http_server_response_size_bytes", "By", "HTTP response body size", telemetry.SizeBuckets...),
		inFlight:     set.UpDown("http_server_active_requests", "{request}", "HTTP requests being served"),
	}
	if err := set.Err(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *httpInstruments) handle(c *gin.Context) {
	ctx := c.Request.Context()
	start := time.Now()
	m.inFlight.Add(ctx, 1)
	defer m.inFlight.Add(ctx, -1)

	c.Next()

	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}
	base := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(route),
	}
	counted := append([]attribute.KeyValue{telemetry.AttrHTTPStatusCode.Int(c.Writer.Status())}, base...)
	if tenant := tenantLabel(c); tenant != "" {
		counted = append(counted, telemetry.AttrTenantID.String(tenant))
	}

	m.requests.Inc(ctx, counted...)
	m.duration.RecordDuration(ctx, time.Since(start), base...)
	if size := c.Writer.Size(); size > 0 {
		m.responseSize.Record(ctx, float64(size), base...)
	}
}

// Profiling tags the rest of the chain with pyroscope labels for the route,
// method, resource and tenant. Install it after RequireTenant so the
// tenant is known.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		labels := map[string]string{
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelController: routeResource(route),
			telemetry.ProfilingLabelTenantID:   tenantLabel(c),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// routeResource returns the first static segment after /api, e.g. "obras"
// for /api/obras/:id/etapas.
func routeResource(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}

// tenantLabel returns the resolved tenant, falling back to a well-formed JWT
// tenant claim. Headers are never trusted here.
func tenantLabel(c *gin.Context) string {
	if id, ok := GetTenantUUID(c); ok {
		return id.String()
	}
	if claim := c.GetString(JWTTenantIDKey); claim != "" {
		if id, err := uuid.Parse(claim); err == nil {
			return id.String()
		}
	}
	return ""
}
