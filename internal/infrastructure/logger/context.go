package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	tenantIDKey
	userIDKey
)

// WithLogger stores log in ctx.
func WithLogger(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// FromContext returns the logger stored in ctx, or a no-op logger. When ctx
// carries a valid span, trace_id and span_id are attached.
func FromContext(ctx context.Context) *zap.Logger {
	log, ok := ctx.Value(loggerKey).(*zap.Logger)
	if !ok {
		log = zap.NewNop()
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		log = log.With(
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	return log
}

// WithRequestID records the request id and tags the stored logger with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withScopedField(ctx, requestIDKey, "request_id", id)
}

// WithTenant records the tenant (company) id and tags the stored logger with it.
func WithTenant(ctx context.Context, id string) context.Context {
	return withScopedField(ctx, tenantIDKey, "tenant_id", id)
}

// WithUser records the acting user id and tags the stored logger with it.
func WithUser(ctx context.Context, id string) context.Context {
	return withScopedField(ctx, userIDKey, "user_id", id)
}

func withScopedField(ctx context.Context, key ctxKey, field, value string) context.Context {
	ctx = context.WithValue(ctx, key, value)
	if log, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
		ctx = WithLogger(ctx, log.With(zap.String(field, value)))
	}
	return ctx
}

// RequestID returns the id set by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// TenantID returns the id set by WithTenant, or "".
func TenantID(ctx context.Context) string {
	id, _ := ctx.Value(tenantIDKey).(string)
	return id
}

// UserID returns the id set by WithUser, or "".
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}
