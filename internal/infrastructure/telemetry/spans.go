package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of the application service spans.
const TracerName = "github.com/erp-obras/backend"

// Span attributes set by the application services.
var (
	SpanProjectID   = attribute.Key("project.id")
	SpanEntryID     = attribute.Key("financial_entry.id")
	SpanAmount      = attribute.Key("financial_entry.amount")
	SpanSourceType  = attribute.Key("financial_entry.source_type")
	SpanPeriodStart = attribute.Key("report.period_start")
	SpanPeriodEnd   = attribute.Key("report.period_end")
	SpanAlertCount  = attribute.Key("report.alert_count")
)

// ServiceSpan wraps the internal span of one application service call.
type ServiceSpan struct {
	trace.Span
}

// StartServiceSpan starts "<service>.<method>" on the global tracer provider.
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, ServiceSpan) {
	ctx, span := otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	return ctx, ServiceSpan{Span: span}
}

// Fail records err and marks the span failed. It returns err so call sites
// can write "return nil, span.Fail(err)". A nil err leaves the span alone.
func (s ServiceSpan) Fail(err error) error {
	if err != nil {
		s.RecordError(err)
		s.SetStatus(codes.Error, err.Error())
	}
	return err
}
