package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Attribute keys shared by the HTTP, database and business instruments.
var (
	AttrTenantID = attribute.Key("tenant_id")

	AttrHTTPMethod     = attribute.Key("http.method")
	AttrHTTPStatusCode = attribute.Key("http.status_code")
	AttrHTTPRoute      = attribute.Key("http.route")

	AttrDBOperation = attribute.Key("db.operation")
	AttrDBTable     = attribute.Key("db.table")
	AttrDBState     = attribute.Key("db.pool.state")

	AttrEventType   = attribute.Key("event_type")
	AttrOutcome     = attribute.Key("outcome")
	AttrEntryStatus = attribute.Key("entry_status")
)

// Latency bucket boundaries in seconds, and response size boundaries in bytes.
var (
	HTTPDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	DBDurationBuckets   = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	SizeBuckets         = []float64{100, 1e3, 1e4, 1e5, 1e6, 1e7}
)

// InstrumentSet creates instruments on one meter and remembers every
// failure, so a constructor declares all of its instruments and checks Err
// once at the end.
type InstrumentSet struct {
	meter metric.Meter
	errs  []error
}

func Instruments(meter metric.Meter) *InstrumentSet {
	return &InstrumentSet{meter: meter}
}

// Err joins the creation failures seen so far.
func (s *InstrumentSet) Err() error {
	return errors.Join(s.errs...)
}

func (s *InstrumentSet) track(err error) {
	if err != nil {
		s.errs = append(s.errs, err)
	}
}

// Counter is a monotonically increasing int64 instrument.
type Counter struct {
	inst metric.Int64Counter
}

func (s *InstrumentSet) Counter(name, unit, description string) *Counter {
	inst, err := s.meter.Int64Counter(name, metric.WithUnit(unit), metric.WithDescription(description))
	s.track(err)
	return &Counter{inst: inst}
}

func (c *Counter) Add(ctx context.Context, n int64, attrs ...attribute.KeyValue) {
	c.inst.Add(ctx, n, metric.WithAttributes(attrs...))
}

func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, attrs...)
}

// Histogram records float64 distributions such as durations.
type Histogram struct {
	inst metric.Float64Histogram
}

// Histogram keeps the SDK default buckets when none are given.
func (s *InstrumentSet) Histogram(name, unit, description string, buckets ...float64) *Histogram {
	opts := []metric.Float64HistogramOption{metric.WithUnit(unit), metric.WithDescription(description)}
	if len(buckets) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(buckets...))
	}
	inst, err := s.meter.Float64Histogram(name, opts...)
	s.track(err)
	return &Histogram{inst: inst}
}

func (h *Histogram) Record(ctx context.Context, v float64, attrs ...attribute.KeyValue) {
	h.inst.Record(ctx, v, metric.WithAttributes(attrs...))
}

// RecordDuration records d in seconds.
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.Record(ctx, d.Seconds(), attrs...)
}

// Gauge holds the latest int64 value per attribute set.
type Gauge struct {
	inst metric.Int64Gauge
}

func (s *InstrumentSet) Gauge(name, unit, description string) *Gauge {
	inst, err := s.meter.Int64Gauge(name, metric.WithUnit(unit), metric.WithDescription(description))
	s.track(err)
	return &Gauge{inst: inst}
}

func (g *Gauge) Record(ctx context.Context, v int64, attrs ...attribute.KeyValue) {
	g.inst.Record(ctx, v, metric.WithAttributes(attrs...))
}

// UpDown is an int64 counter that may decrease, e.g. requests in flight.
func (s *InstrumentSet) UpDown(name, unit, description string) metric.Int64UpDownCounter {
	inst, err := s.meter.Int64UpDownCounter(name, metric.WithUnit(unit), metric.WithDescription(description))
	s.track(err)
	return inst
}
