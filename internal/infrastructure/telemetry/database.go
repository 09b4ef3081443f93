package telemetry

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	queryStartKey             = "telemetry:query_start"
)

// DatabaseConfig controls the GORM instrumentation.
type DatabaseConfig struct {
	Tracing            bool   // register otelgorm spans
	LogFullSQL         bool   // keep bound variables in span statements
	DBSystem           string // postgres or sqlite
	SlowQueryThreshold time.Duration
}

// InstrumentDatabase registers query spans (when cfg.Tracing), query
// counters and latency histograms, and observable connection pool gauges.
func InstrumentDatabase(db *gorm.DB, meter metric.Meter, cfg DatabaseConfig, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = defaultSlowQueryThreshold
	}

	if cfg.Tracing {
		opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBSystem)}
		if !cfg.LogFullSQL {
			opts = append(opts, otelgorm.WithoutQueryVariables())
		}
		if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
			return err
		}
	}

	observer, err := newQueryObserver(meter, cfg.SlowQueryThreshold)
	if err != nil {
		return err
	}
	if err := db.Use(observer); err != nil {
		return err
	}
	if err := registerPoolGauges(db, meter); err != nil {
		return err
	}

	log.Info("Database instrumentation enabled",
		zap.Bool("tracing", cfg.Tracing),
		zap.String("db_system", cfg.DBSystem),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThreshold),
	)
	return nil
}

// queryObserver is a GORM plugin timing every statement.
type queryObserver struct {
	total     *Counter
	slow      *Counter
	duration  *Histogram
	threshold time.Duration
}

func newQueryObserver(meter metric.Meter, threshold time.Duration) (*queryObserver, error) {
	set := Instruments(meter)
	o := &queryObserver{
		total:     set.Counter("db_query_total", "{query}", "Database statements executed"),
		slow:      set.Counter("db_slow_query_total", "{query}", "Database statements slower than the threshold"),
		duration:  set.Histogram("db_query_duration_seconds", "s", "Database statement latency", DBDurationBuckets...),
		threshold: threshold,
	}
	if err := set.Err(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *queryObserver) Name() string { return "erp:query_observer" }

func (o *queryObserver) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("erp:before_create", o.start),
		cb.Create().After("gorm:create").Register("erp:after_create", o.finish("INSERT")),
		cb.Query().Before("gorm:query").Register("erp:before_query", o.start),
		cb.Query().After("gorm:query").Register("erp:after_query", o.finish("SELECT")),
		cb.Update().Before("gorm:update").Register("erp:before_update", o.start),
		cb.Update().After("gorm:update").Register("erp:after_update", o.finish("UPDATE")),
		cb.Delete().Before("gorm:delete").Register("erp:before_delete", o.start),
		cb.Delete().After("gorm:delete").Register("erp:after_delete", o.finish("DELETE")),
		cb.Row().Before("gorm:row").Register("erp:before_row", o.start),
		cb.Row().After("gorm:row").Register("erp:after_row", o.finish("")),
		cb.Raw().Before("gorm:raw").Register("erp:before_raw", o.start),
		cb.Raw().After("gorm:raw").Register("erp:after_raw", o.finish("")),
	)
}

func (o *queryObserver) start(tx *gorm.DB) {
	tx.InstanceSet(queryStartKey, time.Now())
}

// finish records the statement. An empty operation is read from the SQL.
func (o *queryObserver) finish(operation string) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		v, ok := tx.InstanceGet(queryStartKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		elapsed := time.Since(started)

		ctx := tx.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		op := operation
		if op == "" {
			op = sqlVerb(tx.Statement.SQL.String())
		}
		outcome := "success"
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			outcome = "error"
		}
		attrs := []attribute.KeyValue{
			AttrDBOperation.String(op),
			AttrDBTable.String(tx.Statement.Table),
		}

		o.total.Inc(ctx, append(attrs, AttrOutcome.String(outcome))...)
		o.duration.RecordDuration(ctx, elapsed, attrs...)
		if elapsed < o.threshold {
			return
		}
		o.slow.Inc(ctx, attrs...)
		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}

// sqlVerb returns the leading SQL keyword of statement, or OTHER.
func sqlVerb(statement string) string {
	fields := strings.Fields(statement)
	if len(fields) == 0 {
		return "OTHER"
	}
	switch verb := strings.ToUpper(fields[0]); verb {
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return verb
	case "WITH":
		return "SELECT"
	}
	return "OTHER"
}

// registerPoolGauges reports sql.DB pool stats on every metric collection.
func registerPoolGauges(db *gorm.DB, meter metric.Meter) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	conns, err := meter.Int64ObservableGauge("db_pool_connections",
		metric.WithDescription("Pool connections by state"), metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	maxConns, err := meter.Int64ObservableGauge("db_pool_connections_max",
		metric.WithDescription("Configured maximum open connections"), metric.WithUnit("{connection}"))
	if err != nil {
		return err
	}
	waits, err := meter.Int64ObservableCounter("db_pool_wait_total",
		metric.WithDescription("Connections waited for"), metric.WithUnit("{wait}"))
	if err != nil {
		return err
	}

	_, err = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		stats := sqlDB.Stats()
		o.ObserveInt64(conns, int64(stats.InUse), metric.WithAttributes(AttrDBState.String("in_use")))
		o.ObserveInt64(conns, int64(stats.Idle), metric.WithAttributes(AttrDBState.String("idle")))
		o.ObserveInt64(conns, int64(stats.OpenConnections), metric.WithAttributes(AttrDBState.String("open")))
		o.ObserveInt64(maxConns, int64(stats.MaxOpenConnections))
		o.ObserveInt64(waits, stats.WaitCount)
		return nil
	}, conns, maxConns, waits)
	return err
}
