package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp-obras/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestSetup_Disabled(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), telemetry.Config{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter("erp-obras/test"))
	p.LinkSpanProfiles()
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestProviders_BridgeLoggerWithoutLogPipeline(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	base := zap.New(core)

	p, err := telemetry.Setup(context.Background(), telemetry.Config{}, nil)
	require.NoError(t, err)

	bridged := p.BridgeLogger(base)
	assert.Same(t, base, bridged)
	bridged.Info("obra criada")
	assert.Equal(t, 1, logs.Len())
}

func TestProviders_NilReceiver(t *testing.T) {
	var p *telemetry.Providers
	assert.False(t, p.Enabled())
	assert.NotNil(t, p.Meter("x"))
	assert.NoError(t, p.Shutdown(context.Background()))
}

func installSpanRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func TestStartServiceSpan(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "financial_entry", "pay",
		telemetry.SpanEntryID.String("e-1"))
	span.SetAttributes(telemetry.SpanAlertCount.Int(3))
	err := span.Fail(errors.New("saldo insuficiente"))
	span.End()

	assert.EqualError(t, err, "saldo insuficiente")
	ended := recorder.Ended()
	require.Len(t, ended, 1)
	got := ended[0]
	assert.Equal(t, "financial_entry.pay", got.Name())
	assert.Equal(t, trace.SpanKindInternal, got.SpanKind())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "saldo insuficiente", got.Status().Description)
	require.Len(t, got.Events(), 1)

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range got.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Len(t, attrs, 2)
	assert.Equal(t, "e-1", attrs[telemetry.SpanEntryID].AsString())
	assert.Equal(t, int64(3), attrs[telemetry.SpanAlertCount].AsInt64())
}

func TestServiceSpan_FailNil(t *testing.T) {
	recorder := installSpanRecorder(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "report", "render")
	assert.NoError(t, span.Fail(nil))
	span.End()

	require.Len(t, recorder.Ended(), 1)
	assert.Equal(t, codes.Unset, recorder.Ended()[0].Status().Code)
	assert.Empty(t, recorder.Ended()[0].Events())
}

func TestWithProfilingLabels_RunsFunction(t *testing.T) {
	ran := false
	telemetry.WithProfilingLabels(context.Background(),
		telemetry.OperationLabels("render_management_report", map[string]string{"tenant_id": "t-1"}),
		func(ctx context.Context) {
			assert.NotNil(t, ctx)
			ran = true
		})
	assert.True(t, ran)

	ran = false
	telemetry.WithProfilingLabels(context.Background(), nil, func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestOperationLabels(t *testing.T) {
	extra := map[string]string{telemetry.ProfilingLabelRoute: "/api/relatorios"}
	labels := telemetry.OperationLabels("export_xlsx", extra)

	assert.Equal(t, map[string]string{
		telemetry.ProfilingLabelOperation: "export_xlsx",
		telemetry.ProfilingLabelRoute:     "/api/relatorios",
	}, labels)
	assert.Len(t, extra, 1)
}

func TestStartProfiler_RequiresAddress(t *testing.T) {
	p, err := telemetry.StartProfiler(telemetry.ProfilerConfig{ApplicationName: "erp-obras"}, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, p)

	var stopped *telemetry.Profiler
	assert.NoError(t, stopped.Stop())
}

type obra struct {
	ID   uint `gorm:"primaryKey"`
	Name string
}

func TestInstrumentDatabase(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&obra{}))

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	require.NoError(t, telemetry.InstrumentDatabase(db, mp.Meter("db"), telemetry.DatabaseConfig{
		DBSystem:           "sqlite",
		SlowQueryThreshold: time.Hour,
	}, zap.NewNop()))

	require.NoError(t, db.Create(&obra{Name: "Residencial Aurora"}).Error)
	var found []obra
	require.NoError(t, db.Find(&found).Error)
	require.Len(t, found, 1)

	ops := map[string]int64{}
	for _, p := range int64Points(t, reader, "db_query_total") {
		op, _ := p.Attributes.Value(telemetry.AttrDBOperation)
		ops[op.AsString()] += p.Value
	}
	assert.Equal(t, int64(1), ops["INSERT"])
	assert.Equal(t, int64(1), ops["SELECT"])
	assert.Empty(t, int64Points(t, reader, "db_slow_query_total"))

	open, ok := pointValue(int64Points(t, reader, "db_pool_connections"), telemetry.AttrDBState.String("open"))
	require.True(t, ok)
	assert.GreaterOrEqual(t, open, int64(1))
}
