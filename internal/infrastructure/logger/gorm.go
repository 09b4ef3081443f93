package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowSQL = 200 * time.Millisecond

// GormLogger routes GORM's logging into zap. Statements run inside a request
// carry that request's id, tenant and user.
type GormLogger struct {
	log     *zap.Logger
	level   gormlogger.LogLevel
	slowSQL time.Duration
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger logs through log at level. Statements slower than slowSQL
// are warned about; zero uses 200ms.
func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, slowSQL time.Duration) *GormLogger {
	if slowSQL <= 0 {
		slowSQL = defaultSlowSQL
	}
	return &GormLogger{log: log.Named("gorm"), level: level, slowSQL: slowSQL}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.log.Sugar().Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Sugar().Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.log.Sugar().Errorf(msg, data...)
	}
}

// Trace logs failed statements at error, slow ones at warn and the rest at
// debug when the level is Info. Record-not-found is not a failure.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	failed := err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound)
	elapsed := time.Since(begin)
	slow := elapsed >= l.slowSQL

	switch {
	case failed && l.level >= gormlogger.Error:
	case slow && l.level >= gormlogger.Warn:
	case l.level >= gormlogger.Info:
	default:
		return
	}

	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	for key, value := range map[string]string{
		"request_id": RequestID(ctx),
		"tenant_id":  TenantID(ctx),
		"user_id":    UserID(ctx),
	} {
		if value != "" {
			fields = append(fields, zap.String(key, value))
		}
	}

	switch {
	case failed && l.level >= gormlogger.Error:
		l.log.Error("SQL error", append(fields, zap.Error(err))...)
	case slow && l.level >= gormlogger.Warn:
		l.log.Warn("Slow SQL", append(fields, zap.Duration("threshold", l.slowSQL))...)
	default:
		l.log.Debug("SQL", fields...)
	}
}

// GormLevel maps an application log level to GORM's. debug and info log
// every statement; unknown levels only log warnings and errors.
func GormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
