package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func traceQuery(gl *GormLogger, ctx context.Context, begin time.Time, err error) {
	gl.Trace(ctx, begin, func() (string, int64) {
		return "SELECT * FROM documents WHERE tenant_id = $1", 3
	}, err)
}

func TestNewGormLogger_Defaults(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	assert.Equal(t, gormlogger.Info, gl.logLevel)
	assert.Equal(t, defaultSlowThreshold, gl.slowThreshold)
	assert.True(t, gl.ignoreRecordNotFoundError)
}

func TestNewGormLogger_Options(t *testing.T) {
	gl, _ := newObservedGormLogger(
		gormlogger.Info,
		WithSlowThreshold(500*time.Millisecond),
		WithIgnoreRecordNotFoundError(false),
	)

	assert.Equal(t, 500*time.Millisecond, gl.slowThreshold)
	assert.False(t, gl.ignoreRecordNotFoundError)
}

func TestGormLogger_LogModeClones(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Info)

	lowered, ok := gl.LogMode(gormlogger.Warn).(*GormLogger)
	require.True(t, ok)

	assert.Equal(t, gormlogger.Warn, lowered.logLevel)
	assert.Equal(t, gormlogger.Info, gl.logLevel)
}

func TestGormLogger_MessageLevels(t *testing.T) {
	ctx := context.Background()

	t.Run("info formats arguments", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		gl.Info(ctx, "migrated %d tables", 7)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, "migrated 7 tables", logs[0].Message)
		assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
	})

	t.Run("warn", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn)
		gl.Warn(ctx, "connection pool at %d%%", 90)

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	})

	t.Run("error", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		gl.Error(ctx, "constraint violated")

		logs := recorded.All()
		require.Len(t, logs, 1)
		assert.Equal(t, zapcore.ErrorLevel, logs[0].Level)
	})

	t.Run("suppressed below configured level", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)
		gl.Info(ctx, "not emitted")
		gl.Warn(ctx, "not emitted either")

		assert.Empty(t, recorded.All())
	})
}

func TestGormLogger_TraceFailedQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	traceQuery(gl, context.Background(), time.Now(), errors.New("relation does not exist"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Error", logs[0].Message)
	assert.Contains(t, logs[0].ContextMap(), "sql")
	assert.Contains(t, logs[0].ContextMap(), "error")
}

func TestGormLogger_TraceIgnoresRecordNotFound(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error)

	traceQuery(gl, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_TraceReportsRecordNotFoundWhenConfigured(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

	traceQuery(gl, context.Background(), time.Now(), gormlogger.ErrRecordNotFound)

	require.Len(t, recorded.All(), 1)
}

func TestGormLogger_TraceSlowQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Millisecond))

	traceQuery(gl, context.Background(), time.Now().Add(-time.Second), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
}

func TestGormLogger_TraceHealthyQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	traceQuery(gl, context.Background(), time.Now(), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Query", logs[0].Message)
	assert.Equal(t, zapcore.DebugLevel, logs[0].Level)
	assert.EqualValues(t, 3, logs[0].ContextMap()["rows"])
}

func TestGormLogger_TraceSilent(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Silent)

	traceQuery(gl, context.Background(), time.Now(), nil)
	traceQuery(gl, context.Background(), time.Now(), errors.New("still silent"))

	assert.Empty(t, recorded.All())
}

func TestGormLogger_TraceCorrelation(t *testing.T) {
	gl, recorded := newObservedGormLogger(gormlogger.Info)

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-41c0")
	ctx, _ = WithTenantID(ctx, zap.NewNop(), "6b1d9c2e-0000-0000-0000-000000000000")

	traceQuery(gl, ctx, time.Now(), nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "req-41c0", fields["request_id"])
	assert.Equal(t, "6b1d9c2e-0000-0000-0000-000000000000", fields["tenant_id"])
}

func TestMapGormLogLevel(t *testing.T) {
	cases := map[string]gormlogger.LogLevel{
		"silent":  gormlogger.Silent,
		"error":   gormlogger.Error,
		"warn":    gormlogger.Warn,
		"info":    gormlogger.Info,
		"debug":   gormlogger.Info,
		"verbose": gormlogger.Warn,
		"":        gormlogger.Warn,
	}

	for level, want := range cases {
		assert.Equal(t, want, MapGormLogLevel(level), "level %q", level)
	}
}

var _ gormlogger.Interface = (*GormLogger)(nil)
