package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(tracing bool) (*LoggerClient, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return &LoggerClient{Zap: zap.New(core), tracingEnabled: tracing}, logs
}

func TestLoggerFieldsAndError(t *testing.T) {
	l, logs := newObserved(false)

	l.Warn("retrying", errors.New("boom"), map[string]interface{}{"attempt": 2}, map[string]interface{}{"project": "QA1"})

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "retrying", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.EqualValues(t, 2, fields["attempt"])
	assert.Equal(t, "QA1", fields["project"])
}

func TestLoggerWithContextAddsTraceIDs(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	t.Run("tracing enabled", func(t *testing.T) {
		l, logs := newObserved(true)
		l.InfoWithContext(ctx, "placed", nil)

		fields := logs.All()[0].ContextMap()
		assert.Equal(t, traceID.String(), fields["trace_id"])
		assert.Equal(t, spanID.String(), fields["span_id"])
	})

	t.Run("tracing disabled", func(t *testing.T) {
		l, logs := newObserved(false)
		l.InfoWithContext(ctx, "placed", nil)

		fields := logs.All()[0].ContextMap()
		assert.NotContains(t, fields, "trace_id")
	})

	t.Run("no span in context", func(t *testing.T) {
		l, logs := newObserved(true)
		l.ErrorWithContext(context.Background(), "failed", errors.New("x"))

		fields := logs.All()[0].ContextMap()
		assert.NotContains(t, fields, "trace_id")
		assert.Equal(t, "x", fields["error"])
	})
}

func TestNewLoggerClientLevels(t *testing.T) {
	l := NewLoggerClient(Config{Level: Error, ServiceName: "test"})
	assert.False(t, l.Zap.Core().Enabled(zap.WarnLevel))
	assert.True(t, l.Zap.Core().Enabled(zap.ErrorLevel))

	l = NewLoggerClient(Config{Level: "unknown"})
	assert.True(t, l.Zap.Core().Enabled(zap.InfoLevel))
	assert.False(t, l.Zap.Core().Enabled(zap.DebugLevel))
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, levelFor(Debug))
	assert.Equal(t, zapcore.WarnLevel, levelFor(Warning))
	assert.Equal(t, zapcore.ErrorLevel, levelFor(Error))
	assert.Equal(t, zapcore.InfoLevel, levelFor("verbose"))
}

func TestZapConfigInitialFields(t *testing.T) {
	cfg := zapConfig(Config{Level: Debug, ServiceName: "vectorshard"})
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, "vectorshard", cfg.InitialFields["service"])
	assert.Contains(t, cfg.InitialFields, "pid")
	assert.True(t, cfg.Level.Enabled(zapcore.DebugLevel))
}
