// Package logger provides the structured logger used across vectorshard.
//
// It wraps zap behind a small Logger interface whose methods take a message,
// an optional error and any number of field maps:
//
//	log := logger.NewLoggerClient(logger.Config{Level: logger.Debug, ServiceName: "vectorshard"})
//	log.Warn("index creation retried", err, map[string]interface{}{
//		"project": "QA1",
//		"attempt": 2,
//	})
//
// The *WithContext variants add trace_id and span_id from the OpenTelemetry
// span in the context when Config.EnableTracing is set.
//
// Tests use NewNopLogger or FromZap(zaptest.NewLogger(t)).
package logger
