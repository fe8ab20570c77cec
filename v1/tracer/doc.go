// Package tracer installs the process-wide OpenTelemetry tracer provider.
//
// With Enabled set, spans are batched to an OTLP HTTP collector at
// Endpoint and sampled by SampleRatio for root spans; child spans follow
// their parent. Otherwise the global no-op provider stays in place and
// otel.Tracer calls elsewhere cost nothing.
//
// Other packages never reference this one; they start spans through
// otel.Tracer. The fx module flushes pending spans on stop.
package tracer
