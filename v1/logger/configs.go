package logger

const (
	Debug   = "debug"
	Info    = "info"
	Warning = "warning"
	Error   = "error"
)

// Config defines the logger configuration.
type Config struct {
	// Level is one of debug, info, warning or error. Anything else logs at info.
	Level string `yaml:"level" koanf:"level"`

	// EnableTracing adds trace_id and span_id to entries written through the
	// *WithContext methods when the context carries a valid span.
	EnableTracing bool `yaml:"enable_tracing" koanf:"enable_tracing"`

	// ServiceName is attached to every entry as the "service" field.
	ServiceName string `yaml:"service_name" koanf:"service_name"`
}
