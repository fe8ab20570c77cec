package tracer

// Config controls span export.
type Config struct {
	// Enabled turns on the OTLP exporter. When false a no-op provider is
	// installed and spans are dropped.
	Enabled bool `yaml:"enabled" koanf:"enabled"`

	ServiceName string `yaml:"service_name" koanf:"service_name"`

	// Endpoint of the OTLP HTTP collector, host:port.
	Endpoint string `yaml:"endpoint" koanf:"endpoint"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" koanf:"insecure"`

	// SampleRatio is the fraction of root spans sampled, 0..1.
	SampleRatio float64 `yaml:"sample_ratio" koanf:"sample_ratio"`

	Headers map[string]string `yaml:"headers" koanf:"headers"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "vectorshard",
		Endpoint:    "localhost:4318",
		Insecure:    true,
		SampleRatio: 1,
	}
}
