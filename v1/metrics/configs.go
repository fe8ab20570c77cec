package metrics

// Config controls the Prometheus endpoint.
type Config struct {
	// Address the /metrics server listens on, e.g. ":9090". Empty disables
	// the server; metrics are still collected.
	Address string `yaml:"address" koanf:"address"`

	// EnableDefaultCollectors registers Go runtime, process and build info
	// collectors.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" koanf:"enable_default_collectors"`

	// Namespace prefixes every metric name.
	Namespace string `yaml:"namespace" koanf:"namespace"`

	// ServiceName is added as a constant "service" label.
	ServiceName string `yaml:"service_name" koanf:"service_name"`
}

func DefaultConfig() Config {
	return Config{
		Address:                 ":9090",
		EnableDefaultCollectors: true,
		Namespace:               "vectorshard",
		ServiceName:             "vectorshard",
	}
}
