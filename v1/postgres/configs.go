package postgres

// Config holds the PostgreSQL connection settings of the registry datastore.
type Config struct {
	Connection Connection `yaml:"connection" koanf:"connection"`
}

type Connection struct {
	Host     string `yaml:"host" koanf:"host"`
	Port     string `yaml:"port" koanf:"port"`
	User     string `yaml:"user" koanf:"user"`
	Password string `yaml:"password" koanf:"password"`
	DbName   string `yaml:"db_name" koanf:"db_name"`
	SSLMode  string `yaml:"ssl_mode" koanf:"ssl_mode"`
}

// Address returns host:port, used by the pool's reachability probe.
func (c Connection) Address() string {
	return c.Host + ":" + c.Port
}
