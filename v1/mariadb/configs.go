package mariadb

// Config holds the MariaDB/MySQL connection settings of the registry datastore.
type Config struct {
	Connection Connection `yaml:"connection" koanf:"connection"`
}

// Connection describes how to reach the server. Optional fields left empty
// are omitted from the DSN.
type Connection struct {
	Host     string `yaml:"host" koanf:"host"`
	Port     string `yaml:"port" koanf:"port"`
	User     string `yaml:"user" koanf:"user"`
	Password string `yaml:"password" koanf:"password"`
	DbName   string `yaml:"db_name" koanf:"db_name"`

	Charset   string `yaml:"charset" koanf:"charset"`
	ParseTime bool   `yaml:"parse_time" koanf:"parse_time"`
	Loc       string `yaml:"loc" koanf:"loc"`

	TLS          string `yaml:"tls" koanf:"tls"`
	Timeout      string `yaml:"timeout" koanf:"timeout"`
	ReadTimeout  string `yaml:"read_timeout" koanf:"read_timeout"`
	WriteTimeout string `yaml:"write_timeout" koanf:"write_timeout"`
}

// Address returns host:port, used by the pool's reachability probe.
func (c Connection) Address() string {
	return c.Host + ":" + c.Port
}
