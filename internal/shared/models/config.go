package models

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type RabbitMQConfig struct {
	Host     string
	Port     string
	User     string
	Password string
}

type JWTConfig struct {
	Secret     string
	TTLMinutes int
}

type PushConfig struct {
	Endpoint string
}

type PortsConfig struct {
	Auth     string
	Dispatch string
	Driver   string
	Admin    string
}

type Config struct {
	ServiceName    string
	Database       DatabaseConfig
	RabbitMQ       RabbitMQConfig
	JWT            JWTConfig
	Push           PushConfig
	Ports          PortsConfig
	MigrationsPath string
}
