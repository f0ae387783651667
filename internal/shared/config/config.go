package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"

	"fleet-dispatch/internal/shared/models"
)

// Load reads configuration from the environment, falling back to the
// values in .env when present.
func Load() *models.Config {
	_ = godotenv.Load(".env")

	cfg := &models.Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "fleet-dispatch"))

	cfg.Database.Host = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.Database.Port = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.Database.User = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.Database.Password = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "postgres"))
	cfg.Database.Database = cast.ToString(getOrReturnDefault("POSTGRES_DB", "fleet"))

	cfg.RabbitMQ.Host = cast.ToString(getOrReturnDefault("RABBITMQ_HOST", "localhost"))
	cfg.RabbitMQ.Port = cast.ToString(getOrReturnDefault("RABBITMQ_PORT", "5672"))
	cfg.RabbitMQ.User = cast.ToString(getOrReturnDefault("RABBITMQ_USER", "guest"))
	cfg.RabbitMQ.Password = cast.ToString(getOrReturnDefault("RABBITMQ_PASSWORD", "guest"))

	cfg.JWT.Secret = cast.ToString(getOrReturnDefault("JWT_SECRET", "supersecret"))
	cfg.JWT.TTLMinutes = cast.ToInt(getOrReturnDefault("JWT_TTL_MINUTES", 720))

	cfg.Push.Endpoint = cast.ToString(getOrReturnDefault("PUSH_ENDPOINT", "https://exp.host/--/api/v2/push/send"))

	cfg.Ports.Auth = cast.ToString(getOrReturnDefault("AUTH_PORT", "4000"))
	cfg.Ports.Dispatch = cast.ToString(getOrReturnDefault("DISPATCH_PORT", "3000"))
	cfg.Ports.Driver = cast.ToString(getOrReturnDefault("DRIVER_PORT", "3001"))
	cfg.Ports.Admin = cast.ToString(getOrReturnDefault("ADMIN_PORT", "3004"))

	cfg.MigrationsPath = cast.ToString(getOrReturnDefault("MIGRATIONS_PATH", "migrations"))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
