package config

import (
	"github.com/maxviazov/campaign-site/internal/logger"
)

// Config is the full backend configuration, loaded from config.yaml and APP_* env.
type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger"`
	Storage  StorageConfig       `mapstructure:"storage"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	HTTP     HTTPConfig          `mapstructure:"http"`
	Auth     AuthConfig          `mapstructure:"auth"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env" validate:"oneof=dev test staging prod"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
}

// StorageConfig selects the repository backend. "memory" keeps everything in
// process and is meant for local development and tests.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"oneof=memory postgres"`
	// Migrate runs the embedded goose migrations on startup.
	Migrate bool `mapstructure:"migrate"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// HTTPConfig holds transport-level knobs of the public API.
type HTTPConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	// ListMaxAge is the Cache-Control max-age, in seconds, of public list responses.
	ListMaxAge int `mapstructure:"list_max_age" validate:"min=0"`
	// Requests per minute per client IP on the write endpoints (visitor increment, contact).
	VisitorRatePerMinute int `mapstructure:"visitor_rate_per_minute" validate:"min=1"`
	ContactRatePerMinute int `mapstructure:"contact_rate_per_minute" validate:"min=1"`
	ShutdownTimeout      int `mapstructure:"shutdown_timeout" validate:"min=1"`
}

type AuthConfig struct {
	// AdminToken is the bearer credential required on /admin routes.
	AdminToken string `mapstructure:"admin_token"`
}
