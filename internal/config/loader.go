package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// secrets never live in config.yaml; they are bound to env explicitly so
// AutomaticEnv can see them even when the file omits the key.
var secretKeys = []string{
	"postgres.user",
	"postgres.password",
	"postgres.db",
	"auth.admin_token",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "campaign-site")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.port", 8080)

	v.SetDefault("storage.driver", "postgres")
	v.SetDefault("storage.migrate", true)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")

	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.list_max_age", 60)
	v.SetDefault("http.visitor_rate_per_minute", 30)
	v.SetDefault("http.contact_rate_per_minute", 5)
	v.SetDefault("http.shutdown_timeout", 10)
}

// Load reads config from path, then applies APP_* env overrides.
// A .env file next to the process is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	for _, k := range secretKeys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks struct rules plus the cross-field requirements validator tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c.App); err != nil {
		return fmt.Errorf("app config validation error: %w", err)
	}
	if err := v.Struct(c.Storage); err != nil {
		return fmt.Errorf("storage config validation error: %w", err)
	}
	if err := v.Struct(c.HTTP); err != nil {
		return fmt.Errorf("http config validation error: %w", err)
	}

	if c.Storage.Driver == "postgres" {
		var missing []string
		if c.Postgres.User == "" {
			missing = append(missing, "APP_POSTGRES_USER")
		}
		if c.Postgres.Password == "" {
			missing = append(missing, "APP_POSTGRES_PASSWORD")
		}
		if c.Postgres.DBName == "" {
			missing = append(missing, "APP_POSTGRES_DB")
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing required postgres settings: %s", strings.Join(missing, ", "))
		}
	}
	if c.App.Env == "prod" && c.Auth.AdminToken == "" {
		return errors.New("auth.admin_token (APP_AUTH_ADMIN_TOKEN) is required in prod")
	}
	return nil
}
